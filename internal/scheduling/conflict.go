package scheduling

import "time"

const (
	// BufferMinutes is the half-width of the window around a candidate time
	// within which existing bookings count against capacity.
	BufferMinutes = 30

	// Capacity is the maximum number of non-cancelled bookings admitted
	// inside one buffer window.
	Capacity = 5
)

// Window is an inclusive time-of-day range on a single date, in "HH:MM"
// wire form so it can be compared directly against stored times.
type Window struct {
	Start string
	End   string
}

// BufferWindow computes the symmetric buffer window around t, clamped to
// the operating hours so a window near opening or closing time never
// counts bookings outside the bookable day.
func BufferWindow(t string, bufferMinutes int) (Window, error) {
	m, err := ParseClock(t)
	if err != nil {
		return Window{}, err
	}

	start := m - bufferMinutes
	end := m + bufferMinutes
	if start < openMinutes {
		start = openMinutes
	}
	if end > closeMinutes {
		end = closeMinutes
	}

	return Window{Start: FormatClock(start), End: FormatClock(end)}, nil
}

// Counter is the appointment-store contract the detector counts bookings
// through. Implementations must not count cancelled appointments, and must
// skip the appointment identified by excludeID when it is non-empty (an
// appointment being rescheduled never conflicts with itself).
type Counter interface {
	CountOverlapping(date time.Time, w Window, excludeID string) (int64, error)
}

// Detector decides whether a booking at a (date, time) slot can be admitted.
type Detector struct {
	Counter  Counter
	Capacity int
}

// NewDetector creates a Detector with the standard capacity ceiling.
func NewDetector(counter Counter) *Detector {
	return &Detector{Counter: counter, Capacity: Capacity}
}

// Admit reports whether one more booking at (date, t) stays under the
// capacity ceiling for its buffer window.
func (d *Detector) Admit(date time.Time, t string, excludeID string) (bool, error) {
	w, err := BufferWindow(t, BufferMinutes)
	if err != nil {
		return false, err
	}

	count, err := d.Counter.CountOverlapping(date, w, excludeID)
	if err != nil {
		return false, err
	}
	return count < int64(d.Capacity), nil
}
