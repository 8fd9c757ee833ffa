package scheduling

import "time"

// HorizonDays is how many days past the preferred date the nearest-slot
// search scans before giving up.
const HorizonDays = 14

// Slot is a bookable (date, time) pair.
type Slot struct {
	Date time.Time
	Time string
}

// Allocator searches forward for the nearest admissible slot when a
// requested one is full.
type Allocator struct {
	Detector    *Detector
	HorizonDays int
}

// NewAllocator creates an Allocator with the standard search horizon.
func NewAllocator(detector *Detector) *Allocator {
	return &Allocator{Detector: detector, HorizonDays: HorizonDays}
}

// FindNearestAvailable returns the first admissible slot at or after the
// preferred one. On the preferred date the scan begins one step after the
// preferred time, so the slot that just failed is never suggested; every
// later day is scanned from opening time. The scan stops at the first hit.
// A saturated horizon returns found=false, which is a valid negative
// result rather than an error.
func (a *Allocator) FindNearestAvailable(preferredDate time.Time, preferredTime string) (Slot, bool, error) {
	preferred, err := ParseClock(preferredTime)
	if err != nil {
		return Slot{}, false, err
	}

	for offset := 0; offset <= a.HorizonDays; offset++ {
		date := preferredDate.AddDate(0, 0, offset)

		start := openMinutes
		if offset == 0 {
			start = preferred + StepMinutes
		}

		for m := start; m <= closeMinutes; m += StepMinutes {
			ok, err := a.Detector.Admit(date, FormatClock(m), "")
			if err != nil {
				return Slot{}, false, err
			}
			if ok {
				return Slot{Date: date, Time: FormatClock(m)}, true, nil
			}
		}
	}

	return Slot{}, false, nil
}
