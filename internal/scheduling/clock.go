package scheduling

import (
	"fmt"
	"time"
)

// Operating window of the barangay office. Appointments are bookable on
// 30-minute marks from opening to closing time inclusive.
const (
	OpenTime    = "09:00"
	CloseTime   = "16:30"
	StepMinutes = 30

	openMinutes  = 9 * 60
	closeMinutes = 16*60 + 30
)

// ParseClock parses an "HH:MM" wire value into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDisplay renders minutes since midnight in 12-hour form, e.g. "9:00 AM".
func FormatDisplay(minutes int) string {
	t := time.Date(0, time.January, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// ParseDisplay converts a 12-hour display value back to minutes since
// midnight, so display formatting round-trips losslessly to "HH:MM".
func ParseDisplay(s string) (int, error) {
	t, err := time.Parse("3:04 PM", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SlotTimes returns the ordered sequence of bookable "HH:MM" values from
// opening to closing time inclusive. It is used both for the booking choice
// list and to drive the allocator's forward search.
func SlotTimes() []string {
	var times []string
	for m := openMinutes; m <= closeMinutes; m += StepMinutes {
		times = append(times, FormatClock(m))
	}
	return times
}

// IsSlotTime reports whether s is a valid bookable time: inside the
// operating window and on a 30-minute mark.
func IsSlotTime(s string) bool {
	m, err := ParseClock(s)
	if err != nil {
		return false
	}
	return m >= openMinutes && m <= closeMinutes && (m-openMinutes)%StepMinutes == 0
}

// ValidateDate rejects booking dates that are not strictly in the future.
// Today does not count as a bookable date.
func ValidateDate(preferred, today time.Time) error {
	p := time.Date(preferred.Year(), preferred.Month(), preferred.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !p.After(t) {
		return ErrDateNotFuture
	}
	return nil
}

// ValidateTime rejects times outside the operating window or off the
// 30-minute grid.
func ValidateTime(s string) error {
	m, err := ParseClock(s)
	if err != nil {
		return err
	}
	if m < openMinutes || m > closeMinutes {
		return ErrTimeOutOfRange
	}
	if (m-openMinutes)%StepMinutes != 0 {
		return ErrTimeNotSlot
	}
	return nil
}
