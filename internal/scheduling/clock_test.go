package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestSlotTimes(t *testing.T) {
	times := SlotTimes()
	if len(times) != 16 {
		t.Fatalf("expected 16 slot times, got %d", len(times))
	}
	if times[0] != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", times[0])
	}
	if times[len(times)-1] != "16:30" {
		t.Fatalf("expected last slot 16:30, got %s", times[len(times)-1])
	}
	for i := 1; i < len(times); i++ {
		prev, _ := ParseClock(times[i-1])
		cur, _ := ParseClock(times[i])
		if cur-prev != StepMinutes {
			t.Fatalf("slots %s and %s are not %d minutes apart", times[i-1], times[i], StepMinutes)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, s := range SlotTimes() {
		m, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%s): %v", s, err)
		}
		if got := FormatClock(m); got != s {
			t.Fatalf("FormatClock(ParseClock(%s)) = %s", s, got)
		}

		display := FormatDisplay(m)
		back, err := ParseDisplay(display)
		if err != nil {
			t.Fatalf("ParseDisplay(%s): %v", display, err)
		}
		if FormatClock(back) != s {
			t.Fatalf("display form %s did not round-trip to %s", display, s)
		}
	}
}

func TestFormatDisplay(t *testing.T) {
	cases := []struct {
		wire    string
		display string
	}{
		{"09:00", "9:00 AM"},
		{"12:00", "12:00 PM"},
		{"16:30", "4:30 PM"},
	}
	for _, c := range cases {
		m, _ := ParseClock(c.wire)
		if got := FormatDisplay(m); got != c.display {
			t.Errorf("FormatDisplay(%s) = %q, want %q", c.wire, got, c.display)
		}
	}
}

func TestIsSlotTime(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"09:00", true},
		{"16:30", true},
		{"12:30", true},
		{"08:30", false}, // before opening
		{"17:00", false}, // after closing
		{"10:15", false}, // off the 30-minute grid
		{"banana", false},
	}
	for _, c := range cases {
		if got := IsSlotTime(c.value); got != c.want {
			t.Errorf("IsSlotTime(%q) = %v, want %v", c.value, got, c.want)
		}
	}
}

func TestValidateDate(t *testing.T) {
	today := time.Date(2025, 1, 9, 14, 30, 0, 0, time.UTC)

	if err := ValidateDate(today, today); !errors.Is(err, ErrDateNotFuture) {
		t.Errorf("booking today should be rejected, got %v", err)
	}
	if err := ValidateDate(today.AddDate(0, 0, -3), today); !errors.Is(err, ErrDateNotFuture) {
		t.Errorf("booking in the past should be rejected, got %v", err)
	}
	if err := ValidateDate(today.AddDate(0, 0, 1), today); err != nil {
		t.Errorf("booking tomorrow should be accepted, got %v", err)
	}
}

func TestValidateTime(t *testing.T) {
	if err := ValidateTime("10:00"); err != nil {
		t.Errorf("10:00 should be valid, got %v", err)
	}
	if err := ValidateTime("08:30"); !errors.Is(err, ErrTimeOutOfRange) {
		t.Errorf("08:30 should be out of range, got %v", err)
	}
	if err := ValidateTime("17:00"); !errors.Is(err, ErrTimeOutOfRange) {
		t.Errorf("17:00 should be out of range, got %v", err)
	}
	if err := ValidateTime("10:15"); !errors.Is(err, ErrTimeNotSlot) {
		t.Errorf("10:15 should be rejected as off-grid, got %v", err)
	}
	if err := ValidateTime("not a time"); err == nil {
		t.Error("malformed time should be rejected")
	}
}
