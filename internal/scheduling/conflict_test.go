package scheduling

import (
	"fmt"
	"testing"
	"time"
)

// memoryStore is an in-memory Counter used by the detector and allocator
// tests. It mirrors the store contract: cancelled bookings never count and
// excludeID removes a booking from its own conflict count.
type memoryStore struct {
	bookings []memoryBooking
}

type memoryBooking struct {
	id        string
	date      time.Time
	slot      string
	cancelled bool
}

func (s *memoryStore) add(date time.Time, slot string) string {
	id := fmt.Sprintf("appt-%d", len(s.bookings)+1)
	s.bookings = append(s.bookings, memoryBooking{id: id, date: date, slot: slot})
	return id
}

func (s *memoryStore) cancel(id string) {
	for i := range s.bookings {
		if s.bookings[i].id == id {
			s.bookings[i].cancelled = true
		}
	}
}

func (s *memoryStore) CountOverlapping(date time.Time, w Window, excludeID string) (int64, error) {
	var count int64
	for _, b := range s.bookings {
		if b.cancelled || !b.date.Equal(date) {
			continue
		}
		if excludeID != "" && b.id == excludeID {
			continue
		}
		if b.slot >= w.Start && b.slot <= w.End {
			count++
		}
	}
	return count, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBufferWindow(t *testing.T) {
	cases := []struct {
		candidate  string
		start, end string
	}{
		{"10:00", "09:30", "10:30"},
		{"09:00", "09:00", "09:30"}, // clamped at opening
		{"09:10", "09:00", "09:40"}, // does not extend below 09:00
		{"16:15", "15:45", "16:30"}, // does not extend past 16:30
		{"16:30", "16:00", "16:30"},
	}
	for _, c := range cases {
		w, err := BufferWindow(c.candidate, BufferMinutes)
		if err != nil {
			t.Fatalf("BufferWindow(%s): %v", c.candidate, err)
		}
		if w.Start != c.start || w.End != c.end {
			t.Errorf("BufferWindow(%s) = [%s, %s], want [%s, %s]",
				c.candidate, w.Start, w.End, c.start, c.end)
		}
	}
}

func TestDetectorCapacityCeiling(t *testing.T) {
	store := &memoryStore{}
	detector := NewDetector(store)
	date := day(2025, time.January, 10)

	var last string
	for i := 0; i < Capacity; i++ {
		ok, err := detector.Admit(date, "10:00", "")
		if err != nil {
			t.Fatalf("Admit: %v", err)
		}
		if !ok {
			t.Fatalf("booking %d of %d should be admitted", i+1, Capacity)
		}
		last = store.add(date, "10:00")
	}

	ok, err := detector.Admit(date, "10:00", "")
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if ok {
		t.Fatal("booking past the capacity ceiling should be rejected")
	}

	// Cancelling one booking frees one admission in the same window.
	store.cancel(last)
	ok, err = detector.Admit(date, "10:00", "")
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !ok {
		t.Fatal("cancelled booking should free capacity")
	}
}

func TestDetectorCountsWholeWindow(t *testing.T) {
	store := &memoryStore{}
	detector := NewDetector(store)
	date := day(2025, time.January, 10)

	// Three at 09:30 and two at 10:00 saturate 10:00's window [09:30, 10:30].
	for i := 0; i < 3; i++ {
		store.add(date, "09:30")
	}
	for i := 0; i < 2; i++ {
		store.add(date, "10:00")
	}

	ok, err := detector.Admit(date, "10:00", "")
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if ok {
		t.Fatal("10:00 should be rejected: five bookings fall in its window")
	}

	// 10:30's window [10:00, 11:00] only holds the two 10:00 bookings.
	ok, err = detector.Admit(date, "10:30", "")
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !ok {
		t.Fatal("10:30 should be admitted: only two bookings fall in its window")
	}
}

func TestDetectorIgnoresOtherDates(t *testing.T) {
	store := &memoryStore{}
	detector := NewDetector(store)
	date := day(2025, time.January, 10)

	for i := 0; i < Capacity; i++ {
		store.add(day(2025, time.January, 11), "10:00")
	}

	ok, err := detector.Admit(date, "10:00", "")
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !ok {
		t.Fatal("bookings on another date must not count against this one")
	}
}

func TestDetectorExcludesRescheduledAppointment(t *testing.T) {
	store := &memoryStore{}
	detector := NewDetector(store)
	date := day(2025, time.January, 10)

	var ids []string
	for i := 0; i < Capacity; i++ {
		ids = append(ids, store.add(date, "10:00"))
	}

	// Moving one of the five bookings to 10:30 must not let it conflict
	// with itself.
	ok, err := detector.Admit(date, "10:30", ids[0])
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !ok {
		t.Fatal("rescheduled appointment should be excluded from its own conflict count")
	}

	ok, err = detector.Admit(date, "10:30", "")
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if ok {
		t.Fatal("without the exclusion the window is at capacity")
	}
}
