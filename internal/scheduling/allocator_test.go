package scheduling

import (
	"testing"
	"time"
)

func newAllocator(store *memoryStore) *Allocator {
	return NewAllocator(NewDetector(store))
}

func TestFindNearestStartsAfterPreferredTime(t *testing.T) {
	store := &memoryStore{}
	allocator := newAllocator(store)
	date := day(2025, time.January, 10)

	// Even with everything free, the preferred slot itself is never
	// suggested back.
	slot, found, err := allocator.FindNearestAvailable(date, "10:00")
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	if !found {
		t.Fatal("expected a slot on an empty calendar")
	}
	if !slot.Date.Equal(date) || slot.Time != "10:30" {
		t.Fatalf("expected {2025-01-10 10:30}, got {%s %s}", slot.Date.Format(time.DateOnly), slot.Time)
	}
}

func TestFindNearestSkipsSaturatedWindows(t *testing.T) {
	store := &memoryStore{}
	allocator := newAllocator(store)
	date := day(2025, time.January, 10)

	// Three at 09:30 and two at 10:00: the 10:00 window is full, but
	// 10:30's window [10:00, 11:00] only sees two bookings.
	for i := 0; i < 3; i++ {
		store.add(date, "09:30")
	}
	for i := 0; i < 2; i++ {
		store.add(date, "10:00")
	}

	slot, found, err := allocator.FindNearestAvailable(date, "10:00")
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	if !found {
		t.Fatal("expected a slot")
	}
	if !slot.Date.Equal(date) || slot.Time != "10:30" {
		t.Fatalf("expected {2025-01-10 10:30}, got {%s %s}", slot.Date.Format(time.DateOnly), slot.Time)
	}
}

func TestFindNearestClearsFullCluster(t *testing.T) {
	store := &memoryStore{}
	allocator := newAllocator(store)
	date := day(2025, time.January, 10)

	// Five pending bookings at 10:00 fill every window that contains
	// 10:00, so 10:30 is still blocked and 11:00 is the first clear slot.
	for i := 0; i < Capacity; i++ {
		store.add(date, "10:00")
	}

	slot, found, err := allocator.FindNearestAvailable(date, "10:00")
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	if !found {
		t.Fatal("expected a slot")
	}
	if !slot.Date.Equal(date) || slot.Time != "11:00" {
		t.Fatalf("expected {2025-01-10 11:00}, got {%s %s}", slot.Date.Format(time.DateOnly), slot.Time)
	}

	// The suggestion is never strictly earlier than the preferred time on
	// the preferred date.
	if slot.Time <= "10:00" {
		t.Fatalf("suggested %s is not after the preferred time", slot.Time)
	}
}

func TestFindNearestRollsToNextDay(t *testing.T) {
	store := &memoryStore{}
	allocator := newAllocator(store)
	date := day(2025, time.January, 10)

	// The last slot of the day leaves nothing to scan on day 0.
	slot, found, err := allocator.FindNearestAvailable(date, "16:30")
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	if !found {
		t.Fatal("expected a slot")
	}
	next := date.AddDate(0, 0, 1)
	if !slot.Date.Equal(next) || slot.Time != "09:00" {
		t.Fatalf("expected {2025-01-11 09:00}, got {%s %s}", slot.Date.Format(time.DateOnly), slot.Time)
	}
}

func TestFindNearestSaturatedHorizon(t *testing.T) {
	store := &memoryStore{}
	allocator := newAllocator(store)
	date := day(2025, time.January, 10)

	// Saturate every slot on every day of the horizon by construction.
	for offset := 0; offset <= HorizonDays; offset++ {
		d := date.AddDate(0, 0, offset)
		for _, slotTime := range SlotTimes() {
			for i := 0; i < Capacity; i++ {
				store.add(d, slotTime)
			}
		}
	}

	_, found, err := allocator.FindNearestAvailable(date, "10:00")
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	if found {
		t.Fatal("expected no slot within a fully saturated horizon")
	}
}
