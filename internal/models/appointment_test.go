package models

import (
	"testing"
	"time"
)

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	past := time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		date   time.Time
		slot   string
		status AppointmentStatus
		want   bool
	}{
		{"past pending", past, "10:00", StatusPending, true},
		{"past approved", past, "10:00", StatusApproved, true},
		{"past claimed", past, "10:00", StatusClaimed, false},
		{"past completed", past, "10:00", StatusCompleted, false},
		{"past cancelled", past, "10:00", StatusCancelled, false},
		{"future pending", future, "10:00", StatusPending, false},
		{"earlier today", now, "09:00", StatusApproved, true},
		{"later today", now, "16:00", StatusApproved, false},
	}
	for _, c := range cases {
		a := Appointment{
			PreferredDate: c.date,
			PreferredTime: c.slot,
			Status:        c.status,
		}
		if got := a.Overdue(now); got != c.want {
			t.Errorf("%s: Overdue = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestExpireOverdueIdempotent(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	a := Appointment{
		PreferredDate: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC),
		PreferredTime: "10:00",
		Status:        StatusApproved,
	}

	if !a.ExpireOverdue(now) {
		t.Fatal("first sweep should cancel the overdue appointment")
	}
	if a.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", a.Status)
	}
	if a.CancellationReason == "" {
		t.Fatal("expected a cancellation reason to be recorded")
	}

	reason := a.CancellationReason
	if a.ExpireOverdue(now) {
		t.Fatal("second sweep must not change anything")
	}
	if a.Status != StatusCancelled || a.CancellationReason != reason {
		t.Fatal("second sweep altered the appointment")
	}
}

func TestCertificateTypeDisplayName(t *testing.T) {
	if got := CertificateBarangayClearance.DisplayName(); got != "Barangay Clearance" {
		t.Errorf("unexpected display name %q", got)
	}
	if got := CertificateType("unknown_type").DisplayName(); got != "unknown_type" {
		t.Errorf("unknown types should fall back to the raw value, got %q", got)
	}
}
