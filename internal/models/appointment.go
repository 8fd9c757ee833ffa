package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusClaimed   AppointmentStatus = "claimed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// CertificateType represents the kind of document an appointment is booked for
type CertificateType string

const (
	CertificateBarangayClearance CertificateType = "barangay_clearance"
	CertificateIndigency         CertificateType = "certificate_of_indigency"
	CertificateCommunityTax      CertificateType = "community_tax_certificate"
	CertificateSoloParent        CertificateType = "solo_parent_certificate"
)

var certificateDisplayNames = map[CertificateType]string{
	CertificateBarangayClearance: "Barangay Clearance",
	CertificateIndigency:         "Certificate of Indigency",
	CertificateCommunityTax:      "Community Tax Certificate",
	CertificateSoloParent:        "Solo Parent Certificate",
}

// DisplayName returns the human-readable name of the certificate type.
func (t CertificateType) DisplayName() string {
	if name, ok := certificateDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// Appointment represents a resident's booking for a certificate pickup.
// PreferredTime is stored as a fixed-width "HH:MM" string so that BETWEEN
// range queries over a buffer window order correctly.
type Appointment struct {
	BaseModel
	ResidentID      string            `gorm:"size:36;index" json:"residentId"`
	CertificateType CertificateType   `gorm:"size:50" json:"certificateType"`
	PreferredDate   time.Time         `gorm:"type:date;index" json:"preferredDate"`
	PreferredTime   string            `gorm:"size:5" json:"preferredTime"`
	Purpose         string            `gorm:"size:200" json:"purpose"`
	Status          AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`

	// Audit fields set by staff actions
	CancellationReason string     `gorm:"size:255" json:"cancellationReason,omitempty"`
	RescheduleReason   string     `gorm:"size:255" json:"rescheduleReason,omitempty"`
	RescheduledAt      *time.Time `json:"rescheduledAt,omitempty"`

	// Relations
	Resident User `gorm:"foreignKey:ResidentID" json:"-"`
}

// Overdue reports whether the appointment's slot has already passed while it
// was still waiting to be resolved. Completed, claimed and cancelled
// appointments are never overdue.
func (a *Appointment) Overdue(now time.Time) bool {
	if a.Status != StatusPending && a.Status != StatusApproved {
		return false
	}

	hour, minute := 0, 0
	if len(a.PreferredTime) == 5 {
		hour = int(a.PreferredTime[0]-'0')*10 + int(a.PreferredTime[1]-'0')
		minute = int(a.PreferredTime[3]-'0')*10 + int(a.PreferredTime[4]-'0')
	}

	slot := time.Date(
		a.PreferredDate.Year(), a.PreferredDate.Month(), a.PreferredDate.Day(),
		hour, minute, 0, 0, now.Location(),
	)
	return slot.Before(now)
}

// ExpireOverdue cancels the appointment in place when its slot has passed
// without resolution. It reports whether a change was made; running it a
// second time is a no-op.
func (a *Appointment) ExpireOverdue(now time.Time) bool {
	if !a.Overdue(now) {
		return false
	}
	a.Status = StatusCancelled
	a.CancellationReason = "Appointment expired without being resolved"
	return true
}
