package handlers

import (
	"errors"
	"time"

	"barangay-app-server/internal/middleware"
	"barangay-app-server/internal/models"
	"barangay-app-server/internal/scheduling"
	"barangay-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppointmentHandler handles certificate appointment requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// conflictCounter implements scheduling.Counter over the appointments table.
// With forUpdate set, the count query locks the matched rows so the check
// and the subsequent insert are serialized against concurrent bookers;
// it must then run inside a transaction.
type conflictCounter struct {
	db        *gorm.DB
	forUpdate bool
}

func (cc conflictCounter) CountOverlapping(date time.Time, w scheduling.Window, excludeID string) (int64, error) {
	query := cc.db.Model(&models.Appointment{}).
		Where("preferred_date = ?", date.Format(time.DateOnly)).
		Where("preferred_time BETWEEN ? AND ?", w.Start, w.End).
		Where("status <> ?", models.StatusCancelled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if cc.forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	CertificateType string `json:"certificateType" binding:"required,oneof=barangay_clearance certificate_of_indigency community_tax_certificate solo_parent_certificate"`
	PreferredDate   string `json:"preferredDate" binding:"required"`
	PreferredTime   string `json:"preferredTime" binding:"required"`
	Purpose         string `json:"purpose" binding:"required,oneof=employment business_permit government_benefits other"`
	SpecifyPurpose  string `json:"specifyPurpose"`
}

// CreateAppointment handles a resident booking a certificate appointment.
// The conflict count and the insert run in one transaction with the counted
// rows locked, so two concurrent bookers cannot both observe a free window.
// On a capacity rejection the response carries the nearest available slot
// as a suggestion; the suggestion is never booked automatically.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	residentID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Resident ID not found in token")
		return
	}

	date, err := time.Parse(time.DateOnly, req.PreferredDate)
	if err != nil {
		utils.BadRequest(c, "Invalid preferred date, expected YYYY-MM-DD")
		return
	}
	if err := scheduling.ValidateDate(date, time.Now()); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if err := scheduling.ValidateTime(req.PreferredTime); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	purpose := req.Purpose
	if purpose == "other" {
		if req.SpecifyPurpose == "" {
			utils.BadRequest(c, "Please specify the purpose of your appointment")
			return
		}
		purpose = req.SpecifyPurpose
	}

	appointment := models.Appointment{
		ResidentID:      residentID,
		CertificateType: models.CertificateType(req.CertificateType),
		PreferredDate:   date,
		PreferredTime:   req.PreferredTime,
		Purpose:         purpose,
		Status:          models.StatusPending,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		detector := scheduling.NewDetector(conflictCounter{db: tx, forUpdate: true})
		ok, err := detector.Admit(date, req.PreferredTime, "")
		if err != nil {
			return err
		}
		if !ok {
			return scheduling.ErrSlotFull
		}
		return tx.Create(&appointment).Error
	})

	if errors.Is(err, scheduling.ErrSlotFull) {
		allocator := scheduling.NewAllocator(scheduling.NewDetector(conflictCounter{db: h.DB}))
		slot, found, searchErr := allocator.FindNearestAvailable(date, req.PreferredTime)

		var suggestion interface{}
		if searchErr == nil && found {
			suggestion = gin.H{
				"date": slot.Date.Format(time.DateOnly),
				"time": slot.Time,
			}
		}
		utils.Conflict(c, err.Error(), suggestion)
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to book appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in user.
// Residents see their own; staff and admins see all, optionally filtered by
// status. Staff listings first sweep overdue appointments.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Preload("Resident").Order("preferred_date asc, preferred_time asc")

	var appointments []models.Appointment
	var err error
	switch userRole {
	case models.RoleResident:
		err = query.Where("resident_id = ?", userID).Find(&appointments).Error
	case models.RoleStaff, models.RoleAdmin:
		if sweepErr := h.sweepOverdue(); sweepErr != nil {
			utils.InternalServerError(c, "Failed to expire overdue appointments: "+sweepErr.Error())
			return
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment.
// Accessible by the involved resident, staff, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleResident && userID != appointment.ResidentID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", gin.H{
		"appointment":     appointment,
		"certificateName": appointment.CertificateType.DisplayName(),
	})
}

// ApproveAppointment handles staff approving a pending appointment.
func (h *AppointmentHandler) ApproveAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	if appointment.Status != models.StatusPending {
		utils.BadRequest(c, "Only pending appointments can be approved")
		return
	}

	appointment.Status = models.StatusApproved
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to approve appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment approved", appointment)
}

// CancelAppointmentRequest represents the request body for cancelling an appointment.
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelAppointment handles cancelling a pending or approved appointment.
// Residents can cancel their own; staff must provide a reason.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	// The body is optional for residents, so only bind when one was sent.
	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request payload: "+err.Error())
			return
		}
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	reason := req.Reason
	switch userRole {
	case models.RoleResident:
		if userID != appointment.ResidentID {
			utils.Forbidden(c, "You can only cancel your own appointments")
			return
		}
		if reason == "" {
			reason = "Resident cancelled the appointment"
		}
	case models.RoleStaff, models.RoleAdmin:
		if reason == "" {
			utils.BadRequest(c, "A cancellation reason is required")
			return
		}
	}

	if appointment.Status != models.StatusPending && appointment.Status != models.StatusApproved {
		utils.BadRequest(c, "Only pending or approved appointments can be cancelled")
		return
	}

	appointment.Status = models.StatusCancelled
	appointment.CancellationReason = reason
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// ClaimAppointment handles staff marking an approved appointment as claimed
// when the resident picks up the certificate.
func (h *AppointmentHandler) ClaimAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	if appointment.Status != models.StatusApproved {
		utils.BadRequest(c, "Only approved appointments can be marked as claimed")
		return
	}

	appointment.Status = models.StatusClaimed
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to mark appointment as claimed: "+err.Error())
		return
	}

	utils.Success(c, "Appointment marked as claimed", appointment)
}

// CompleteAppointment handles the resident confirming a claimed certificate,
// closing out the appointment.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleResident && userID != appointment.ResidentID {
		utils.Forbidden(c, "You can only confirm your own appointments")
		return
	}

	if appointment.Status != models.StatusClaimed {
		utils.BadRequest(c, "Only claimed appointments can be completed")
		return
	}

	appointment.Status = models.StatusCompleted
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to complete appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment completed", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	NewDate string `json:"newDate" binding:"required"`
	NewTime string `json:"newTime" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// RescheduleAppointment handles staff moving an appointment to a new slot.
// The appointment keeps its status; date, time and the audit trail are
// updated in place. The new slot goes through the same locked conflict
// check as a fresh booking, with the appointment excluded from its own
// conflict count.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	newDate, err := time.Parse(time.DateOnly, req.NewDate)
	if err != nil {
		utils.BadRequest(c, "Invalid new date, expected YYYY-MM-DD")
		return
	}
	if err := scheduling.ValidateDate(newDate, time.Now()); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if err := scheduling.ValidateTime(req.NewTime); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if appointment.Status != models.StatusPending && appointment.Status != models.StatusApproved {
		utils.BadRequest(c, "Only pending or approved appointments can be rescheduled")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		detector := scheduling.NewDetector(conflictCounter{db: tx, forUpdate: true})
		ok, err := detector.Admit(newDate, req.NewTime, appointment.ID)
		if err != nil {
			return err
		}
		if !ok {
			return scheduling.ErrSlotFull
		}

		now := time.Now()
		appointment.PreferredDate = newDate
		appointment.PreferredTime = req.NewTime
		appointment.RescheduleReason = req.Reason
		appointment.RescheduledAt = &now
		return tx.Save(&appointment).Error
	})

	if errors.Is(err, scheduling.ErrSlotFull) {
		utils.Conflict(c, err.Error(), nil)
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to reschedule appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// GetSlotTimes handles fetching the bookable time choices.
func (h *AppointmentHandler) GetSlotTimes(c *gin.Context) {
	choices := make([]gin.H, 0, len(scheduling.SlotTimes()))
	for _, slot := range scheduling.SlotTimes() {
		m, err := scheduling.ParseClock(slot)
		if err != nil {
			utils.InternalServerError(c, "Failed to build slot times: "+err.Error())
			return
		}
		choices = append(choices, gin.H{
			"value":   slot,
			"display": scheduling.FormatDisplay(m),
		})
	}
	utils.Success(c, "Slot times fetched successfully", choices)
}

// GetDateAvailability handles fetching remaining capacity per slot for a date.
func (h *AppointmentHandler) GetDateAvailability(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.BadRequest(c, "Date query parameter is required")
		return
	}
	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		utils.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	counter := conflictCounter{db: h.DB}
	slots := make([]gin.H, 0, len(scheduling.SlotTimes()))
	for _, slot := range scheduling.SlotTimes() {
		window, err := scheduling.BufferWindow(slot, scheduling.BufferMinutes)
		if err != nil {
			utils.InternalServerError(c, "Failed to compute availability: "+err.Error())
			return
		}
		count, err := counter.CountOverlapping(date, window, "")
		if err != nil {
			utils.InternalServerError(c, "Failed to compute availability: "+err.Error())
			return
		}

		remaining := int64(scheduling.Capacity) - count
		if remaining < 0 {
			remaining = 0
		}
		slots = append(slots, gin.H{
			"time":      slot,
			"remaining": remaining,
			"available": remaining > 0,
		})
	}

	utils.Success(c, "Availability fetched successfully", gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// loadAppointment fetches the appointment addressed by the :id route param,
// writing the error response itself when it cannot.
func (h *AppointmentHandler) loadAppointment(c *gin.Context) (models.Appointment, bool) {
	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return models.Appointment{}, false
	}
	return appointment, true
}

// sweepOverdue cancels pending and approved appointments whose slot has
// passed unresolved. Running it repeatedly produces no further change.
func (h *AppointmentHandler) sweepOverdue() error {
	var appointments []models.Appointment
	statuses := []models.AppointmentStatus{models.StatusPending, models.StatusApproved}
	if err := h.DB.Where("status IN ?", statuses).Find(&appointments).Error; err != nil {
		return err
	}

	now := time.Now()
	for i := range appointments {
		if appointments[i].ExpireOverdue(now) {
			if err := h.DB.Save(&appointments[i]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
