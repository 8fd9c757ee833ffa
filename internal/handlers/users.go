package handlers

import (
	"time"

	"barangay-app-server/internal/middleware"
	"barangay-app-server/internal/models"
	"barangay-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles account management requests (staff and admin operations).
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// CreateStaffRequest represents the request body for creating a staff account.
type CreateStaffRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
}

// CreateStaff handles an admin creating a new barangay staff account.
// Staff accounts are approved from the start.
func (h *UserHandler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "This email address is already registered")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Role:       models.RoleStaff,
		IsApproved: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to create staff account: "+err.Error())
		return
	}

	utils.Created(c, "Staff account created successfully", user.Sanitize())
}

// GetUsers handles fetching all users (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Preload("Profile").Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	sanitizedUsers := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitizedUsers[i] = u.Sanitize()
	}

	utils.Success(c, "Users fetched successfully", sanitizedUsers)
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.DB.Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// DeleteUser handles deleting a user by ID (admin).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete user: "+err.Error())
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}

// GetResidents handles fetching all resident accounts (staff and admins).
// Pass ?approved=false to list registrations still awaiting approval.
func (h *UserHandler) GetResidents(c *gin.Context) {
	query := h.DB.Preload("Profile").Where("role = ?", models.RoleResident)
	if approved := c.Query("approved"); approved != "" {
		query = query.Where("is_approved = ?", approved == "true")
	}

	var residents []models.User
	if err := query.Find(&residents).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch residents: "+err.Error())
		return
	}

	sanitizedResidents := make([]models.UserSanitized, len(residents))
	for i, r := range residents {
		sanitizedResidents[i] = r.Sanitize()
	}

	utils.Success(c, "Residents fetched successfully", sanitizedResidents)
}

// ApproveResident handles staff approving a resident registration,
// unlocking login for the account.
func (h *UserHandler) ApproveResident(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ? AND role = ?", userID, models.RoleResident).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Resident not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if user.IsApproved {
		utils.BadRequest(c, "Resident is already approved")
		return
	}

	user.IsApproved = true
	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to approve resident: "+err.Error())
		return
	}

	utils.Success(c, "Resident approved successfully", user.Sanitize())
}

// GetResidentDashboard handles fetching appointment statistics for the
// logged-in resident.
func (h *UserHandler) GetResidentDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	// Session makes the base query reusable for several counts.
	base := h.DB.Model(&models.Appointment{}).
		Where("resident_id = ?", userID).
		Session(&gorm.Session{})

	counts := map[string]int64{}
	for _, status := range []models.AppointmentStatus{
		models.StatusPending, models.StatusApproved, models.StatusClaimed,
		models.StatusCompleted, models.StatusCancelled,
	} {
		var n int64
		if err := base.Where("status = ?", status).Count(&n).Error; err != nil {
			utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
			return
		}
		counts[string(status)] = n
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
		return
	}

	today := time.Now().Format(time.DateOnly)
	weekFromNow := time.Now().AddDate(0, 0, 7).Format(time.DateOnly)
	var upcoming int64
	if err := base.Where("preferred_date BETWEEN ? AND ?", today, weekFromNow).
		Count(&upcoming).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
		return
	}

	var nextAppointment models.Appointment
	hasNext := true
	err := h.DB.Where("resident_id = ? AND preferred_date >= ? AND status IN ?",
		userID, today, []models.AppointmentStatus{models.StatusPending, models.StatusApproved}).
		Order("preferred_date asc, preferred_time asc").
		First(&nextAppointment).Error
	if err == gorm.ErrRecordNotFound {
		hasNext = false
	} else if err != nil {
		utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
		return
	}

	data := gin.H{
		"totalAppointments":    total,
		"upcomingAppointments": upcoming,
		"countsByStatus":       counts,
	}
	if hasNext {
		data["nextAppointment"] = nextAppointment
	}

	utils.Success(c, "Dashboard fetched successfully", data)
}

// GetStaffDashboard handles fetching office-wide statistics for staff.
func (h *UserHandler) GetStaffDashboard(c *gin.Context) {
	var pendingCount, approvedCount, todayCount, residentsCount int64

	if err := h.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusPending).Count(&pendingCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
		return
	}
	if err := h.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusApproved).Count(&approvedCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
		return
	}
	today := time.Now().Format(time.DateOnly)
	if err := h.DB.Model(&models.Appointment{}).Where("preferred_date = ?", today).Count(&todayCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
		return
	}
	if err := h.DB.Model(&models.User{}).Where("role = ?", models.RoleResident).Count(&residentsCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
		return
	}

	var recentAppointments []models.Appointment
	if err := h.DB.Preload("Resident").Order("created_at desc").Limit(5).Find(&recentAppointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch recent appointments: "+err.Error())
		return
	}

	utils.Success(c, "Dashboard fetched successfully", gin.H{
		"pendingCount":           pendingCount,
		"approvedCount":          approvedCount,
		"totalAppointmentsToday": todayCount,
		"residentsCount":         residentsCount,
		"recentAppointments":     recentAppointments,
	})
}
