package routes

import (
	"barangay-app-server/internal/config"
	"barangay-app-server/internal/handlers"
	"barangay-app-server/internal/middleware"
	"barangay-app-server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Resident directory and registration approvals are staff work
			staffRoutes := userRoutes.Group("")
			staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin))
			{
				staffRoutes.GET("/residents", userHandler.GetResidents)
				staffRoutes.PATCH("/:id/approve", userHandler.ApproveResident)
			}

			// Admin-only routes
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("/staff", userHandler.CreateStaff)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Dashboard routes
		dashboardRoutes := private.Group("/dashboard")
		{
			dashboardRoutes.GET("/resident", middleware.RoleAuthMiddleware(models.RoleResident), userHandler.GetResidentDashboard)
			dashboardRoutes.GET("/staff", middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin), userHandler.GetStaffDashboard)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Slot choices and availability feed the booking form
			appointmentRoutes.GET("/slots", appointmentHandler.GetSlotTimes)
			appointmentRoutes.GET("/availability", appointmentHandler.GetDateAvailability)

			// Residents book appointments for themselves
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleResident), appointmentHandler.CreateAppointment)

			// All authenticated users list appointments; handler scopes by role
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Status transitions
			appointmentRoutes.PATCH("/:id/approve", middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin), appointmentHandler.ApproveAppointment)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment) // Authorization inside handler
			appointmentRoutes.PATCH("/:id/claim", middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin), appointmentHandler.ClaimAppointment)
			appointmentRoutes.PATCH("/:id/complete", appointmentHandler.CompleteAppointment) // Authorization inside handler
			appointmentRoutes.PATCH("/:id/reschedule", middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin), appointmentHandler.RescheduleAppointment)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
