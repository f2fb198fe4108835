package routes

import (
	"time"

	"civicsaathi/internal/adapters/http/handlers"
	"civicsaathi/internal/adapters/http/middleware"
	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/config"
	"civicsaathi/internal/core/services"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so the caller controls its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	complaintRepo := repositories.NewComplaintRepository(db)
	masterRepo := repositories.NewMasterRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	escalationRepo := repositories.NewEscalationRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	facilityRepo := repositories.NewFacilityRepository(db)

	// Initialize services
	clock := services.NewSystemClock()
	notifyService := services.NewNotificationService(cfg.Mail.RelayURL, cfg.Mail.APIToken)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, staffRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo, complaintRepo)
	otpService := services.NewOTPService(userRepo, refreshTokenRepo, notifyService, clock)

	complaintService := services.NewComplaintService(
		complaintRepo,
		masterRepo,
		staffRepo,
		escalationRepo,
		notifyService,
		clock,
	)
	sweepService := services.NewSweepService(
		complaintRepo,
		staffRepo,
		escalationRepo,
		notifyService,
		clock,
	)
	masterService := services.NewMasterService(masterRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo, staffRepo, masterRepo, clock)
	facilityService := services.NewFacilityService(facilityRepo)
	dashboardService := services.NewDashboardService(complaintRepo, masterRepo, clock)

	cronService := services.NewCronService(sweepService, attendanceService, otpService, refreshTokenRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, otpService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	complaintHandler := handlers.NewComplaintHandler(complaintService)
	masterHandler := handlers.NewMasterHandler(masterService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	facilityHandler := handlers.NewFacilityHandler(facilityService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, sweepService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, complaintHandler,
		masterHandler, attendanceHandler, facilityHandler, dashboardHandler,
		cfg, authService)

	return cronService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	complaintHandler *handlers.ComplaintHandler,
	masterHandler *handlers.MasterHandler,
	attendanceHandler *handlers.AttendanceHandler,
	facilityHandler *handlers.FacilityHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
	authService *services.AuthService,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public + protected)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg, authService)

	// Master data routes (public reads, cached)
	router.Get("/departments", middleware.CacheControl(10*time.Minute), masterHandler.ListDepartments)
	router.Get("/categories", middleware.CacheControl(10*time.Minute), masterHandler.ListCategories)

	// Facility routes (public reads, optional auth on ratings)
	facilityRoutes := router.Group("/facilities")
	setupFacilityRoutes(facilityRoutes, facilityHandler, cfg, authService)

	// Complaint routes (authenticated)
	complaintRoutes := router.Group("/complaints")
	complaintRoutes.Use(middleware.AuthMiddleware(cfg, authService))
	setupComplaintRoutes(complaintRoutes, complaintHandler)

	// Profile routes (authenticated)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg, authService))
	setupProfileRoutes(profileRoutes, userHandler)

	// Attendance routes (staff only)
	attendanceRoutes := router.Group("/attendance")
	attendanceRoutes.Use(middleware.AuthMiddleware(cfg, authService))
	attendanceRoutes.Use(middleware.StaffOnly())
	setupAttendanceRoutes(attendanceRoutes, attendanceHandler)

	// Admin routes
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg, authService))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, masterHandler, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config, authService *services.AuthService) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Password reset (strict limit, OTP brute force)
	router.Post("/forgot-password", middleware.StrictRateLimiter(), handler.ForgotPassword)
	router.Post("/verify-otp", middleware.StrictRateLimiter(), handler.VerifyOTP)
	router.Post("/reset-password", middleware.StrictRateLimiter(), handler.ResetPassword)

	// Protected routes
	router.Post("/logout-all", middleware.AuthMiddleware(cfg, authService), handler.LogoutAll)
}

// setupComplaintRoutes configures complaint lifecycle routes
func setupComplaintRoutes(router fiber.Router, handler *handlers.ComplaintHandler) {
	// Citizen routes
	router.Post("/", handler.Create)
	router.Get("/my", handler.ListMine)
	router.Get("/my/stats", handler.MyStats)
	router.Get("/:id", handler.Get)
	router.Get("/:id/logs", handler.GetLogs)
	router.Get("/:id/sla", handler.GetSLA)
	router.Delete("/:id", handler.Delete)

	// Staff routes
	staffRoutes := router.Group("")
	staffRoutes.Use(middleware.StaffOnly())
	staffRoutes.Get("/departments/:departmentId", handler.ListByDepartment)
	staffRoutes.Patch("/:id/status", handler.ChangeStatus)
	staffRoutes.Put("/:id/worker", handler.AssignWorker)

	// Officer/Admin routes
	officerRoutes := router.Group("")
	officerRoutes.Use(middleware.OfficerOrAdmin())
	officerRoutes.Put("/:id/officer", handler.AssignOfficer)
	officerRoutes.Post("/:id/escalate", handler.Escalate)
	officerRoutes.Post("/:id/spam", handler.MarkSpam)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupFacilityRoutes configures public facility routes
func setupFacilityRoutes(router fiber.Router, handler *handlers.FacilityHandler, cfg *config.Config, authService *services.AuthService) {
	router.Get("/", middleware.CacheControl(5*time.Minute), handler.List)
	router.Get("/nearby", handler.Nearby)
	router.Get("/:id", handler.Get)

	// Rating attributes the user when a valid token is present
	router.Post("/:id/ratings", middleware.AuthRateLimiter(), middleware.OptionalAuth(cfg, authService), handler.Rate)
}

// setupAttendanceRoutes configures worker attendance routes
func setupAttendanceRoutes(router fiber.Router, handler *handlers.AttendanceHandler) {
	router.Post("/", handler.Mark)
	router.Get("/departments/:departmentId", handler.ListByDepartment)
}

// setupAdminRoutes configures admin maintenance routes
func setupAdminRoutes(router fiber.Router, masterHandler *handlers.MasterHandler, dashboardHandler *handlers.DashboardHandler) {
	router.Get("/dashboard", dashboardHandler.Overview)
	router.Post("/sweep", dashboardHandler.TriggerSweep)
	router.Put("/sla-configs", masterHandler.SaveSLAConfig)
}
