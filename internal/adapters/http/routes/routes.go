package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"skillswap/internal/adapters/http/handlers"
	"skillswap/internal/adapters/http/middleware"
	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/storage"
)

// Setup wires repositories, services and handlers and registers every
// route under /api/v1.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, logger zerolog.Logger, store *storage.ObjectStore) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	reportTypeRepo := repositories.NewReportTypeRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	demandRepo := repositories.NewDemandRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	activityLogRepo := repositories.NewActivityLogRepository(db)

	// Services
	auditService := services.NewAuditService(activityLogRepo, logger)
	notifyService := services.NewNotificationService(notificationRepo, logger)
	authService := services.NewAuthService(userRepo, adminRepo, refreshTokenRepo, transactionRepo, cfg, logger)
	userService := services.NewUserService(userRepo, auditService, notifyService, logger)
	adminService := services.NewAdminService(adminRepo, userRepo, reportRepo, transactionRepo, auditService, db)
	categoryService := services.NewCategoryService(categoryRepo, auditService)
	marketplaceService := services.NewMarketplaceService(serviceRepo, demandRepo, categoryRepo, auditService)
	transactionService := services.NewTransactionService(transactionRepo, userRepo, auditService, notifyService)
	messageService := services.NewMessageService(messageRepo, userRepo, notifyService)
	reportService := services.NewReportService(reportRepo, reportTypeRepo, userRepo, serviceRepo, demandRepo, auditService, notifyService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService, store, cfg)
	adminHandler := handlers.NewAdminHandler(adminService, activityLogRepo, cfg)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	serviceHandler := handlers.NewServiceHandler(marketplaceService, cfg)
	demandHandler := handlers.NewDemandHandler(marketplaceService, cfg)
	transactionHandler := handlers.NewTransactionHandler(transactionService, cfg)
	messageHandler := handlers.NewMessageHandler(messageService, cfg)
	notificationHandler := handlers.NewNotificationHandler(notifyService, cfg)
	reportHandler := handlers.NewReportHandler(reportService, cfg)
	reportTypeHandler := handlers.NewReportTypeHandler(reportTypeRepo, auditService)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	auth := middleware.AuthMiddleware(cfg, userRepo, adminRepo)
	optionalAuth := middleware.OptionalAuth(cfg)
	adminOnly := middleware.AdminOnly()
	superAdminOnly := middleware.RequireRoles(models.AdminRoleSuperAdmin)
	userOnly := middleware.UserOnly()

	api := app.Group("/api/v1")

	// Health
	api.Get("/health", healthHandler.Health)
	api.Get("/health/ready", healthHandler.Ready)

	// Auth
	authGroup := api.Group("/auth", middleware.NoCacheHeaders())
	authGroup.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authGroup.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authGroup.Post("/admin/login", middleware.AuthRateLimiter(), authHandler.AdminLogin)
	authGroup.Post("/refresh", middleware.AuthRateLimiter(), authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/logout-all", auth, authHandler.LogoutAll)
	authGroup.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	authGroup.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)
	authGroup.Get("/me", auth, authHandler.Me)

	// Self-service profile
	profile := api.Group("/profile", auth, userOnly, middleware.NoCacheHeaders())
	profile.Put("/", userHandler.UpdateProfile)
	profile.Put("/password", userHandler.ChangePassword)
	profile.Post("/image", userHandler.UploadProfileImage)

	// Users (admin management + public profile view)
	users := api.Group("/users")
	users.Get("/", auth, adminOnly, userHandler.List)
	users.Get("/:id", auth, userHandler.Get)
	users.Put("/:id", auth, adminOnly, userHandler.Update)
	users.Delete("/:id", auth, adminOnly, userHandler.Delete)
	users.Post("/:id/balance", auth, adminOnly, userHandler.AdjustBalance)

	// Admin accounts, audit trail, dashboard
	admins := api.Group("/admins", auth, adminOnly)
	admins.Get("/stats", adminHandler.Stats)
	admins.Get("/activity-log", adminHandler.ActivityLog)
	admins.Get("/", adminHandler.List)
	admins.Get("/:id", adminHandler.Get)
	admins.Post("/", superAdminOnly, adminHandler.Create)
	admins.Put("/:id", superAdminOnly, adminHandler.Update)
	admins.Delete("/:id", superAdminOnly, adminHandler.Delete)

	// Categories (public read, admin write)
	categories := api.Group("/categories")
	categories.Get("/", optionalAuth, middleware.CacheControl(time.Hour), categoryHandler.List)
	categories.Get("/:id", middleware.CacheControl(time.Hour), categoryHandler.Get)
	categories.Post("/", auth, adminOnly, categoryHandler.Create)
	categories.Put("/:id", auth, adminOnly, categoryHandler.Update)
	categories.Delete("/:id", auth, adminOnly, categoryHandler.Delete)

	// Report types (public read, admin write)
	reportTypes := api.Group("/report-types")
	reportTypes.Get("/", optionalAuth, middleware.CacheControl(time.Hour), reportTypeHandler.List)
	reportTypes.Post("/", auth, adminOnly, reportTypeHandler.Create)
	reportTypes.Put("/:id", auth, adminOnly, reportTypeHandler.Update)
	reportTypes.Delete("/:id", auth, adminOnly, reportTypeHandler.Delete)

	// Services
	servicesGroup := api.Group("/services")
	servicesGroup.Get("/", optionalAuth, serviceHandler.List)
	servicesGroup.Get("/:id", optionalAuth, serviceHandler.Get)
	servicesGroup.Post("/", auth, userOnly, serviceHandler.Create)
	servicesGroup.Put("/:id", auth, userOnly, serviceHandler.Update)
	servicesGroup.Delete("/:id", auth, userOnly, serviceHandler.Delete)
	servicesGroup.Patch("/:id/status", auth, adminOnly, serviceHandler.SetStatus)
	servicesGroup.Patch("/:id/featured", auth, adminOnly, serviceHandler.SetFeatured)

	// Demands
	demands := api.Group("/demands")
	demands.Get("/", optionalAuth, demandHandler.List)
	demands.Get("/:id", optionalAuth, demandHandler.Get)
	demands.Post("/", auth, userOnly, demandHandler.Create)
	demands.Put("/:id", auth, userOnly, demandHandler.Update)
	demands.Delete("/:id", auth, userOnly, demandHandler.Delete)
	demands.Patch("/:id/status", auth, demandHandler.SetStatus)

	// Transactions
	transactions := api.Group("/transactions", auth, middleware.NoCacheHeaders())
	transactions.Get("/", transactionHandler.List)
	transactions.Post("/", transactionHandler.Create)
	transactions.Post("/buy-coins", userOnly, transactionHandler.BuyCoins)
	transactions.Get("/:id", transactionHandler.Get)
	transactions.Patch("/:id/status", adminOnly, transactionHandler.UpdateStatus)

	// Messages
	messages := api.Group("/messages", auth, userOnly, middleware.NoCacheHeaders())
	messages.Post("/", messageHandler.Send)
	messages.Get("/conversations", messageHandler.Conversations)
	messages.Get("/conversations/:userId", messageHandler.Conversation)
	messages.Get("/unread-count", messageHandler.UnreadCount)
	messages.Delete("/:id", messageHandler.Delete)

	// Notifications
	notifications := api.Group("/notifications", auth, userOnly, middleware.NoCacheHeaders())
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)

	// Reports
	reports := api.Group("/reports", auth)
	reports.Post("/", userOnly, reportHandler.Create)
	reports.Get("/", reportHandler.List)
	reports.Get("/:id", reportHandler.Get)
	reports.Patch("/:id/status", adminOnly, reportHandler.UpdateStatus)
	reports.Post("/:id/resolve", adminOnly, reportHandler.Resolve)

	// Unknown routes answer with the envelope, not fiber's default 404
	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}
