package routes

import (
	"time"

	"ninawa-bookdesk/internal/adapters/http/handlers"
	"ninawa-bookdesk/internal/adapters/http/middleware"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/config"
	"ninawa-bookdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	officeRepo := repositories.NewOfficeRepository(db)
	sourceRepo := repositories.NewSourceRepository(db)
	reviewerRepo := repositories.NewReviewerRepository(db)
	officeRecordRepo := repositories.NewOfficeRecordRepository(db)
	familyRepo := repositories.NewFamilyMemberRepository(db)
	officeSettlementRepo := repositories.NewOfficeSettlementRepository(db)
	sourceSettlementRepo := repositories.NewSourceSettlementRepository(db)
	binRepo := repositories.NewRecycleBinRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, officeRepo, refreshTokenRepo, cfg.JWT)
	officeService := services.NewOfficeService(officeRepo, refreshTokenRepo)
	sourceService := services.NewSourceService(sourceRepo)
	recordService := services.NewRecordService(reviewerRepo, officeRecordRepo, familyRepo, officeRepo)
	bookingService := services.NewBookingService(reviewerRepo, officeRecordRepo, officeRepo, sourceRepo)
	settlementService := services.NewSettlementService(
		db,
		officeRepo,
		sourceRepo,
		reviewerRepo,
		officeRecordRepo,
		officeSettlementRepo,
		sourceSettlementRepo,
	)
	lifecycleService := services.NewLifecycleService(db, reviewerRepo, officeRecordRepo, familyRepo, binRepo)
	dashboardService := services.NewDashboardService(
		db,
		settlementService,
		officeRepo,
		sourceRepo,
		officeSettlementRepo,
		sourceSettlementRepo,
	)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, officeService, cfg)
	officeHandler := handlers.NewOfficeHandler(officeService)
	sourceHandler := handlers.NewSourceHandler(sourceService)
	recordHandler := handlers.NewRecordHandler(recordService, bookingService, lifecycleService)
	settlementHandler := handlers.NewSettlementHandler(settlementService)
	recycleHandler := handlers.NewRecycleHandler(lifecycleService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Auth routes (stricter rate limit on credential endpoints)
	auth := api.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.LoginAdmin)
	auth.Post("/office-login", middleware.AuthRateLimiter(), authHandler.LoginOffice)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/heartbeat", middleware.AuthMiddleware(cfg), authHandler.Heartbeat)

	// Everything below requires authentication
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	// Reviewer routes (admin only)
	reviewers := protected.Group("/reviewers", middleware.AdminOnly())
	reviewers.Post("/", recordHandler.CreateReviewer)
	reviewers.Get("/", recordHandler.ListReviewers)
	reviewers.Get("/:id", recordHandler.GetReviewer)
	reviewers.Put("/:id", recordHandler.UpdateReviewer)
	reviewers.Delete("/:id", recordHandler.TrashReviewer)
	reviewers.Post("/:id/book", recordHandler.BookReviewer)
	reviewers.Post("/:id/unbook", recordHandler.UnbookReviewer)
	reviewers.Post("/:id/upload", recordHandler.MarkReviewerUploaded)
	reviewers.Post("/:id/archive", recordHandler.ArchiveReviewer)
	reviewers.Post("/:id/unarchive", recordHandler.UnarchiveReviewer)
	reviewers.Post("/:id/family", recordHandler.AddReviewerFamilyMember)

	// Office record routes (offices see their own, admin sees all)
	officeRecords := protected.Group("/office-records", middleware.OfficeOrAdmin())
	officeRecords.Post("/", recordHandler.CreateOfficeRecord)
	officeRecords.Get("/", recordHandler.ListOfficeRecords)
	officeRecords.Get("/:id", recordHandler.GetOfficeRecord)
	officeRecords.Put("/:id", recordHandler.UpdateOfficeRecord)
	officeRecords.Delete("/:id", middleware.AdminOnly(), recordHandler.TrashOfficeRecord)
	officeRecords.Post("/:id/book", recordHandler.BookOfficeRecord)
	officeRecords.Post("/:id/unbook", recordHandler.UnbookOfficeRecord)
	officeRecords.Post("/:id/upload", recordHandler.MarkOfficeRecordUploaded)
	officeRecords.Post("/:id/archive", middleware.AdminOnly(), recordHandler.ArchiveOfficeRecord)
	officeRecords.Post("/:id/unarchive", middleware.AdminOnly(), recordHandler.UnarchiveOfficeRecord)
	officeRecords.Post("/:id/family", recordHandler.AddOfficeRecordFamilyMember)

	// Family member routes
	family := protected.Group("/family-members", middleware.OfficeOrAdmin())
	family.Put("/:id", recordHandler.UpdateFamilyMember)
	family.Delete("/:id", recordHandler.RemoveFamilyMember)

	// Office management (admin only, balances readable by offices too)
	offices := protected.Group("/offices")
	offices.Post("/", middleware.AdminOnly(), officeHandler.Create)
	offices.Get("/", middleware.AdminOnly(), officeHandler.List)
	offices.Get("/:id", middleware.OfficeOrAdmin(), officeHandler.Get)
	offices.Put("/:id", middleware.AdminOnly(), officeHandler.Update)
	offices.Delete("/:id", middleware.AdminOnly(), officeHandler.Delete)
	offices.Post("/:id/kick", middleware.AdminOnly(), officeHandler.Kick)
	offices.Get("/:id/balance", middleware.OfficeOrAdmin(), settlementHandler.OfficeBalance)
	offices.Post("/:id/settlements", middleware.AdminOnly(), settlementHandler.SettleOffice)
	offices.Get("/:id/settlements", middleware.OfficeOrAdmin(), settlementHandler.ListOfficePayments)

	// Booking source management (admin only)
	sources := protected.Group("/sources", middleware.AdminOnly())
	sources.Post("/", sourceHandler.Create)
	sources.Get("/", sourceHandler.List)
	sources.Get("/:id", sourceHandler.Get)
	sources.Put("/:id", sourceHandler.Update)
	sources.Delete("/:id", sourceHandler.Delete)
	sources.Get("/:id/balance", settlementHandler.SourceBalance)
	sources.Post("/:id/settlements", settlementHandler.SettleSource)
	sources.Get("/:id/settlements", settlementHandler.ListSourcePayments)

	// Recycle bin (admin only)
	recycleBin := protected.Group("/recycle-bin", middleware.AdminOnly())
	recycleBin.Get("/", recycleHandler.List)
	recycleBin.Post("/:id/restore", recycleHandler.Restore)

	// Dashboard (admin only, short client-side cache)
	dashboard := protected.Group("/dashboard", middleware.AdminOnly(), middleware.CacheControl(30*time.Second))
	dashboard.Get("/overview", dashboardHandler.Overview)
	dashboard.Get("/activity", dashboardHandler.RecentActivity)
}
