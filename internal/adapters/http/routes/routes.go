package routes

import (
	"time"

	"coursehub/internal/adapters/http/handlers"
	"coursehub/internal/adapters/http/middleware"
	"coursehub/internal/adapters/persistence/repositories"
	"coursehub/internal/adapters/storage"
	"coursehub/internal/config"
	"coursehub/internal/core/services"
	"coursehub/internal/pkg/jwt"
	"coursehub/internal/pkg/metrics"
	"coursehub/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// catalogMaxAge bounds how long a browser may reuse a catalog read
const catalogMaxAge = 30 * time.Second

// Setup configures all routes for the application.
// collector may be nil, in which case /metrics is not served.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, images services.ImageStore, collector *metrics.Collector) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	deletionRepo := repositories.NewImageDeletionRepository(db)

	// Token issuer and hasher are built from explicit config, never from globals
	tokens := jwt.NewTokenIssuer(jwt.Config{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL(),
		RefreshTTL:    cfg.JWT.RefreshTTL(),
	})
	hasher := password.NewHasher(cfg.Security.BcryptCost)

	// Initialize services
	var recorder services.AuthRecorder
	if collector != nil {
		recorder = collector
	}
	authService := services.NewAuthService(userRepo, hasher, tokens, recorder)
	courseService := services.NewCourseService(courseRepo, deletionRepo, images, int64(cfg.Upload.MaxImageBytes))
	purchaseService := services.NewPurchaseService(courseRepo, purchaseRepo, cartRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	courseHandler := handlers.NewCourseHandler(courseService, purchaseService)
	adminCourseHandler := handlers.NewAdminCourseHandler(courseService)

	// ============================================================
	// Public
	// ============================================================
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	if collector != nil {
		app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))
	}

	if local, ok := images.(*storage.LocalStore); ok {
		app.Static("/uploads", local.Dir())
	}

	api := app.Group("/api/v1")
	api.Get("/", healthHandler.APIInfo)

	requireAuth := middleware.AuthMiddleware(tokens)

	// ============================================================
	// Auth
	// ============================================================
	auth := api.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/register", middleware.AuthRateLimiter(cfg), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(cfg), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/reset-password", requireAuth, authHandler.ResetPassword)
	auth.Get("/me", requireAuth, authHandler.Me)

	// ============================================================
	// Catalog, purchases and cart (signed-in users)
	// ============================================================
	courses := api.Group("/courses", requireAuth)
	courses.Get("/", middleware.PrivateCacheHeaders(catalogMaxAge), courseHandler.List)
	courses.Get("/:courseId", middleware.PrivateCacheHeaders(catalogMaxAge), courseHandler.Get)
	courses.Post("/:courseId/purchase", courseHandler.Purchase)

	me := api.Group("/me", requireAuth, middleware.NoCacheHeaders())
	me.Get("/courses", courseHandler.MyCourses)
	me.Get("/cart", courseHandler.Cart)
	me.Post("/cart/:courseId", courseHandler.AddToCart)
	me.Delete("/cart/:courseId", courseHandler.RemoveFromCart)

	// ============================================================
	// Admin course management (creator-scoped)
	// ============================================================
	admin := api.Group("/admin", requireAuth, middleware.AdminOnly(), middleware.NoCacheHeaders())
	admin.Get("/courses", adminCourseHandler.List)
	admin.Post("/courses", adminCourseHandler.Create)
	admin.Get("/courses/:courseId", adminCourseHandler.Get)
	admin.Put("/courses/:courseId", adminCourseHandler.Update)
	admin.Delete("/courses/:courseId", adminCourseHandler.Delete)
}
