package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"coursehub/internal/adapters/http/middleware"
	"coursehub/internal/adapters/http/routes"
	"coursehub/internal/adapters/persistence/models"
	"coursehub/internal/adapters/persistence/repositories"
	"coursehub/internal/adapters/storage"
	"coursehub/internal/config"
	"coursehub/internal/core/services"
	"coursehub/internal/pkg/metrics"
	"coursehub/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "coursehub/docs" // Swagger docs
)

// @title CourseHub API
// @version 1.0
// @description E-learning marketplace API: accounts, course catalog, purchases and cart

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the development admin
	if cfg.IsDev() {
		seeder := config.NewSeeder(db, password.NewHasher(cfg.Security.BcryptCost), cfg.Seed)
		if err := seeder.Run(context.Background()); err != nil {
			log.Printf("⚠️ Warning: Failed to seed database: %v", err)
		}
	}

	images, err := newImageStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize image storage: %v", err)
	}

	// Metrics on a dedicated registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Retry image deletes that failed during course writes
	cleanup := services.NewImageCleanupService(
		repositories.NewImageDeletionRepository(db),
		images,
		collector,
		cfg.Cleanup.MaxAttempts,
	)
	if err := cleanup.Start(cfg.Cleanup.Schedule); err != nil {
		log.Fatalf("❌ Failed to start image cleanup: %v", err)
	}
	defer cleanup.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CourseHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		// room for the image plus the other form fields
		BodyLimit: cfg.Upload.MaxImageBytes + 1024*1024,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, collector)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, images, collector)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// newImageStore builds the configured image backend
func newImageStore(cfg *config.Config) (services.ImageStore, error) {
	if cfg.Upload.Driver == "cloudinary" {
		return storage.NewCloudinaryStore(
			cfg.Upload.CloudinaryCloudName,
			cfg.Upload.CloudinaryAPIKey,
			cfg.Upload.CloudinaryAPISecret,
			cfg.Upload.CloudinaryFolder,
		)
	}
	return storage.NewLocalStore(cfg.Upload.LocalDir, cfg.Upload.PublicBaseURL)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
