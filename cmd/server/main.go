package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/magicmenu/magicmenu-backend/config"
	"github.com/magicmenu/magicmenu-backend/internal/app/controller"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/magicmenu/magicmenu-backend/internal/demo"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
	"github.com/magicmenu/magicmenu-backend/internal/router"
	"github.com/magicmenu/magicmenu-backend/internal/scheduler"
	"github.com/magicmenu/magicmenu-backend/internal/storage"
	"github.com/magicmenu/magicmenu-backend/internal/ws"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"github.com/magicmenu/magicmenu-backend/pkg/places"
	"github.com/magicmenu/magicmenu-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MagicMenu Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"mode":        string(cfg.App.Mode),
		"log_level":   logLevel,
	})

	// Initialize database. In demo mode the server stays up without one:
	// reads come from the local record store and the resolver degrades
	// live lookups to empty results.
	dbAvailable := true
	if err := db.Initialize(&cfg.Database); err != nil {
		if cfg.App.Mode != config.ModeDemo {
			logger.Fatal("Failed to initialize database", err)
		}
		dbAvailable = false
		logger.Warn("Database unavailable, continuing in demo mode without live data", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if dbAvailable {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}()

		// Run migrations
		if err := db.Migrate(); err != nil {
			if cfg.App.Mode != config.ModeDemo {
				logger.Fatal("Failed to run migrations", err)
			}
			logger.Warn("Migrations failed, continuing in demo mode without live data", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Redis backs the token blacklist and the menu cache. Optional; the
	// helpers degrade to no-ops when it is not initialized.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Object storage for logos and QR images. Nil bucket falls back to
	// inline data URLs.
	store := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Live-update hub for public menu pages.
	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories. Left nil when no database is connected;
	// the resolver treats a nil repository like an erroring one, and the
	// live routes those repositories back are not wired in demo mode.
	var (
		userRepo          repository.UserRepository
		passwordResetRepo repository.PasswordResetRepository
		restaurantRepo    repository.RestaurantRepository
		categoryRepo      repository.CategoryRepository
		menuItemRepo      repository.MenuItemRepository
		reviewRepo        repository.ReviewRepository
	)
	if dbAvailable {
		userRepo = repository.NewUserRepository(db.GetDB())
		passwordResetRepo = repository.NewPasswordResetRepository(db.GetDB())
		restaurantRepo = repository.NewRestaurantRepository(db.GetDB())
		categoryRepo = repository.NewCategoryRepository(db.GetDB())
		menuItemRepo = repository.NewMenuItemRepository(db.GetDB())
		reviewRepo = repository.NewReviewRepository(db.GetDB())
	}

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	passwordResetService := service.NewPasswordResetService(passwordResetRepo, userRepo)
	restaurantService := service.NewRestaurantService(db.GetDB(), restaurantRepo, store, hub, cfg.App.PublicURL)
	menuService := service.NewMenuService(restaurantRepo, categoryRepo, menuItemRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, restaurantRepo)
	placesClient := places.NewClient(cfg.Places.APIKey)

	// Demo data layer. Only consulted when APP_MODE=demo.
	var demoController *controller.DemoController
	if cfg.App.Mode == config.ModeDemo {
		fileStore, err := demo.NewFileStore(cfg.App.DemoDataDir)
		if err != nil {
			logger.Fatal("Failed to open demo data directory", err)
		}
		resolver := demo.NewResolver(
			fileStore,
			restaurantRepo,
			categoryRepo,
			menuItemRepo,
			reviewRepo,
			userRepo,
			func(message string) {
				logger.Warn("Demo notifier", map[string]interface{}{
					"message": message,
				})
			},
		)
		mirror := demo.NewMirror(fileStore)
		demoController = controller.NewDemoController(resolver, mirror, cfg.App.PublicURL)
	}

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService)
	restaurantController := controller.NewRestaurantController(restaurantService)
	menuController := controller.NewMenuController(menuService)
	reviewController := controller.NewReviewController(reviewService)
	placesController := controller.NewPlacesController(placesClient)
	adminController := controller.NewAdminController(authService)
	uploadController := controller.NewUploadController(store)
	wsController := controller.NewWSController(hub, restaurantService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly jobs: rating recompute and reset-token cleanup. Both hit the
	// database, so they stay off when none is connected.
	if dbAvailable {
		ratingScheduler := scheduler.NewRatingScheduler(restaurantService, passwordResetRepo)
		if err := ratingScheduler.Start(); err != nil {
			logger.Warn("Scheduler failed to start, continuing without nightly jobs", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer ratingScheduler.Stop()
	}

	// Setup router
	r := router.NewRouter(
		authController,
		restaurantController,
		menuController,
		reviewController,
		placesController,
		adminController,
		uploadController,
		wsController,
		demoController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
