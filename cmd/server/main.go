package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazique/iotstore-backend/config"
	"github.com/hazique/iotstore-backend/internal/app/controller"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/internal/app/service"
	"github.com/hazique/iotstore-backend/internal/db"
	"github.com/hazique/iotstore-backend/internal/middleware"
	"github.com/hazique/iotstore-backend/internal/router"
	"github.com/hazique/iotstore-backend/internal/scheduler"
	"github.com/hazique/iotstore-backend/internal/storage"
	"github.com/hazique/iotstore-backend/internal/ws"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"github.com/hazique/iotstore-backend/pkg/mailer"
	"github.com/hazique/iotstore-backend/pkg/redis"
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

	logger.Info("Starting IoT Store Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (token revocation)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	tempOrderRepo := repository.NewTempOrderRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	movementRepo := repository.NewInventoryMovementRepository(db.GetDB())
	useCaseRepo := repository.NewUseCaseRepository(db.GetDB())

	// Websocket hub for admin low-stock alerts
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	mail := mailer.New(&cfg.SMTP)
	alertService := service.NewAlertService(productRepo, mail, hub, cfg.Inventory.AlertRecipient)
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		tempOrderRepo,
		productRepo,
		db.GetDB(),
		cfg.Inventory.LowStockThreshold,
		alertService,
	)
	inventoryService := service.NewInventoryService(movementRepo, productRepo, db.GetDB())
	useCaseService := service.NewUseCaseService(useCaseRepo)

	// Initialize controllers
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	inventoryController := controller.NewInventoryController(inventoryService, cfg.Inventory.LowStockThreshold)
	useCaseController := controller.NewUseCaseController(useCaseService)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWSController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Daily low stock sweep
	lowStockScheduler := scheduler.NewLowStockScheduler(alertService, cfg.Inventory.LowStockThreshold)
	if err := lowStockScheduler.Start(); err != nil {
		logger.Fatal("Failed to start low stock scheduler", err)
	}
	defer lowStockScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		inventoryController,
		useCaseController,
		uploadController,
		wsController,
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
