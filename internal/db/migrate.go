package db

import (
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"github.com/hazique/iotstore-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.TempOrderItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryMovement{},
		&model.UseCase{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedAdminUser(); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	if err := seedProducts(); err != nil {
		logger.Error("Failed to seed products", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Admin user already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword("admin1234")
	if err != nil {
		return err
	}

	admin := model.User{
		Username:     "admin",
		Email:        "admin@iotstore.local",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded successfully", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}

func seedProducts() error {
	var count int64
	if err := DB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding product catalog...")

	products := []model.Product{
		{
			Name:          "Smart Thermostat Pro",
			Description:   "Wi-Fi thermostat with adaptive scheduling and remote control.",
			Price:         129.99,
			Feature1:      "Adaptive scheduling",
			Feature2:      "Energy usage reports",
			Feature3:      "Voice assistant support",
			StockQuantity: 25,
		},
		{
			Name:          "Indoor Security Camera",
			Description:   "1080p camera with motion alerts and night vision.",
			Price:         59.99,
			Feature1:      "Motion detection",
			Feature2:      "Night vision",
			Feature3:      "Two-way audio",
			StockQuantity: 40,
		},
		{
			Name:          "Smart Plug Duo",
			Description:   "Two-pack of app-controlled smart plugs with power metering.",
			Price:         24.99,
			Feature1:      "Power metering",
			Feature2:      "Timer schedules",
			Feature3:      "Compact design",
			StockQuantity: 60,
		},
		{
			Name:          "Door Sensor Kit",
			Description:   "Magnetic door and window sensors with hub.",
			Price:         44.99,
			Feature1:      "Instant alerts",
			Feature2:      "Two-year battery",
			Feature3:      "Easy install",
			StockQuantity: 30,
		},
		{
			Name:          "Smart LED Bulb",
			Description:   "Dimmable color LED bulb, 800 lumens.",
			Price:         14.99,
			Feature1:      "16M colors",
			Feature2:      "Dimmable",
			Feature3:      "Scene presets",
			StockQuantity: 100,
		},
	}

	totalInserted := 0
	for _, product := range products {
		if err := DB.Create(&product).Error; err != nil {
			logger.Error("Failed to create product", err, map[string]interface{}{
				"product": product.Name,
			})
			return err
		}
		totalInserted++
	}

	logger.Info("Products seeded successfully", map[string]interface{}{
		"total_products": totalInserted,
	})
	return nil
}
