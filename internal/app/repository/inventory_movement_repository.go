package repository

import (
	"time"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

// PopularProduct is an aggregate row for the best-sellers report.
type PopularProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

type InventoryMovementRepository interface {
	Create(movement *model.InventoryMovement) error
	FindByID(id uint) (*model.InventoryMovement, error)
	FindAll(search string, movementType model.MovementType, page, pageSize int) ([]model.InventoryMovement, int64, error)
	FindByProductID(productID uint, limit int) ([]model.InventoryMovement, error)
	FindBetween(from, to time.Time) ([]model.InventoryMovement, error)
	PopularProducts(limit int) ([]PopularProduct, error)
}

type inventoryMovementRepository struct {
	db *gorm.DB
}

func NewInventoryMovementRepository(db *gorm.DB) InventoryMovementRepository {
	return &inventoryMovementRepository{db: db}
}

func (r *inventoryMovementRepository) Create(movement *model.InventoryMovement) error {
	logger.Debug("Creating inventory movement in database", map[string]interface{}{
		"product_id":  movement.ProductID,
		"change_type": movement.ChangeType,
		"quantity":    movement.Quantity,
	})

	if err := r.db.Create(movement).Error; err != nil {
		logger.Error("Failed to create inventory movement in database", err, map[string]interface{}{
			"product_id":  movement.ProductID,
			"change_type": movement.ChangeType,
		})
		return err
	}

	logger.Debug("Inventory movement created in database", map[string]interface{}{
		"movement_id": movement.ID,
		"product_id":  movement.ProductID,
	})
	return nil
}

func (r *inventoryMovementRepository) FindByID(id uint) (*model.InventoryMovement, error) {
	logger.Debug("Finding inventory movement by ID in database", map[string]interface{}{
		"movement_id": id,
	})

	var movement model.InventoryMovement
	if err := r.db.Preload("Product").First(&movement, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find inventory movement in database", err, map[string]interface{}{
				"movement_id": id,
			})
		}
		return nil, err
	}
	return &movement, nil
}

// FindAll pages through all movements, newest first. search matches the
// product name, movementType narrows to add or deduct rows when set.
func (r *inventoryMovementRepository) FindAll(search string, movementType model.MovementType, page, pageSize int) ([]model.InventoryMovement, int64, error) {
	logger.Debug("Finding inventory movements in database", map[string]interface{}{
		"search":    search,
		"type":      movementType,
		"page":      page,
		"page_size": pageSize,
	})

	query := r.db.Model(&model.InventoryMovement{}).
		Joins("JOIN products ON products.id = inventory_movements.product_id")
	if search != "" {
		query = query.Where("products.name LIKE ?", "%"+search+"%")
	}
	if movementType != "" {
		query = query.Where("inventory_movements.change_type = ?", movementType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count inventory movements in database", err, nil)
		return nil, 0, err
	}

	var movements []model.InventoryMovement
	offset := (page - 1) * pageSize
	if err := query.Preload("Product").
		Order("inventory_movements.created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&movements).Error; err != nil {
		logger.Error("Failed to find inventory movements in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Inventory movements found in database", map[string]interface{}{
		"count": len(movements),
		"total": total,
	})
	return movements, total, nil
}

func (r *inventoryMovementRepository) FindByProductID(productID uint, limit int) ([]model.InventoryMovement, error) {
	logger.Debug("Finding inventory movements by product ID in database", map[string]interface{}{
		"product_id": productID,
		"limit":      limit,
	})

	var movements []model.InventoryMovement
	query := r.db.Where("product_id = ?", productID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&movements).Error; err != nil {
		logger.Error("Failed to find inventory movements in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Inventory movements found in database", map[string]interface{}{
		"product_id": productID,
		"count":      len(movements),
	})
	return movements, nil
}

func (r *inventoryMovementRepository) FindBetween(from, to time.Time) ([]model.InventoryMovement, error) {
	logger.Debug("Finding inventory movements between dates in database", map[string]interface{}{
		"from": from.Format(time.RFC3339),
		"to":   to.Format(time.RFC3339),
	})

	var movements []model.InventoryMovement
	if err := r.db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		logger.Error("Failed to find inventory movements between dates in database", err, nil)
		return nil, err
	}

	return movements, nil
}

func (r *inventoryMovementRepository) PopularProducts(limit int) ([]PopularProduct, error) {
	logger.Debug("Finding popular products in database", map[string]interface{}{
		"limit": limit,
	})

	var rows []PopularProduct
	err := r.db.Model(&model.OrderItem{}).
		Select("order_items.product_id, products.name, SUM(order_items.quantity) AS total_sold").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, products.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to find popular products in database", err, nil)
		return nil, err
	}

	logger.Debug("Popular products found in database", map[string]interface{}{
		"count": len(rows),
	})
	return rows, nil
}
