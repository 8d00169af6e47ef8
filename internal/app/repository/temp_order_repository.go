package repository

import (
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

type TempOrderRepository interface {
	ReplaceForUser(userID, productID uint) (*model.TempOrderItem, error)
	FindByUserID(userID uint) ([]model.TempOrderItem, error)
	DeleteByUserAndProduct(userID, productID uint) error
	DeleteByUserID(userID uint) error
}

type tempOrderRepository struct {
	db *gorm.DB
}

func NewTempOrderRepository(db *gorm.DB) TempOrderRepository {
	return &tempOrderRepository{db: db}
}

// ReplaceForUser clears any previous staging rows for the user and inserts
// a fresh single-quantity line, keeping the buy-now slot single-occupancy.
func (r *tempOrderRepository) ReplaceForUser(userID, productID uint) (*model.TempOrderItem, error) {
	logger.Debug("Replacing buy-now staging item in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	item := model.TempOrderItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&model.TempOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		logger.Error("Failed to replace buy-now staging item in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Buy-now staging item replaced in database", map[string]interface{}{
		"temp_order_id": item.ID,
		"user_id":       userID,
		"product_id":    productID,
	})
	return &item, nil
}

func (r *tempOrderRepository) FindByUserID(userID uint) ([]model.TempOrderItem, error) {
	logger.Debug("Finding buy-now staging items by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var items []model.TempOrderItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find buy-now staging items in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Buy-now staging items found in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

func (r *tempOrderRepository) DeleteByUserAndProduct(userID, productID uint) error {
	logger.Debug("Deleting buy-now staging item from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.TempOrderItem{}).Error; err != nil {
		logger.Error("Failed to delete buy-now staging item from database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	return nil
}

func (r *tempOrderRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting buy-now staging items by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).
		Delete(&model.TempOrderItem{}).Error; err != nil {
		logger.Error("Failed to delete buy-now staging items from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	return nil
}
