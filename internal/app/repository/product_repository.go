package repository

import (
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindAll(keyword string, page, pageSize int) ([]model.Product, int64, error)
	Update(product *model.Product) error
	Delete(id uint) error
	FindLowStock(threshold int) ([]model.LowStockProduct, error)
	FindStockLevels() ([]model.LowStockProduct, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindAll(keyword string, page, pageSize int) ([]model.Product, int64, error) {
	logger.Debug("Finding products in database", map[string]interface{}{
		"keyword":   keyword,
		"page":      page,
		"page_size": pageSize,
	})

	query := r.db.Model(&model.Product{})
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products in database", err, nil)
		return nil, 0, err
	}

	var products []model.Product
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err, map[string]interface{}{
			"keyword": keyword,
			"page":    page,
		})
		return nil, 0, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}

func (r *productRepository) FindLowStock(threshold int) ([]model.LowStockProduct, error) {
	logger.Debug("Finding low stock products in database", map[string]interface{}{
		"threshold": threshold,
	})

	var products []model.LowStockProduct
	err := r.db.Model(&model.Product{}).
		Select("id, name, stock_quantity AS quantity").
		Where("stock_quantity < ?", threshold).
		Order("stock_quantity ASC").
		Scan(&products).Error
	if err != nil {
		logger.Error("Failed to find low stock products in database", err, map[string]interface{}{
			"threshold": threshold,
		})
		return nil, err
	}

	logger.Debug("Low stock products found in database", map[string]interface{}{
		"threshold": threshold,
		"count":     len(products),
	})
	return products, nil
}

// FindStockLevels returns every product's current stock for the
// distribution report.
func (r *productRepository) FindStockLevels() ([]model.LowStockProduct, error) {
	var products []model.LowStockProduct
	err := r.db.Model(&model.Product{}).
		Select("id, name, stock_quantity AS quantity").
		Order("stock_quantity DESC").
		Scan(&products).Error
	if err != nil {
		logger.Error("Failed to find stock levels in database", err, nil)
		return nil, err
	}
	return products, nil
}
