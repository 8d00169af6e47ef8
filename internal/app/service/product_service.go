package service

import (
	"errors"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// DefaultProductPageSize is the storefront catalog page size.
const DefaultProductPageSize = 5

type ProductListResult struct {
	Products   []model.Product `json:"products"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

type ProductService interface {
	CreateProduct(product *model.Product) error
	GetProductByID(id uint) (*model.Product, error)
	ListProducts(keyword string, page int) (*ProductListResult, error)
	UpdateProduct(id uint, updates *model.Product) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	})

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(keyword string, page int) (*ProductListResult, error) {
	if page < 1 {
		page = 1
	}

	logger.Debug("Listing products", map[string]interface{}{
		"keyword": keyword,
		"page":    page,
	})

	products, total, err := s.productRepo.FindAll(keyword, page, DefaultProductPageSize)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"keyword": keyword,
			"page":    page,
		})
		return nil, err
	}

	totalPages := int((total + DefaultProductPageSize - 1) / DefaultProductPageSize)

	return &ProductListResult{
		Products:   products,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) UpdateProduct(id uint, updates *model.Product) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Name = updates.Name
	product.Description = updates.Description
	product.Price = updates.Price
	product.Feature1 = updates.Feature1
	product.Feature2 = updates.Feature2
	product.Feature3 = updates.Feature3
	product.StockQuantity = updates.StockQuantity
	if updates.ImageURL != "" {
		product.ImageURL = updates.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}
