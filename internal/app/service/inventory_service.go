package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidMovement  = errors.New("invalid inventory movement")
	ErrMovementNotFound = errors.New("inventory movement not found")
)

// MovementPageSize is the admin movement table page size.
const MovementPageSize = 10

// MovementListResult is one page of the admin movement listing.
type MovementListResult struct {
	Movements  []model.InventoryMovement `json:"movements"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	TotalPages int                       `json:"total_pages"`
}

// MonthlyMovementSummary aggregates one month of stock activity.
type MonthlyMovementSummary struct {
	Month        string `json:"month"` // YYYY-MM
	TotalAdded   int    `json:"total_added"`
	TotalDeduced int    `json:"total_deducted"`
	Movements    int    `json:"movements"`
}

// MovementInput is a manual stock adjustment request.
type MovementInput struct {
	ProductID     uint
	ChangeType    model.MovementType
	Quantity      int
	ReceivedBy    string
	ReceivedDate  *time.Time
	InvoiceNumber string
	Note          string
}

// StockDistributionEntry is one product's share of the total stock on hand.
type StockDistributionEntry struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Percent   float64 `json:"percent"`
}

type InventoryService interface {
	RecordMovement(input MovementInput) (*model.InventoryMovement, error)
	ListMovements(search, movementType string, page int) (*MovementListResult, error)
	GetMovementByID(id uint) (*model.InventoryMovement, error)
	GetProductHistory(productID uint, limit int) ([]model.InventoryMovement, error)
	GetLowStock(threshold int) ([]model.LowStockProduct, error)
	GetMonthlySummary(year int) ([]MonthlyMovementSummary, error)
	GetStockDistribution() ([]StockDistributionEntry, error)
	GetPopularProducts(limit int) ([]repository.PopularProduct, error)
}

type inventoryService struct {
	movementRepo repository.InventoryMovementRepository
	productRepo  repository.ProductRepository
	db           *gorm.DB
}

func NewInventoryService(
	movementRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) InventoryService {
	return &inventoryService{
		movementRepo: movementRepo,
		productRepo:  productRepo,
		db:           db,
	}
}

// RecordMovement applies a manual stock adjustment. The movement row and
// the product stock change commit together; deductions that would push
// stock negative are rejected.
func (s *inventoryService) RecordMovement(input MovementInput) (*model.InventoryMovement, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidMovement
	}
	if input.ChangeType != model.MovementAdd && input.ChangeType != model.MovementDeduct {
		return nil, ErrInvalidMovement
	}

	logger.Info("Recording inventory movement", map[string]interface{}{
		"product_id":  input.ProductID,
		"change_type": input.ChangeType,
		"quantity":    input.Quantity,
	})

	if _, err := s.productRepo.FindByID(input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	movement := &model.InventoryMovement{
		ProductID:     input.ProductID,
		ChangeType:    input.ChangeType,
		Quantity:      input.Quantity,
		ReceivedBy:    input.ReceivedBy,
		ReceivedDate:  input.ReceivedDate,
		InvoiceNumber: input.InvoiceNumber,
		Note:          input.Note,
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during inventory movement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"product_id": input.ProductID,
			})
		}
	}()

	if err := tx.Create(movement).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create inventory movement", err, map[string]interface{}{
			"product_id": input.ProductID,
		})
		return nil, err
	}

	var res *gorm.DB
	if input.ChangeType == model.MovementAdd {
		res = tx.Model(&model.Product{}).
			Where("id = ?", input.ProductID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", input.Quantity))
	} else {
		res = tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", input.ProductID, input.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", input.Quantity))
	}
	if res.Error != nil {
		tx.Rollback()
		logger.Error("Failed to update product stock for movement", res.Error, map[string]interface{}{
			"product_id": input.ProductID,
		})
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		logger.Warn("Inventory movement rejected: insufficient stock", map[string]interface{}{
			"product_id": input.ProductID,
			"quantity":   input.Quantity,
		})
		return nil, ErrInsufficientStock
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit inventory movement", err, map[string]interface{}{
			"product_id": input.ProductID,
		})
		return nil, err
	}

	logger.Info("Inventory movement recorded", map[string]interface{}{
		"movement_id": movement.ID,
		"product_id":  input.ProductID,
		"change_type": input.ChangeType,
	})
	return movement, nil
}

// ListMovements pages the full movement log for the admin table. search
// matches product names; movementType narrows to "add" or "deduct" when set.
func (s *inventoryService) ListMovements(search, movementType string, page int) (*MovementListResult, error) {
	if page < 1 {
		page = 1
	}

	var changeType model.MovementType
	switch movementType {
	case "":
		// all movements
	case string(model.MovementAdd):
		changeType = model.MovementAdd
	case string(model.MovementDeduct):
		changeType = model.MovementDeduct
	default:
		return nil, ErrInvalidMovement
	}

	movements, total, err := s.movementRepo.FindAll(search, changeType, page, MovementPageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + MovementPageSize - 1) / MovementPageSize)

	return &MovementListResult{
		Movements:  movements,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *inventoryService) GetMovementByID(id uint) (*model.InventoryMovement, error) {
	movement, err := s.movementRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}
	return movement, nil
}

func (s *inventoryService) GetProductHistory(productID uint, limit int) ([]model.InventoryMovement, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.movementRepo.FindByProductID(productID, limit)
}

func (s *inventoryService) GetLowStock(threshold int) ([]model.LowStockProduct, error) {
	return s.productRepo.FindLowStock(threshold)
}

// GetMonthlySummary aggregates a calendar year of movements by month.
func (s *inventoryService) GetMonthlySummary(year int) ([]MonthlyMovementSummary, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	movements, err := s.movementRepo.FindBetween(from, to)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthlyMovementSummary)
	for _, m := range movements {
		key := m.CreatedAt.UTC().Format("2006-01")
		summary, ok := byMonth[key]
		if !ok {
			summary = &MonthlyMovementSummary{Month: key}
			byMonth[key] = summary
		}
		summary.Movements++
		if m.ChangeType == model.MovementAdd {
			summary.TotalAdded += m.Quantity
		} else {
			summary.TotalDeduced += m.Quantity
		}
	}

	result := make([]MonthlyMovementSummary, 0, len(byMonth))
	for month := time.January; month <= time.December; month++ {
		key := fmt.Sprintf("%04d-%02d", year, int(month))
		if summary, ok := byMonth[key]; ok {
			result = append(result, *summary)
		}
	}

	return result, nil
}

// GetStockDistribution reports each product's share of total stock on hand.
func (s *inventoryService) GetStockDistribution() ([]StockDistributionEntry, error) {
	levels, err := s.productRepo.FindStockLevels()
	if err != nil {
		return nil, err
	}

	var total int
	for _, p := range levels {
		total += p.Quantity
	}

	entries := make([]StockDistributionEntry, 0, len(levels))
	for _, p := range levels {
		entry := StockDistributionEntry{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
		}
		if total > 0 {
			entry.Percent = float64(p.Quantity) / float64(total) * 100
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *inventoryService) GetPopularProducts(limit int) ([]repository.PopularProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.movementRepo.PopularProducts(limit)
}
