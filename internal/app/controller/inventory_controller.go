package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/service"
	apperrors "github.com/hazique/iotstore-backend/internal/errors"
	"github.com/hazique/iotstore-backend/internal/middleware"
)

type InventoryController struct {
	inventoryService service.InventoryService
	lowStockDefault  int
}

func NewInventoryController(inventoryService service.InventoryService, lowStockDefault int) *InventoryController {
	return &InventoryController{
		inventoryService: inventoryService,
		lowStockDefault:  lowStockDefault,
	}
}

type RecordMovementRequest struct {
	ProductID     uint       `json:"product_id" binding:"required"`
	ChangeType    string     `json:"change_type" binding:"required,oneof=add deduct"`
	Quantity      int        `json:"quantity" binding:"required,min=1"`
	ReceivedBy    string     `json:"received_by"`
	ReceivedDate  *time.Time `json:"received_date"`
	InvoiceNumber string     `json:"invoice_number"`
	Note          string     `json:"note"`
}

// RecordMovement applies a manual stock adjustment (Admin only)
// POST /api/inventory/movements
func (ctrl *InventoryController) RecordMovement(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid movement request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	movement, err := ctrl.inventoryService.RecordMovement(service.MovementInput{
		ProductID:     req.ProductID,
		ChangeType:    model.MovementType(req.ChangeType),
		Quantity:      req.Quantity,
		ReceivedBy:    req.ReceivedBy,
		ReceivedDate:  req.ReceivedDate,
		InvoiceNumber: req.InvoiceNumber,
		Note:          req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		case errors.Is(err, service.ErrInvalidMovement):
			apperrors.BadRequest(c, apperrors.InventoryInvalidMovement, "Invalid movement")
			return
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.BadRequest(c, apperrors.InventoryMovementFailed, "Insufficient stock for deduction")
			return
		default:
			log.Error("Failed to record movement", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "Failed to record movement")
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Movement recorded",
		"movement": movement,
	})
}

// ListMovements pages the full movement log (Admin only)
// GET /api/inventory/movements?search=&type=&page=
func (ctrl *InventoryController) ListMovements(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	search := c.Query("search")
	movementType := c.Query("type")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := ctrl.inventoryService.ListMovements(search, movementType, page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMovement) {
			apperrors.BadRequest(c, apperrors.InventoryInvalidMovement, "Invalid movement type")
			return
		}
		log.Error("Failed to list movements", err, map[string]interface{}{
			"search": search,
			"type":   movementType,
		})
		apperrors.InternalError(c, "Failed to list movements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movements":   result.Movements,
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

// GetMovementByID returns one movement with its product (Admin only)
// GET /api/inventory/movements/:id
func (ctrl *InventoryController) GetMovementByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid movement ID")
		return
	}

	movement, err := ctrl.inventoryService.GetMovementByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrMovementNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Movement not found")
			return
		}
		log.Error("Failed to fetch movement", err, map[string]interface{}{
			"movement_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch movement")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movement": movement,
	})
}

// GetProductHistory lists movements for one product (Admin only)
// GET /api/inventory/products/:id/history
func (ctrl *InventoryController) GetProductHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, err := ctrl.inventoryService.GetProductHistory(uint(id), limit)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product history", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movements": movements,
		"count":     len(movements),
	})
}

// GetLowStock lists products below the threshold (Admin only)
// GET /api/inventory/low-stock?threshold=
func (ctrl *InventoryController) GetLowStock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", strconv.Itoa(ctrl.lowStockDefault)))
	if err != nil || threshold < 1 {
		threshold = ctrl.lowStockDefault
	}

	products, err := ctrl.inventoryService.GetLowStock(threshold)
	if err != nil {
		log.Error("Failed to fetch low stock products", err, map[string]interface{}{
			"threshold": threshold,
		})
		apperrors.InternalError(c, "Failed to fetch low stock products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"threshold": threshold,
		"count":     len(products),
	})
}

// GetMonthlySummary aggregates a year of movements (Admin only)
// GET /api/inventory/reports/monthly?year=
func (ctrl *InventoryController) GetMonthlySummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid year")
		return
	}

	summary, err := ctrl.inventoryService.GetMonthlySummary(year)
	if err != nil {
		log.Error("Failed to build monthly summary", err, map[string]interface{}{
			"year": year,
		})
		apperrors.InternalError(c, "Failed to build summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":    year,
		"summary": summary,
	})
}

// GetStockDistribution reports per-product share of total stock (Admin only)
// GET /api/inventory/reports/distribution
func (ctrl *InventoryController) GetStockDistribution(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	distribution, err := ctrl.inventoryService.GetStockDistribution()
	if err != nil {
		log.Error("Failed to build stock distribution", err, nil)
		apperrors.InternalError(c, "Failed to build distribution")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"distribution": distribution,
		"count":        len(distribution),
	})
}

// GetPopularProducts lists best sellers (Admin only)
// GET /api/inventory/reports/popular?limit=
func (ctrl *InventoryController) GetPopularProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := ctrl.inventoryService.GetPopularProducts(limit)
	if err != nil {
		log.Error("Failed to fetch popular products", err, nil)
		apperrors.InternalError(c, "Failed to fetch popular products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}
