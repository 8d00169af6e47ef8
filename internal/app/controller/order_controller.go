package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hazique/iotstore-backend/internal/app/service"
	apperrors "github.com/hazique/iotstore-backend/internal/errors"
	"github.com/hazique/iotstore-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type PlaceOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	Source        string `json:"source"`
}

type BuyNowRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// PlaceOrder commits the user's pending items into an order
// POST /api/orders/place
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to place order", nil)
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid place order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, req.PaymentMethod, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoOrderItems):
			log.Warn("Order placement failed: no items", map[string]interface{}{
				"user_id": userID,
				"source":  req.Source,
			})
			apperrors.BadRequest(c, apperrors.OrderNoItems, "No items to place order")
			return
		case errors.Is(err, service.ErrInsufficientStock):
			log.Warn("Order placement failed: insufficient stock", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.OrderInsufficientStock, "Insufficient stock for one or more items")
			return
		case errors.Is(err, service.ErrInvalidOrderSource):
			log.Warn("Order placement failed: invalid source", map[string]interface{}{
				"user_id": userID,
				"source":  req.Source,
			})
			apperrors.BadRequest(c, apperrors.OrderInvalidSource, "Invalid order source")
			return
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Failed to place order")
			return
		}
	}

	log.Info("Order placed successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})

	c.JSON(http.StatusOK, gin.H{
		"msg":     "Order placed successfully",
		"orderID": order.ID,
	})
}

// BuyNow stages a product for immediate checkout
// POST /api/orders/buynow
func (ctrl *OrderController) BuyNow(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to buy now", nil)
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	var req BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid buy-now request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	item, err := ctrl.orderService.BuyNow(userID, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Buy-now failed: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to stage buy-now item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "Failed to stage item")
		return
	}

	log.Info("Buy-now item staged", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
	})

	c.JSON(http.StatusOK, gin.H{
		"msg":  "Item staged for checkout",
		"item": item,
	})
}

// GetBuyNowItems returns the staged buy-now items
// GET /api/orders/buynow-items
func (ctrl *OrderController) GetBuyNowItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	items, err := ctrl.orderService.GetBuyNowItems(userID)
	if err != nil {
		log.Error("Failed to fetch buy-now items", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetOrderSummary previews the pending checkout
// GET /api/orders/summary?source=cart|buy_now
func (ctrl *OrderController) GetOrderSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	source := c.Query("source")

	summary, err := ctrl.orderService.GetOrderSummary(userID, source)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderSource) {
			apperrors.BadRequest(c, apperrors.OrderInvalidSource, "Invalid order source")
			return
		}
		log.Error("Failed to fetch order summary", err, map[string]interface{}{
			"user_id": userID,
			"source":  source,
		})
		apperrors.InternalError(c, "Failed to fetch summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": summary.Items,
		"total": summary.Total,
	})
}

// RemovePendingItem deletes one product from a pending source
// DELETE /api/orders/:source/:productID
func (ctrl *OrderController) RemovePendingItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	source := c.Param("source")
	productIDStr := c.Param("productID")
	productID, err := strconv.ParseUint(productIDStr, 10, 32)
	if err != nil {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"user_id":    userID,
			"product_id": productIDStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.orderService.RemovePendingItem(userID, source, uint(productID)); err != nil {
		if errors.Is(err, service.ErrInvalidOrderSource) {
			apperrors.BadRequest(c, apperrors.OrderInvalidSource, "Invalid order source")
			return
		}
		log.Error("Failed to remove pending item", err, map[string]interface{}{
			"user_id":    userID,
			"source":     source,
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to remove item")
		return
	}

	log.Info("Pending item removed", map[string]interface{}{
		"user_id":    userID,
		"source":     source,
		"product_id": productID,
	})

	c.JSON(http.StatusOK, gin.H{
		"msg": "Item removed",
	})
}

// GetOrders returns user's orders
// GET /api/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns order by ID
// GET /api/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid order ID format", map[string]interface{}{
			"user_id":  userID,
			"order_id": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
