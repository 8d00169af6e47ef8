package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrNoOrderItems       = errors.New("no items to place order")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidOrderSource = errors.New("invalid order source")
)

// Order item sources.
const (
	OrderSourceCart   = "cart"
	OrderSourceBuyNow = "buy_now"
)

// LowStockNotifier receives the products that dropped below the restock
// threshold after an order commits. Implementations must not fail the
// order path; errors stay inside the notifier.
type LowStockNotifier interface {
	NotifyLowStock(products []model.LowStockProduct)
}

type OrderSummary struct {
	Items []model.OrderItem `json:"items"`
	Total float64           `json:"total"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, paymentMethod, source string) (*model.Order, error)
	BuyNow(userID, productID uint) (*model.TempOrderItem, error)
	GetBuyNowItems(userID uint) ([]model.TempOrderItem, error)
	GetOrderSummary(userID uint, source string) (*OrderSummary, error)
	RemovePendingItem(userID uint, source string, productID uint) error
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo         repository.OrderRepository
	cartRepo          repository.CartRepository
	tempOrderRepo     repository.TempOrderRepository
	productRepo       repository.ProductRepository
	db                *gorm.DB
	lowStockThreshold int
	notifier          LowStockNotifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	tempOrderRepo repository.TempOrderRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
	lowStockThreshold int,
	notifier LowStockNotifier,
) OrderService {
	return &orderService{
		orderRepo:         orderRepo,
		cartRepo:          cartRepo,
		tempOrderRepo:     tempOrderRepo,
		productRepo:       productRepo,
		db:                db,
		lowStockThreshold: lowStockThreshold,
		notifier:          notifier,
	}
}

// orderLine is a resolved pending item with its product snapshot.
type orderLine struct {
	productID uint
	quantity  int
	price     float64
}

// resolveItems loads the pending items for the chosen source. Lines whose
// product no longer exists are skipped with a warning instead of failing
// the whole checkout.
func (s *orderService) resolveItems(userID uint, source string) ([]orderLine, error) {
	var lines []orderLine

	switch source {
	case OrderSourceCart:
		cartItems, err := s.cartRepo.FindByUserID(userID)
		if err != nil {
			return nil, err
		}
		for _, item := range cartItems {
			if item.Product.ID == 0 {
				logger.Warn("Skipping cart line: product no longer exists", map[string]interface{}{
					"user_id":      userID,
					"cart_item_id": item.ID,
					"product_id":   item.ProductID,
				})
				continue
			}
			lines = append(lines, orderLine{
				productID: item.ProductID,
				quantity:  item.Quantity,
				price:     item.Product.Price,
			})
		}
	case OrderSourceBuyNow:
		tempItems, err := s.tempOrderRepo.FindByUserID(userID)
		if err != nil {
			return nil, err
		}
		for _, item := range tempItems {
			if item.Product.ID == 0 {
				logger.Warn("Skipping buy-now line: product no longer exists", map[string]interface{}{
					"user_id":       userID,
					"temp_order_id": item.ID,
					"product_id":    item.ProductID,
				})
				continue
			}
			lines = append(lines, orderLine{
				productID: item.ProductID,
				quantity:  item.Quantity,
				price:     item.Product.Price,
			})
		}
	default:
		return nil, ErrInvalidOrderSource
	}

	return lines, nil
}

// PlaceOrder turns the user's pending items into a committed order. The
// order header, line items, stock deductions, inventory movements and the
// source cleanup all commit in one transaction; cancelling ctx before
// commit rolls everything back.
func (s *orderService) PlaceOrder(ctx context.Context, userID uint, paymentMethod, source string) (*model.Order, error) {
	if source == "" {
		source = OrderSourceCart
	}

	logger.Info("Placing order", map[string]interface{}{
		"user_id":        userID,
		"payment_method": paymentMethod,
		"source":         source,
	})

	lines, err := s.resolveItems(userID, source)
	if err != nil {
		if errors.Is(err, ErrInvalidOrderSource) {
			logger.Warn("Order placement failed: invalid source", map[string]interface{}{
				"user_id": userID,
				"source":  source,
			})
			return nil, err
		}
		logger.Error("Failed to resolve pending items", err, map[string]interface{}{
			"user_id": userID,
			"source":  source,
		})
		return nil, err
	}

	if len(lines) == 0 {
		logger.Warn("Order placement failed: no items", map[string]interface{}{
			"user_id": userID,
			"source":  source,
		})
		return nil, ErrNoOrderItems
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		totalAmount float64
		orderItems  []model.OrderItem
	)

	for _, line := range lines {
		// Conditional decrement: the WHERE clause guards against going
		// negative, so concurrent checkouts race safely on the row.
		res := tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", line.productID, line.quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.quantity))
		if res.Error != nil {
			tx.Rollback()
			logger.Error("Failed to deduct product stock", res.Error, map[string]interface{}{
				"user_id":    userID,
				"product_id": line.productID,
			})
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			logger.Warn("Order placement failed: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": line.productID,
				"requested":  line.quantity,
			})
			return nil, ErrInsufficientStock
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID: line.productID,
			Quantity:  line.quantity,
			Price:     line.price,
		})
		totalAmount += line.price * float64(line.quantity)
	}

	order := &model.Order{
		UserID:        userID,
		TotalAmount:   totalAmount,
		PaymentMethod: paymentMethod,
		Status:        model.OrderStatusPlaced,
		OrderItems:    orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":      userID,
			"total_amount": totalAmount,
		})
		return nil, err
	}

	for _, item := range order.OrderItems {
		orderID := order.ID
		movement := model.InventoryMovement{
			ProductID:  item.ProductID,
			ChangeType: model.MovementDeduct,
			Quantity:   item.Quantity,
			OrderID:    &orderID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to record inventory movement", err, map[string]interface{}{
				"user_id":    userID,
				"order_id":   order.ID,
				"product_id": item.ProductID,
			})
			return nil, err
		}
	}

	switch source {
	case OrderSourceCart:
		if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to clear cart after order placement", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
	case OrderSourceBuyNow:
		if err := tx.Where("user_id = ?", userID).Delete(&model.TempOrderItem{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to clear buy-now staging after order placement", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": totalAmount,
		"item_count":   len(orderItems),
		"source":       source,
	})

	// Best effort: alert failures never surface to the buyer
	s.checkLowStock(userID)

	return s.orderRepo.FindByID(order.ID)
}

// checkLowStock re-queries the whole catalog after commit and hands every
// product currently under the threshold to the notifier, not just the ones
// this order touched.
func (s *orderService) checkLowStock(userID uint) {
	if s.notifier == nil {
		return
	}

	lowStock, err := s.productRepo.FindLowStock(s.lowStockThreshold)
	if err != nil {
		logger.Warn("Low stock check skipped: query failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	if len(lowStock) == 0 {
		return
	}

	logger.Info("Low stock detected after order", map[string]interface{}{
		"user_id":        userID,
		"products_count": len(lowStock),
	})
	s.notifier.NotifyLowStock(lowStock)
}

// BuyNow stages a single-quantity line for immediate checkout, replacing
// any previous staging rows for the user.
func (s *orderService) BuyNow(userID, productID uint) (*model.TempOrderItem, error) {
	logger.Info("Staging buy-now item", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Buy-now failed: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item, err := s.tempOrderRepo.ReplaceForUser(userID, productID)
	if err != nil {
		logger.Error("Failed to stage buy-now item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	return item, nil
}

func (s *orderService) GetBuyNowItems(userID uint) ([]model.TempOrderItem, error) {
	return s.tempOrderRepo.FindByUserID(userID)
}

// GetOrderSummary previews the pending items and total for the checkout page.
func (s *orderService) GetOrderSummary(userID uint, source string) (*OrderSummary, error) {
	if source == "" {
		source = OrderSourceCart
	}

	lines, err := s.resolveItems(userID, source)
	if err != nil {
		return nil, err
	}

	summary := &OrderSummary{Items: []model.OrderItem{}}
	for _, line := range lines {
		summary.Items = append(summary.Items, model.OrderItem{
			ProductID: line.productID,
			Quantity:  line.quantity,
			Price:     line.price,
		})
		summary.Total += line.price * float64(line.quantity)
	}

	return summary, nil
}

// RemovePendingItem drops one product from the chosen pending source.
func (s *orderService) RemovePendingItem(userID uint, source string, productID uint) error {
	logger.Info("Removing pending item", map[string]interface{}{
		"user_id":    userID,
		"source":     source,
		"product_id": productID,
	})

	switch source {
	case OrderSourceCart:
		return s.cartRepo.DeleteByUserAndProduct(userID, productID)
	case OrderSourceBuyNow:
		return s.tempOrderRepo.DeleteByUserAndProduct(userID, productID)
	default:
		return ErrInvalidOrderSource
	}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}
