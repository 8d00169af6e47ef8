package service

import (
	"context"
	"testing"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeNotifier records low stock notifications for assertions.
type fakeNotifier struct {
	calls [][]model.LowStockProduct
}

func (f *fakeNotifier) NotifyLowStock(products []model.LowStockProduct) {
	f.calls = append(f.calls, products)
}

const testLowStockThreshold = 5

func setupOrderServiceTest(t *testing.T) (OrderService, *gorm.DB, *model.User, *model.Product, *fakeNotifier) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	tempOrderRepo := repository.NewTempOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	notifier := &fakeNotifier{}
	orderService := NewOrderService(
		orderRepo, cartRepo, tempOrderRepo, productRepo,
		testDB, testLowStockThreshold, notifier,
	)

	user := &model.User{
		Username:     "Test User",
		Email:        "test@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Smart Thermostat",
		Price:         100,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return orderService, testDB, user, product, notifier
}

func TestOrderService_PlaceOrder_FromCart_Success(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	})

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, float64(200), order.TotalAmount)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Equal(t, model.OrderStatusPlaced, order.Status)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, float64(100), order.OrderItems[0].Price)

	// Stock decreased
	var updatedProduct model.Product
	testDB.First(&updatedProduct, product.ID)
	assert.Equal(t, 8, updatedProduct.StockQuantity)

	// Cart cleared
	items, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, items, 0)

	// Deduction recorded in the movement audit trail
	var movements []model.InventoryMovement
	testDB.Where("product_id = ?", product.ID).Find(&movements)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementDeduct, movements[0].ChangeType)
	assert.Equal(t, 2, movements[0].Quantity)
	require.NotNil(t, movements[0].OrderID)
	assert.Equal(t, order.ID, *movements[0].OrderID)
}

func TestOrderService_PlaceOrder_DefaultsToCartSource(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "cod", "")
	require.NoError(t, err)
	assert.Equal(t, float64(100), order.TotalAmount)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	orderService, testDB, user, _, _ := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	assert.ErrorIs(t, err, ErrNoOrderItems)
	assert.Nil(t, order)

	// Nothing written
	var count int64
	testDB.Model(&model.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderService_PlaceOrder_InvalidSource(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", "wishlist")
	assert.ErrorIs(t, err, ErrInvalidOrderSource)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  100,
	})

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, order)

	// Stock unchanged
	var updatedProduct model.Product
	testDB.First(&updatedProduct, product.ID)
	assert.Equal(t, 10, updatedProduct.StockQuantity)

	// Cart intact
	items, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, items, 1)

	// No order or movement rows leaked out of the rollback
	var orderCount, movementCount int64
	testDB.Model(&model.Order{}).Count(&orderCount)
	testDB.Model(&model.InventoryMovement{}).Count(&movementCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, movementCount)
}

func TestOrderService_PlaceOrder_PartialInsufficiencyRollsBackEverything(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	scarce := &model.Product{
		Name:          "Door Sensor",
		Price:         50,
		StockQuantity: 1,
	}
	testDB.Create(scarce)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2})
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: scarce.ID, Quantity: 5})

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, order)

	// First item's deduction was rolled back too
	var first model.Product
	testDB.First(&first, product.ID)
	assert.Equal(t, 10, first.StockQuantity)

	items, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, items, 2)
}

func TestOrderService_PlaceOrder_FromBuyNow(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	// Cart content must survive a buy-now checkout untouched
	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  3,
	})

	_, err := orderService.BuyNow(user.ID, product.ID)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceBuyNow)
	require.NoError(t, err)
	assert.Equal(t, float64(100), order.TotalAmount)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, 1, order.OrderItems[0].Quantity)

	// Staging cleared, cart untouched
	tempRepo := repository.NewTempOrderRepository(testDB)
	tempItems, _ := tempRepo.FindByUserID(user.ID)
	assert.Len(t, tempItems, 0)

	cartItems, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, cartItems, 1)
}

func TestOrderService_PlaceOrder_EmptyBuyNowStaging(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceBuyNow)
	assert.ErrorIs(t, err, ErrNoOrderItems)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_SkipsOrphanedCartLines(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	// Line pointing at a product that no longer exists
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: 9999, Quantity: 1})

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	require.NoError(t, err)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, product.ID, order.OrderItems[0].ProductID)
}

func TestOrderService_PlaceOrder_OnlyOrphanedLines(t *testing.T) {
	orderService, testDB, user, _, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: 9999, Quantity: 1})

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	assert.ErrorIs(t, err, ErrNoOrderItems)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_NotifiesLowStock(t *testing.T) {
	orderService, testDB, user, product, notifier := setupOrderServiceTest(t)

	testDB.Model(&model.Product{}).Where("id = ?", product.ID).
		Update("stock_quantity", 6)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2})

	_, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	require.NoError(t, err)

	// 6 - 2 = 4 is below the threshold of 5
	require.Len(t, notifier.calls, 1)
	require.Len(t, notifier.calls[0], 1)
	assert.Equal(t, product.ID, notifier.calls[0][0].ID)
	assert.Equal(t, 4, notifier.calls[0][0].Quantity)
}

func TestOrderService_PlaceOrder_NotifiesAllUnderThreshold(t *testing.T) {
	orderService, testDB, user, product, notifier := setupOrderServiceTest(t)

	// Already under threshold before the checkout, not part of the order
	depleted := &model.Product{
		Name:          "Motion Sensor",
		Price:         30,
		StockQuantity: 2,
	}
	testDB.Create(depleted)

	testDB.Model(&model.Product{}).Where("id = ?", product.ID).
		Update("stock_quantity", 6)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2})

	_, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	require.NoError(t, err)

	// The alert carries every product under threshold, ordered or not
	require.Len(t, notifier.calls, 1)
	require.Len(t, notifier.calls[0], 2)

	quantities := make(map[uint]int, 2)
	for _, p := range notifier.calls[0] {
		quantities[p.ID] = p.Quantity
	}
	assert.Equal(t, 4, quantities[product.ID])
	assert.Equal(t, 2, quantities[depleted.ID])
}

func TestOrderService_PlaceOrder_NoAlertAboveThreshold(t *testing.T) {
	orderService, testDB, user, product, notifier := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2})

	_, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	require.NoError(t, err)

	// 10 - 2 = 8 leaves plenty of stock
	assert.Len(t, notifier.calls, 0)
}

func TestOrderService_PlaceOrder_CancelledContext(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	order, err := orderService.PlaceOrder(ctx, user.ID, "card", OrderSourceCart)
	assert.Error(t, err)
	assert.Nil(t, order)

	// No partial writes
	var count int64
	testDB.Model(&model.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderService_BuyNow_ReplacesPreviousStaging(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	other := &model.Product{
		Name:          "Smart Plug",
		Price:         25,
		StockQuantity: 20,
	}
	testDB.Create(other)

	_, err := orderService.BuyNow(user.ID, product.ID)
	require.NoError(t, err)

	_, err = orderService.BuyNow(user.ID, other.ID)
	require.NoError(t, err)

	items, err := orderService.GetBuyNowItems(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestOrderService_BuyNow_ProductNotFound(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	item, err := orderService.BuyNow(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, item)
}

func TestOrderService_GetOrderSummary(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 3})

	summary, err := orderService.GetOrderSummary(user.ID, OrderSourceCart)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, float64(300), summary.Total)

	// Summary is read-only: nothing was deducted or cleared
	var updatedProduct model.Product
	testDB.First(&updatedProduct, product.ID)
	assert.Equal(t, 10, updatedProduct.StockQuantity)

	items, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, items, 1)
}

func TestOrderService_RemovePendingItem(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1})

	err := orderService.RemovePendingItem(user.ID, OrderSourceCart, product.ID)
	require.NoError(t, err)

	items, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, items, 0)

	err = orderService.RemovePendingItem(user.ID, "wishlist", product.ID)
	assert.ErrorIs(t, err, ErrInvalidOrderSource)
}

func TestOrderService_GetOrderByID_OwnershipEnforced(t *testing.T) {
	orderService, testDB, user, product, _ := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1})

	order, err := orderService.PlaceOrder(context.Background(), user.ID, "card", OrderSourceCart)
	require.NoError(t, err)

	other := &model.User{
		Username:     "Other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	testDB.Create(other)

	fetched, err := orderService.GetOrderByID(other.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Nil(t, fetched)

	fetched, err = orderService.GetOrderByID(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}
