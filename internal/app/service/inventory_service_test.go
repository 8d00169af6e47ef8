package service

import (
	"testing"
	"time"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupInventoryServiceTest(t *testing.T) (InventoryService, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	movementRepo := repository.NewInventoryMovementRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	inventoryService := NewInventoryService(movementRepo, productRepo, testDB)

	product := &model.Product{
		Name:          "Temperature Sensor",
		Price:         45,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return inventoryService, testDB, product
}

func TestInventoryService_RecordMovement_Add(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	received := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	movement, err := inventoryService.RecordMovement(MovementInput{
		ProductID:     product.ID,
		ChangeType:    model.MovementAdd,
		Quantity:      20,
		ReceivedBy:    "warehouse intake",
		ReceivedDate:  &received,
		InvoiceNumber: "INV-1042",
	})
	require.NoError(t, err)
	assert.NotZero(t, movement.ID)
	assert.Equal(t, "INV-1042", movement.InvoiceNumber)

	var updated model.Product
	testDB.First(&updated, product.ID)
	assert.Equal(t, 30, updated.StockQuantity)
}

func TestInventoryService_RecordMovement_Deduct(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	_, err := inventoryService.RecordMovement(MovementInput{
		ProductID:  product.ID,
		ChangeType: model.MovementDeduct,
		Quantity:   4,
		Note:       "damaged units",
	})
	require.NoError(t, err)

	var updated model.Product
	testDB.First(&updated, product.ID)
	assert.Equal(t, 6, updated.StockQuantity)
}

func TestInventoryService_RecordMovement_InsufficientStock(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	movement, err := inventoryService.RecordMovement(MovementInput{
		ProductID:  product.ID,
		ChangeType: model.MovementDeduct,
		Quantity:   100,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, movement)

	// Movement row rolled back with the stock change
	var count int64
	testDB.Model(&model.InventoryMovement{}).Count(&count)
	assert.Zero(t, count)

	var updated model.Product
	testDB.First(&updated, product.ID)
	assert.Equal(t, 10, updated.StockQuantity)
}

func TestInventoryService_RecordMovement_Validation(t *testing.T) {
	inventoryService, _, product := setupInventoryServiceTest(t)

	_, err := inventoryService.RecordMovement(MovementInput{
		ProductID:  product.ID,
		ChangeType: model.MovementAdd,
		Quantity:   0,
	})
	assert.ErrorIs(t, err, ErrInvalidMovement)

	_, err = inventoryService.RecordMovement(MovementInput{
		ProductID:  product.ID,
		ChangeType: "transfer",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, ErrInvalidMovement)

	_, err = inventoryService.RecordMovement(MovementInput{
		ProductID:  9999,
		ChangeType: model.MovementAdd,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInventoryService_ListMovements(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	other := &model.Product{
		Name:          "Smart Switch",
		Price:         20,
		StockQuantity: 50,
	}
	testDB.Create(other)

	for i := 0; i < 12; i++ {
		_, err := inventoryService.RecordMovement(MovementInput{
			ProductID:  product.ID,
			ChangeType: model.MovementAdd,
			Quantity:   1,
		})
		require.NoError(t, err)
	}
	_, err := inventoryService.RecordMovement(MovementInput{
		ProductID:  other.ID,
		ChangeType: model.MovementDeduct,
		Quantity:   2,
	})
	require.NoError(t, err)

	// Page size is fixed at 10 rows
	result, err := inventoryService.ListMovements("", "", 1)
	require.NoError(t, err)
	assert.Len(t, result.Movements, MovementPageSize)
	assert.Equal(t, int64(13), result.Total)
	assert.Equal(t, 2, result.TotalPages)

	result, err = inventoryService.ListMovements("", "", 2)
	require.NoError(t, err)
	assert.Len(t, result.Movements, 3)

	// Product name search
	result, err = inventoryService.ListMovements("Switch", "", 1)
	require.NoError(t, err)
	require.Len(t, result.Movements, 1)
	assert.Equal(t, other.ID, result.Movements[0].ProductID)
	assert.Equal(t, "Smart Switch", result.Movements[0].Product.Name)

	// Type filter
	result, err = inventoryService.ListMovements("", "deduct", 1)
	require.NoError(t, err)
	require.Len(t, result.Movements, 1)
	assert.Equal(t, model.MovementDeduct, result.Movements[0].ChangeType)

	_, err = inventoryService.ListMovements("", "transfer", 1)
	assert.ErrorIs(t, err, ErrInvalidMovement)
}

func TestInventoryService_GetMovementByID(t *testing.T) {
	inventoryService, _, product := setupInventoryServiceTest(t)

	movement, err := inventoryService.RecordMovement(MovementInput{
		ProductID:     product.ID,
		ChangeType:    model.MovementAdd,
		Quantity:      5,
		InvoiceNumber: "INV-2001",
	})
	require.NoError(t, err)

	found, err := inventoryService.GetMovementByID(movement.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2001", found.InvoiceNumber)
	assert.Equal(t, product.Name, found.Product.Name)

	_, err = inventoryService.GetMovementByID(9999)
	assert.ErrorIs(t, err, ErrMovementNotFound)
}

func TestInventoryService_GetProductHistory(t *testing.T) {
	inventoryService, _, product := setupInventoryServiceTest(t)

	for i := 0; i < 3; i++ {
		_, err := inventoryService.RecordMovement(MovementInput{
			ProductID:  product.ID,
			ChangeType: model.MovementAdd,
			Quantity:   5,
		})
		require.NoError(t, err)
	}

	history, err := inventoryService.GetProductHistory(product.ID, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = inventoryService.GetProductHistory(9999, 10)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInventoryService_GetLowStock(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	low := &model.Product{
		Name:          "Water Leak Sensor",
		Price:         35,
		StockQuantity: 2,
	}
	testDB.Create(low)

	products, err := inventoryService.GetLowStock(5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
	assert.Equal(t, 2, products[0].Quantity)
	assert.NotEqual(t, product.ID, products[0].ID)
}

func TestInventoryService_GetMonthlySummary(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	year := time.Now().UTC().Year()
	march := time.Date(year, time.March, 10, 12, 0, 0, 0, time.UTC)
	june := time.Date(year, time.June, 5, 9, 0, 0, 0, time.UTC)

	movements := []model.InventoryMovement{
		{ProductID: product.ID, ChangeType: model.MovementAdd, Quantity: 10, CreatedAt: march},
		{ProductID: product.ID, ChangeType: model.MovementDeduct, Quantity: 3, CreatedAt: march},
		{ProductID: product.ID, ChangeType: model.MovementAdd, Quantity: 7, CreatedAt: june},
	}
	for i := range movements {
		require.NoError(t, testDB.Create(&movements[i]).Error)
	}

	summaries, err := inventoryService.GetMonthlySummary(year)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, march.Format("2006-01"), summaries[0].Month)
	assert.Equal(t, 10, summaries[0].TotalAdded)
	assert.Equal(t, 3, summaries[0].TotalDeduced)
	assert.Equal(t, 2, summaries[0].Movements)

	assert.Equal(t, june.Format("2006-01"), summaries[1].Month)
	assert.Equal(t, 7, summaries[1].TotalAdded)
	assert.Equal(t, 1, summaries[1].Movements)
}

func TestInventoryService_GetStockDistribution(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	other := &model.Product{
		Name:          "Smart Switch",
		Price:         20,
		StockQuantity: 30,
	}
	testDB.Create(other)

	distribution, err := inventoryService.GetStockDistribution()
	require.NoError(t, err)
	require.Len(t, distribution, 2)

	// Ordered by stock descending: 30 of 40 then 10 of 40
	assert.Equal(t, other.ID, distribution[0].ProductID)
	assert.InDelta(t, 75.0, distribution[0].Percent, 0.01)
	assert.Equal(t, product.ID, distribution[1].ProductID)
	assert.InDelta(t, 25.0, distribution[1].Percent, 0.01)
}

func TestInventoryService_GetPopularProducts(t *testing.T) {
	inventoryService, testDB, product := setupInventoryServiceTest(t)

	other := &model.Product{
		Name:          "Smart Switch",
		Price:         20,
		StockQuantity: 100,
	}
	testDB.Create(other)

	user := &model.User{
		Username:     "Buyer",
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	orders := []model.Order{
		{
			UserID:        user.ID,
			TotalAmount:   245,
			PaymentMethod: "card",
			Status:        model.OrderStatusPlaced,
			OrderItems: []model.OrderItem{
				{ProductID: product.ID, Quantity: 2, Price: 45},
				{ProductID: other.ID, Quantity: 1, Price: 20},
			},
		},
		{
			UserID:        user.ID,
			TotalAmount:   135,
			PaymentMethod: "card",
			Status:        model.OrderStatusPlaced,
			OrderItems: []model.OrderItem{
				{ProductID: product.ID, Quantity: 3, Price: 45},
			},
		},
	}
	for i := range orders {
		require.NoError(t, testDB.Create(&orders[i]).Error)
	}

	popular, err := inventoryService.GetPopularProducts(10)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, product.ID, popular[0].ProductID)
	assert.Equal(t, 5, popular[0].TotalSold)
	assert.Equal(t, other.ID, popular[1].ProductID)
	assert.Equal(t, 1, popular[1].TotalSold)
}
