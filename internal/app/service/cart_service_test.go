package service

import (
	"testing"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Username:     "Test User",
		Email:        "test@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Motion Sensor",
		Price:         30,
		StockQuantity: 50,
	}
	testDB.Create(product)

	return cartService, testDB, user, product
}

func TestCartService_AddToCart(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, 2, item.Quantity)
}

func TestCartService_AddToCart_MergesExistingLine(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	first, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	second, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)

	// Same line, merged quantity
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, item)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Nil(t, item)
}

func TestCartService_GetCart_ComputesTotal(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	other := &model.Product{
		Name:          "Smart Bulb",
		Price:         15,
		StockQuantity: 40,
	}
	testDB.Create(other)

	_, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, other.ID, 1)
	require.NoError(t, err)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, float64(75), summary.Total)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err := cartService.UpdateQuantity(user.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = cartService.UpdateQuantity(user.ID, item.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateQuantity_OwnershipEnforced(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	other := &model.User{
		Username:     "Other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	testDB.Create(other)

	updated, err := cartService.UpdateQuantity(other.ID, item.ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	assert.Nil(t, updated)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	err = cartService.RemoveFromCart(user.ID, item.ID)
	require.NoError(t, err)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 0)

	err = cartService.RemoveFromCart(user.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	other := &model.Product{
		Name:          "Smart Lock",
		Price:         120,
		StockQuantity: 10,
	}
	testDB.Create(other)

	_, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, other.ID, 2)
	require.NoError(t, err)

	err = cartService.ClearCart(user.ID)
	require.NoError(t, err)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 0)
}
