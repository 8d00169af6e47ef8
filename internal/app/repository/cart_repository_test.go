package repository

import (
	"testing"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (CartRepository, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewCartRepository(testDB)

	user := &model.User{
		Username:     "Test User",
		Email:        "test@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Air Quality Monitor",
		Price:         60,
		StockQuantity: 25,
	}
	testDB.Create(product)

	return repo, testDB, user, product
}

func TestCartRepository_CreateAndFindByUserID(t *testing.T) {
	repo, _, user, product := setupCartRepositoryTest(t)

	item := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	}
	require.NoError(t, repo.Create(item))
	assert.NotZero(t, item.ID)

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	// Product preloaded for price lookups
	assert.Equal(t, product.Name, items[0].Product.Name)
}

func TestCartRepository_FindByUserAndProduct(t *testing.T) {
	repo, _, user, product := setupCartRepositoryTest(t)

	require.NoError(t, repo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	}))

	found, err := repo.FindByUserAndProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	_, err = repo.FindByUserAndProduct(user.ID, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Update(t *testing.T) {
	repo, _, user, product := setupCartRepositoryTest(t)

	item := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	}
	require.NoError(t, repo.Create(item))

	item.Quantity = 5
	require.NoError(t, repo.Update(item))

	found, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestCartRepository_DeleteByUserAndProduct(t *testing.T) {
	repo, testDB, user, product := setupCartRepositoryTest(t)

	other := &model.Product{
		Name:          "Smart Scale",
		Price:         80,
		StockQuantity: 12,
	}
	testDB.Create(other)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: other.ID, Quantity: 1}))

	require.NoError(t, repo.DeleteByUserAndProduct(user.ID, product.ID))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].ProductID)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	repo, _, user, product := setupCartRepositoryTest(t)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 3}))
	require.NoError(t, repo.DeleteByUserID(user.ID))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}
