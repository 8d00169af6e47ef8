package service

import (
	"errors"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

type CartSummary struct {
	Items []model.CartItem `json:"items"`
	Total float64          `json:"total"`
}

type CartService interface {
	AddToCart(userID, productID uint, quantity int) (*model.CartItem, error)
	GetCart(userID uint) (*CartSummary, error)
	UpdateQuantity(userID, cartItemID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) AddToCart(userID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// Merge with an existing line for the same product
	existing, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err == nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		logger.Info("Cart item quantity merged", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": existing.ID,
			"quantity":     existing.Quantity,
		})
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cartItem := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(cartItem); err != nil {
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItem.ID,
	})
	return cartItem, nil
}

func (s *cartService) GetCart(userID uint) (*CartSummary, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	var total float64
	for _, item := range items {
		total += item.Product.Price * float64(item.Quantity)
	}

	return &CartSummary{
		Items: items,
		Total: total,
	}, nil
}

func (s *cartService) UpdateQuantity(userID, cartItemID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	item, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if item.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     item.UserID,
		})
		return nil, ErrCartItemNotFound
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	item, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	if item.UserID != userID {
		return ErrCartItemNotFound
	}

	return s.cartRepo.Delete(cartItemID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.DeleteByUserID(userID)
}
