package services

import (
	"context"
	"errors"
	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/redis"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxSessionIDLength = 128

type CartService interface {
	List(ctx context.Context, sessionID string) ([]models.CartLine, error)
	Summary(ctx context.Context, sessionID string) (*models.CartSummary, error)
	Add(ctx context.Context, sessionID string, productID uint, quantity int) (*models.CartItem, error)
	// Update sets the quantity of a line; quantity 0 removes it and returns nil.
	Update(ctx context.Context, sessionID, itemID string, quantity int) (*models.CartItem, error)
	Remove(ctx context.Context, sessionID, itemID string) error
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	carts    redis.CartStore
	products repository.ProductRepository
	now      func() time.Time
}

func NewCartService(carts redis.CartStore, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products, now: time.Now}
}

func validateSession(sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return apperr.Validation("session_id is required")
	}
	if len(sessionID) > maxSessionIDLength {
		return apperr.Validation("session_id is too long")
	}
	return nil
}

func (s *cartService) List(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load cart")
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			// product was deleted since it was added
			continue
		}
		if err != nil {
			return nil, apperr.Storage(err, "failed to load product %d", item.ProductID)
		}
		if !product.IsActive {
			continue
		}
		lines = append(lines, models.CartLine{
			CartItem: item,
			Product: models.CartProduct{
				Name:          product.Name,
				Slug:          product.Slug,
				SKU:           product.SKU,
				Price:         product.Price,
				SalePrice:     product.SalePrice,
				StockQuantity: product.StockQuantity,
				Images:        product.Images,
			},
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return lines, nil
}

func (s *cartService) Summary(ctx context.Context, sessionID string) (*models.CartSummary, error) {
	lines, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := &models.CartSummary{SessionID: sessionID, Items: lines, Subtotal: decimal.Zero}
	for _, line := range lines {
		summary.ItemCount += line.Quantity
		summary.Subtotal = summary.Subtotal.Add(line.LineTotal)
	}
	return summary, nil
}

// availableProduct loads a product that can be put in a cart.
func (s *cartService) availableProduct(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, loadErr(err, "product", productID)
	}
	if !product.IsActive {
		return nil, apperr.NotFound("product %d not found", productID)
	}
	return product, nil
}

func (s *cartService) Add(ctx context.Context, sessionID string, productID uint, quantity int) (*models.CartItem, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > product.StockQuantity {
		return nil, apperr.InsufficientStock("only %d of %s in stock", product.StockQuantity, product.Name)
	}

	var added models.CartItem
	_, err = s.carts.Mutate(ctx, sessionID, func(items []models.CartItem) ([]models.CartItem, error) {
		now := s.now()
		for i := range items {
			if items[i].ProductID != productID {
				continue
			}
			if quantity > product.StockQuantity-items[i].Quantity {
				return nil, apperr.InsufficientStock("only %d of %s in stock", product.StockQuantity, product.Name)
			}
			items[i].Quantity += quantity
			items[i].UpdatedAt = now
			added = items[i]
			return items, nil
		}

		added = models.CartItem{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.EffectivePrice(),
			AddedAt:   now,
			UpdatedAt: now,
		}
		return append(items, added), nil
	})
	if err != nil {
		return nil, cartErr(err)
	}
	return &added, nil
}

func (s *cartService) Update(ctx context.Context, sessionID, itemID string, quantity int) (*models.CartItem, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative")
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load cart")
	}
	current := findCartItem(items, itemID)
	if current < 0 {
		return nil, apperr.NotFound("cart item %s not found", itemID)
	}

	var product *models.Product
	if quantity > 0 {
		if product, err = s.availableProduct(ctx, items[current].ProductID); err != nil {
			return nil, err
		}
		if quantity > product.StockQuantity {
			return nil, apperr.InsufficientStock("only %d of %s in stock", product.StockQuantity, product.Name)
		}
	}

	var updated *models.CartItem
	_, err = s.carts.Mutate(ctx, sessionID, func(items []models.CartItem) ([]models.CartItem, error) {
		i := findCartItem(items, itemID)
		if i < 0 {
			return nil, apperr.NotFound("cart item %s not found", itemID)
		}
		if quantity == 0 {
			return append(items[:i], items[i+1:]...), nil
		}
		items[i].Quantity = quantity
		items[i].UnitPrice = product.EffectivePrice()
		items[i].UpdatedAt = s.now()
		line := items[i]
		updated = &line
		return items, nil
	})
	if err != nil {
		return nil, cartErr(err)
	}
	return updated, nil
}

func (s *cartService) Remove(ctx context.Context, sessionID, itemID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	_, err := s.carts.Mutate(ctx, sessionID, func(items []models.CartItem) ([]models.CartItem, error) {
		if i := findCartItem(items, itemID); i >= 0 {
			return append(items[:i], items[i+1:]...), nil
		}
		return items, nil
	})
	return cartErr(err)
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return apperr.Storage(err, "failed to clear cart")
	}
	return nil
}

func findCartItem(items []models.CartItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func cartErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Storage(err, "failed to update cart")
}
