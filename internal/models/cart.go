package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a line in a session cart. Carts live in Redis, not in the
// relational store.
type CartItem struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	AddedAt   time.Time       `json:"added_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CartProduct is the live product view joined onto a cart line.
type CartProduct struct {
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	StockQuantity int              `json:"stock_quantity"`
	Images        []string         `json:"images"`
}

type CartLine struct {
	CartItem
	Product   CartProduct     `json:"product"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartSummary struct {
	SessionID string          `json:"session_id"`
	Items     []CartLine      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
