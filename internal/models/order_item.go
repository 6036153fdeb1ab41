package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a snapshot of a product line at order time. It is never
// mutated after creation.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	ProductID   *uint           `json:"product_id" gorm:"index"`
	ProductName string          `json:"product_name" gorm:"not null"`
	ProductSKU  string          `json:"product_sku" gorm:"column:product_sku"`
	Quantity    int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
}
