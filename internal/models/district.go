package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// District is a shipping zone with a flat delivery charge.
type District struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"uniqueIndex;not null"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge" gorm:"type:numeric(12,2);not null;default:0"`
	IsActive       bool            `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
