package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	OrderNumber          string          `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID           *uint           `json:"customer_id" gorm:"index"`
	CustomerEmail        *string         `json:"customer_email"`
	CustomerName         string          `json:"customer_name" gorm:"not null"`
	CustomerPhone        string          `json:"customer_phone" gorm:"not null"`
	ShippingAddressLine1 string          `json:"shipping_address_line_1" gorm:"column:shipping_address_line_1;not null"`
	ShippingAddressLine2 string          `json:"shipping_address_line_2" gorm:"column:shipping_address_line_2"`
	ShippingCity         string          `json:"shipping_city" gorm:"not null"`
	ShippingDistrict     string          `json:"shipping_district" gorm:"not null"`
	ShippingPostalCode   string          `json:"shipping_postal_code"`
	TotalAmount          decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	ShippingCost         decimal.Decimal `json:"shipping_cost" gorm:"type:numeric(12,2);not null"`
	Status               string          `json:"status" gorm:"default:'pending';index"`
	PaymentStatus        string          `json:"payment_status" gorm:"default:'pending'"`
	PaymentMethod        *string         `json:"payment_method"`
	Notes                *string         `json:"notes" gorm:"type:text"`
	Items                []OrderItem     `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded:
		return true
	}
	return false
}
