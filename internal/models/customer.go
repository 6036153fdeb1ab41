package models

import (
	"time"
)

type Customer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"not null"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line_1" gorm:"column:address_line_1"`
	AddressLine2 string    `json:"address_line_2" gorm:"column:address_line_2"`
	City         string    `json:"city"`
	District     string    `json:"district"`
	PostalCode   string    `json:"postal_code"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
