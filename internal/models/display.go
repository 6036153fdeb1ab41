package models

import (
	"time"
)

// Slider is a homepage banner.
type Slider struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Subtitle  *string   `json:"subtitle"`
	ImageURL  string    `json:"image_url" gorm:"not null"`
	LinkURL   *string   `json:"link_url"`
	SortOrder int       `json:"sort_order" gorm:"uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PromotionalFeature is a storefront callout such as "Free delivery".
type PromotionalFeature struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
