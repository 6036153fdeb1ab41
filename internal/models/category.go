package models

import (
	"time"
)

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	ImageURL    *string   `json:"image_url"`
	BannerURL   *string   `json:"banner_url"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryDeletePolicy decides what happens to products of a deleted category.
type CategoryDeletePolicy string

const (
	// CategoryDeleteRestrict refuses to delete a category that still has products.
	CategoryDeleteRestrict CategoryDeletePolicy = "restrict"
	// CategoryDeleteCascade deletes the category's products along with it.
	CategoryDeleteCascade CategoryDeletePolicy = "cascade"
)
