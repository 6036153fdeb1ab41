package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID                 uint             `json:"id" gorm:"primaryKey"`
	Name               string           `json:"name" gorm:"not null"`
	Slug               string           `json:"slug" gorm:"uniqueIndex;not null"`
	Description        string           `json:"description" gorm:"type:text"`
	Price              decimal.Decimal  `json:"price" gorm:"type:numeric(12,2);not null"`
	SalePrice          *decimal.Decimal `json:"sale_price" gorm:"type:numeric(12,2)"`
	SKU                string           `json:"sku" gorm:"column:sku;uniqueIndex;not null"`
	StockQuantity      int              `json:"stock_quantity" gorm:"not null;default:0;check:stock_quantity >= 0"`
	CategoryID         uint             `json:"category_id" gorm:"not null;index"`
	Category           *Category        `json:"category,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Images             pq.StringArray   `json:"images" gorm:"type:text[]"`
	IsActive           bool             `json:"is_active" gorm:"not null"`
	IsFeatured         bool             `json:"is_featured" gorm:"not null"`
	Weight             *string          `json:"weight"`
	Dimensions         *string          `json:"dimensions"`
	Warranty           *string          `json:"warranty"`
	Brand              *string          `json:"brand"`
	Origin             *string          `json:"origin"`
	AvailabilityStatus *string          `json:"availability_status"`
	KeyFeatures        pq.StringArray   `json:"key_features" gorm:"type:text[]"`
	BoxContents        pq.StringArray   `json:"box_contents" gorm:"type:text[]"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// EffectivePrice is the sale price when one is set, otherwise the base price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// ProductSort orders product listings.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortName      ProductSort = "name"
)
