package services

import (
	"context"
	"log"
	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	BannerURL   *string `json:"banner_url"`
	IsActive    *bool   `json:"is_active"`
}

// ProductInput is used for both create and partial update; nil fields are
// left unchanged on update.
type ProductInput struct {
	Name               *string          `json:"name"`
	Slug               *string          `json:"slug"`
	Description        *string          `json:"description"`
	Price              *decimal.Decimal `json:"price"`
	SalePrice          *decimal.Decimal `json:"sale_price"`
	ClearSalePrice     bool             `json:"clear_sale_price"`
	SKU                *string          `json:"sku"`
	StockQuantity      *int             `json:"stock_quantity"`
	CategoryID         *uint            `json:"category_id"`
	Images             *[]string        `json:"images"`
	IsActive           *bool            `json:"is_active"`
	IsFeatured         *bool            `json:"is_featured"`
	Weight             *string          `json:"weight"`
	Dimensions         *string          `json:"dimensions"`
	Warranty           *string          `json:"warranty"`
	Brand              *string          `json:"brand"`
	Origin             *string          `json:"origin"`
	AvailabilityStatus *string          `json:"availability_status"`
	KeyFeatures        *[]string        `json:"key_features"`
	BoxContents        *[]string        `json:"box_contents"`
}

type CatalogService interface {
	ListCategories(ctx context.Context, filter repository.CategoryFilter) ([]models.Category, int64, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	// GetCategoryBySlug only returns active categories.
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	// GetProductBySlug only returns active products.
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type catalogService struct {
	store        repository.Store
	deletePolicy models.CategoryDeletePolicy
	now          func() time.Time
}

func NewCatalogService(store repository.Store, deletePolicy models.CategoryDeletePolicy) CatalogService {
	if deletePolicy != models.CategoryDeleteCascade {
		deletePolicy = models.CategoryDeleteRestrict
	}
	return &catalogService{store: store, deletePolicy: deletePolicy, now: time.Now}
}

func (s *catalogService) ListCategories(ctx context.Context, filter repository.CategoryFilter) ([]models.Category, int64, error) {
	categories, total, err := s.store.Categories().List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage(err, "failed to list categories")
	}
	return categories, total, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, id)
	if err != nil {
		return nil, loadErr(err, "category", id)
	}
	return category, nil
}

func (s *catalogService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.store.Categories().GetBySlug(ctx, slug)
	if err != nil {
		return nil, loadErr(err, "category", slug)
	}
	if !category.IsActive {
		return nil, apperr.NotFound("category %s not found", slug)
	}
	return category, nil
}

// categorySlugFree reports a Conflict when slug belongs to a category other than selfID.
func (s *catalogService) categorySlugFree(ctx context.Context, slug string, selfID uint) error {
	existing, err := s.store.Categories().GetBySlug(ctx, slug)
	found, err := exists(err)
	if err != nil {
		return apperr.Storage(err, "failed to check category slug")
	}
	if found && existing.ID != selfID {
		return apperr.Conflict("category slug %q already exists", slug)
	}
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := trimmed(in.Name)
	if name == "" {
		return nil, apperr.Fields(map[string]string{"name": "is required"})
	}
	slug := Slugify(name)
	if in.Slug != nil && trimmed(in.Slug) != "" {
		slug = Slugify(*in.Slug)
	}
	if slug == "" {
		return nil, apperr.Fields(map[string]string{"slug": "must contain letters or digits"})
	}
	if err := s.categorySlugFree(ctx, slug, 0); err != nil {
		return nil, err
	}

	now := s.now()
	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: optional(in.Description),
		ImageURL:    optional(in.ImageURL),
		BannerURL:   optional(in.BannerURL),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, writeErr(err, "create category")
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return nil, apperr.Fields(map[string]string{"name": "cannot be empty"})
		}
		category.Name = name
	}
	if in.Slug != nil {
		slug := Slugify(*in.Slug)
		if slug == "" {
			return nil, apperr.Fields(map[string]string{"slug": "must contain letters or digits"})
		}
		if slug != category.Slug {
			if err := s.categorySlugFree(ctx, slug, category.ID); err != nil {
				return nil, err
			}
			category.Slug = slug
		}
	}
	if in.Description != nil {
		category.Description = optional(in.Description)
	}
	if in.ImageURL != nil {
		category.ImageURL = optional(in.ImageURL)
	}
	if in.BannerURL != nil {
		category.BannerURL = optional(in.BannerURL)
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	category.UpdatedAt = s.now()

	if err := s.store.Categories().Update(ctx, category); err != nil {
		return nil, writeErr(err, "update category")
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	return s.store.Transaction(ctx, func(tx repository.Store) error {
		count, err := tx.Products().CountByCategory(ctx, id)
		if err != nil {
			return apperr.Storage(err, "failed to count products")
		}
		if count > 0 {
			if s.deletePolicy != models.CategoryDeleteCascade {
				return apperr.Conflict("category %s still has %d products", category.Slug, count)
			}
			if err := tx.Products().DeleteByCategory(ctx, id); err != nil {
				return apperr.Storage(err, "failed to delete products of category %d", id)
			}
			log.Printf("Deleted %d products with category %s", count, category.Slug)
		}
		if err := tx.Categories().Delete(ctx, id); err != nil {
			return apperr.Storage(err, "failed to delete category")
		}
		return nil
	})
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	switch filter.Sort {
	case "", models.SortNewest, models.SortPriceAsc, models.SortPriceDesc, models.SortName:
	default:
		return nil, 0, apperr.Validation("unknown sort %q", filter.Sort)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, apperr.Validation("min_price cannot exceed max_price")
	}
	products, total, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage(err, "failed to list products")
	}
	return products, total, nil
}

func (s *catalogService) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	active, featured := true, true
	products, _, err := s.ListProducts(ctx, repository.ProductFilter{
		Active:   &active,
		Featured: &featured,
		Page:     repository.Page{Page: 1, Limit: limit},
	})
	return products, err
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, loadErr(err, "product", id)
	}
	return product, nil
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.store.Products().GetBySlug(ctx, slug)
	if err != nil {
		return nil, loadErr(err, "product", slug)
	}
	if !product.IsActive {
		return nil, apperr.NotFound("product %s not found", slug)
	}
	return product, nil
}

func (s *catalogService) productKeysFree(ctx context.Context, slug, sku string, selfID uint) error {
	if slug != "" {
		existing, err := s.store.Products().GetBySlug(ctx, slug)
		found, err := exists(err)
		if err != nil {
			return apperr.Storage(err, "failed to check product slug")
		}
		if found && existing.ID != selfID {
			return apperr.Conflict("product slug %q already exists", slug)
		}
	}
	if sku != "" {
		existing, err := s.store.Products().GetBySKU(ctx, sku)
		found, err := exists(err)
		if err != nil {
			return apperr.Storage(err, "failed to check product sku")
		}
		if found && existing.ID != selfID {
			return apperr.Conflict("product sku %q already exists", sku)
		}
	}
	return nil
}

func (s *catalogService) categoryExists(ctx context.Context, id uint) error {
	_, err := s.store.Categories().GetByID(ctx, id)
	if err != nil {
		return loadErr(err, "category", id)
	}
	return nil
}

// checkPrices validates the merged price fields of product.
func checkPrices(product *models.Product, details map[string]string) {
	if product.Price.IsNegative() {
		details["price"] = "cannot be negative"
	}
	if product.SalePrice != nil {
		if product.SalePrice.IsNegative() {
			details["sale_price"] = "cannot be negative"
		} else if product.SalePrice.GreaterThan(product.Price) {
			details["sale_price"] = "cannot exceed price"
		}
	}
	if product.StockQuantity < 0 {
		details["stock_quantity"] = "cannot be negative"
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	details := map[string]string{}
	name := trimmed(in.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if in.Price == nil {
		details["price"] = "is required"
	}
	if in.CategoryID == nil || *in.CategoryID == 0 {
		details["category_id"] = "is required"
	}
	if len(details) > 0 {
		return nil, apperr.Fields(details)
	}

	now := s.now()
	product := &models.Product{
		Name:       name,
		Slug:       Slugify(name),
		Price:      *in.Price,
		SKU:        GenerateSKU(name, now),
		CategoryID: *in.CategoryID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Slug != nil && trimmed(in.Slug) != "" {
		product.Slug = Slugify(*in.Slug)
	}
	if in.SKU != nil && trimmed(in.SKU) != "" {
		product.SKU = strings.ToUpper(trimmed(in.SKU))
	}
	applyProductInput(product, in)

	if product.Slug == "" {
		details["slug"] = "must contain letters or digits"
	}
	checkPrices(product, details)
	if len(details) > 0 {
		return nil, apperr.Fields(details)
	}

	if err := s.categoryExists(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	if err := s.productKeysFree(ctx, product.Slug, product.SKU, 0); err != nil {
		return nil, err
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, writeErr(err, "create product")
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug, oldSKU, oldCategory := product.Slug, product.SKU, product.CategoryID

	details := map[string]string{}
	if in.Name != nil {
		if name := trimmed(in.Name); name != "" {
			product.Name = name
		} else {
			details["name"] = "cannot be empty"
		}
	}
	if in.Slug != nil {
		product.Slug = Slugify(*in.Slug)
		if product.Slug == "" {
			details["slug"] = "must contain letters or digits"
		}
	}
	if in.SKU != nil {
		product.SKU = strings.ToUpper(trimmed(in.SKU))
		if product.SKU == "" {
			details["sku"] = "cannot be empty"
		}
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	applyProductInput(product, in)
	checkPrices(product, details)
	if len(details) > 0 {
		return nil, apperr.Fields(details)
	}

	if product.CategoryID != oldCategory {
		if err := s.categoryExists(ctx, product.CategoryID); err != nil {
			return nil, err
		}
		product.Category = nil
	}
	slug, sku := "", ""
	if product.Slug != oldSlug {
		slug = product.Slug
	}
	if product.SKU != oldSKU {
		sku = product.SKU
	}
	if err := s.productKeysFree(ctx, slug, sku, product.ID); err != nil {
		return nil, err
	}

	product.UpdatedAt = s.now()
	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, writeErr(err, "update product")
	}
	return product, nil
}

// applyProductInput copies the optional fields shared by create and update.
func applyProductInput(product *models.Product, in ProductInput) {
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.ClearSalePrice {
		product.SalePrice = nil
	} else if in.SalePrice != nil {
		sale := *in.SalePrice
		product.SalePrice = &sale
	}
	if in.StockQuantity != nil {
		product.StockQuantity = *in.StockQuantity
	}
	if in.Images != nil {
		product.Images = pq.StringArray(*in.Images)
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		product.IsFeatured = *in.IsFeatured
	}
	if in.Weight != nil {
		product.Weight = optional(in.Weight)
	}
	if in.Dimensions != nil {
		product.Dimensions = optional(in.Dimensions)
	}
	if in.Warranty != nil {
		product.Warranty = optional(in.Warranty)
	}
	if in.Brand != nil {
		product.Brand = optional(in.Brand)
	}
	if in.Origin != nil {
		product.Origin = optional(in.Origin)
	}
	if in.AvailabilityStatus != nil {
		product.AvailabilityStatus = optional(in.AvailabilityStatus)
	}
	if in.KeyFeatures != nil {
		product.KeyFeatures = pq.StringArray(*in.KeyFeatures)
	}
	if in.BoxContents != nil {
		product.BoxContents = pq.StringArray(*in.BoxContents)
	}
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return apperr.Storage(err, "failed to delete product")
	}
	return nil
}
