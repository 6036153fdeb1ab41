package services

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func uintPtr(v uint) *uint { return &v }

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestCreateCategory(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(store, models.CategoryDeleteRestrict)
	ctx := context.Background()

	category, err := catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("  Home & Kitchen ")})
	require.NoError(t, err)
	assert.Equal(t, "Home & Kitchen", category.Name)
	assert.Equal(t, "home-kitchen", category.Slug)
	assert.True(t, category.IsActive)

	_, err = catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Home Kitchen")})
	assert.True(t, apperr.Is(err, apperr.KindConflict), err)

	_, err = catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("!!!")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateCategorySlugUniqueness(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(store, models.CategoryDeleteRestrict)
	ctx := context.Background()

	phones, err := catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Phones")})
	require.NoError(t, err)
	_, err = catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Laptops")})
	require.NoError(t, err)

	_, err = catalog.UpdateCategory(ctx, phones.ID, CategoryInput{Slug: strPtr("laptops")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	// Keeping the same slug is not a conflict with itself.
	updated, err := catalog.UpdateCategory(ctx, phones.ID, CategoryInput{Slug: strPtr("phones"), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = catalog.GetCategoryBySlug(ctx, "phones")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = catalog.UpdateCategory(ctx, 404, CategoryInput{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteCategoryPolicies(t *testing.T) {
	ctx := context.Background()
	setup := func(policy models.CategoryDeletePolicy) (*memStore, CatalogService, *models.Category, *models.Product) {
		store := newMemStore()
		catalog := NewCatalogService(store, policy)
		category, err := catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Phones")})
		require.NoError(t, err)
		product, err := catalog.CreateProduct(ctx, ProductInput{
			Name:       strPtr("Phone A"),
			Price:      decPtr("1000"),
			CategoryID: &category.ID,
		})
		require.NoError(t, err)
		return store, catalog, category, product
	}

	t.Run("restrict", func(t *testing.T) {
		store, catalog, category, _ := setup(models.CategoryDeleteRestrict)
		err := catalog.DeleteCategory(ctx, category.ID)
		assert.True(t, apperr.Is(err, apperr.KindConflict), err)
		assert.Len(t, store.categories, 1)
		assert.Len(t, store.products, 1)
	})

	t.Run("cascade", func(t *testing.T) {
		store, catalog, category, _ := setup(models.CategoryDeleteCascade)
		require.NoError(t, catalog.DeleteCategory(ctx, category.ID))
		assert.Empty(t, store.categories)
		assert.Empty(t, store.products)
	})

	t.Run("cascade rolls back on failure", func(t *testing.T) {
		store, catalog, category, _ := setup(models.CategoryDeleteCascade)
		store.beforeCommit = func() error { return errors.New("connection reset") }
		err := catalog.DeleteCategory(ctx, category.ID)
		require.Error(t, err)
		assert.Len(t, store.categories, 1)
		assert.Len(t, store.products, 1)
	})

	t.Run("empty category", func(t *testing.T) {
		store := newMemStore()
		catalog := NewCatalogService(store, "")
		category, err := catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Empty")})
		require.NoError(t, err)
		require.NoError(t, catalog.DeleteCategory(ctx, category.ID))
		assert.True(t, apperr.Is(catalog.DeleteCategory(ctx, category.ID), apperr.KindNotFound))
	})
}

func TestCreateProduct(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(store, models.CategoryDeleteRestrict)
	ctx := context.Background()
	category, err := catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Phones")})
	require.NoError(t, err)

	product, err := catalog.CreateProduct(ctx, ProductInput{
		Name:          strPtr("Samsung Galaxy S23"),
		Price:         decPtr("1000"),
		SalePrice:     decPtr("900"),
		StockQuantity: intPtr(5),
		CategoryID:    &category.ID,
		Images:        &[]string{"https://cdn.example.com/s23.jpg"},
		Brand:         strPtr("Samsung"),
	})
	require.NoError(t, err)
	assert.Equal(t, "samsung-galaxy-s23", product.Slug)
	assert.Regexp(t, `^SAM-GAL-S23-[0-9A-Z]+$`, product.SKU)
	assert.True(t, product.EffectivePrice().Equal(decimal.NewFromInt(900)))
	assert.True(t, product.IsActive)
	assert.Equal(t, 5, product.StockQuantity)
	assert.Equal(t, []string{"https://cdn.example.com/s23.jpg"}, []string(product.Images))

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := catalog.CreateProduct(ctx, ProductInput{
			Name: strPtr("Samsung Galaxy S23"), Price: decPtr("1"), CategoryID: &category.ID, SKU: strPtr("OTHER-1"),
		})
		assert.True(t, apperr.Is(err, apperr.KindConflict), err)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		_, err := catalog.CreateProduct(ctx, ProductInput{
			Name: strPtr("Another"), Price: decPtr("1"), CategoryID: &category.ID, SKU: strPtr(product.SKU),
		})
		assert.True(t, apperr.Is(err, apperr.KindConflict), err)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := catalog.CreateProduct(ctx, ProductInput{Name: strPtr("Orphan"), Price: decPtr("1"), CategoryID: uintPtr(999)})
		assert.True(t, apperr.Is(err, apperr.KindNotFound), err)
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, err := catalog.CreateProduct(ctx, ProductInput{
			Name: strPtr("Bad"), Price: decPtr("100"), SalePrice: decPtr("150"),
			StockQuantity: intPtr(-1), CategoryID: &category.ID,
		})
		var appErr *apperr.Error
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Details, "sale_price")
		assert.Contains(t, appErr.Details, "stock_quantity")

		_, err = catalog.CreateProduct(ctx, ProductInput{})
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Details, "name")
		assert.Contains(t, appErr.Details, "price")
		assert.Contains(t, appErr.Details, "category_id")
	})
}

func TestUpdateProduct(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(store, models.CategoryDeleteRestrict)
	ctx := context.Background()
	category, err := catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Phones")})
	require.NoError(t, err)
	a, err := catalog.CreateProduct(ctx, ProductInput{Name: strPtr("Phone A"), Price: decPtr("1000"), SalePrice: decPtr("900"), CategoryID: &category.ID})
	require.NoError(t, err)
	b, err := catalog.CreateProduct(ctx, ProductInput{Name: strPtr("Phone B"), Price: decPtr("500"), CategoryID: &category.ID, SKU: strPtr("PHB-1")})
	require.NoError(t, err)

	// Lowering the price below the existing sale price is caught on merged values.
	_, err = catalog.UpdateProduct(ctx, a.ID, ProductInput{Price: decPtr("800")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	updated, err := catalog.UpdateProduct(ctx, a.ID, ProductInput{Price: decPtr("800"), ClearSalePrice: true})
	require.NoError(t, err)
	assert.Nil(t, updated.SalePrice)
	assert.True(t, updated.EffectivePrice().Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "phone-a", updated.Slug)

	_, err = catalog.UpdateProduct(ctx, a.ID, ProductInput{Slug: strPtr("Phone B")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = catalog.UpdateProduct(ctx, a.ID, ProductInput{SKU: strPtr("phb-1")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = catalog.UpdateProduct(ctx, b.ID, ProductInput{CategoryID: uintPtr(999)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	unchanged, err := catalog.UpdateProduct(ctx, b.ID, ProductInput{SKU: strPtr("PHB-1"), IsFeatured: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, unchanged.IsFeatured)
}

func TestListProducts(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(store, models.CategoryDeleteRestrict)
	ctx := context.Background()
	category, err := catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Phones")})
	require.NoError(t, err)
	for _, p := range []ProductInput{
		{Name: strPtr("Alpha"), Price: decPtr("300"), CategoryID: &category.ID, IsFeatured: boolPtr(true)},
		{Name: strPtr("Bravo"), Price: decPtr("100"), CategoryID: &category.ID},
		{Name: strPtr("Charlie"), Price: decPtr("500"), SalePrice: decPtr("200"), CategoryID: &category.ID, IsFeatured: boolPtr(true)},
		{Name: strPtr("Delta"), Price: decPtr("50"), CategoryID: &category.ID, IsActive: boolPtr(false), IsFeatured: boolPtr(true)},
	} {
		_, err := catalog.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	active := true
	products, total, err := catalog.ListProducts(ctx, repository.ProductFilter{
		Active:   &active,
		MinPrice: decPtr("150"),
		Sort:     models.SortPriceAsc,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, "Charlie", products[0].Name)
	assert.Equal(t, "Alpha", products[1].Name)

	featured, err := catalog.FeaturedProducts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	_, _, err = catalog.ListProducts(ctx, repository.ProductFilter{Sort: "popular"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, _, err = catalog.ListProducts(ctx, repository.ProductFilter{MinPrice: decPtr("10"), MaxPrice: decPtr("5")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = catalog.GetProductBySlug(ctx, "delta")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	got, err := catalog.GetProductBySlug(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
}
