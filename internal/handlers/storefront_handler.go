package handlers

import (
	"net/http"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/services"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const featuredLimit = 12

// StorefrontHandler serves the public, read-only catalog.
type StorefrontHandler struct {
	catalog   services.CatalogService
	districts services.DistrictService
	display   services.DisplayService
}

func NewStorefrontHandler(
	catalog services.CatalogService,
	districts services.DistrictService,
	display services.DisplayService,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalog:   catalog,
		districts: districts,
		display:   display,
	}
}

func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	page := parsePage(c)
	categories, total, err := h.catalog.ListCategories(c.Request.Context(), repository.CategoryFilter{
		ActiveOnly: true,
		Search:     strings.TrimSpace(c.Query("q")),
		Page:       page,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, categories, total, page)
}

func (h *StorefrontHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// productFilter reads the shared listing query parameters.
func productFilter(c *gin.Context) (repository.ProductFilter, bool) {
	filter := repository.ProductFilter{
		Search:       strings.TrimSpace(c.Query("q")),
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Sort:         models.ProductSort(c.Query("sort")),
		Page:         parsePage(c),
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "Invalid category_id")
			return filter, false
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	var ok bool
	if filter.Featured, ok = parseBool(c, "featured"); !ok {
		return filter, false
	}
	if filter.Active, ok = parseBool(c, "active"); !ok {
		return filter, false
	}

	for key, dst := range map[string]**decimal.Decimal{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			badRequest(c, "Invalid "+key)
			return filter, false
		}
		*dst = &v
	}
	return filter, true
}

func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	filter, ok := productFilter(c)
	if !ok {
		return
	}
	active := true
	filter.Active = &active

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, products, total, filter.Page)
}

func (h *StorefrontHandler) FeaturedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = featuredLimit
	}
	products, err := h.catalog.FeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *StorefrontHandler) ListDistricts(c *gin.Context) {
	districts, err := h.districts.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": districts})
}

func (h *StorefrontHandler) ListSliders(c *gin.Context) {
	sliders, err := h.display.ListSliders(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sliders})
}

func (h *StorefrontHandler) ListFeatures(c *gin.Context) {
	features, err := h.display.ListFeatures(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": features})
}
