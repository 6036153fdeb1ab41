package handlers

import (
	"net/http"
	"storefront/internal/repository"
	"storefront/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

// Districts

func (h *AdminHandler) ListDistricts(c *gin.Context) {
	districts, err := h.districts.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": districts})
}

func (h *AdminHandler) GetDistrict(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	district, err := h.districts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, district)
}

func (h *AdminHandler) CreateDistrict(c *gin.Context) {
	var req services.DistrictInput
	if !bindJSON(c, &req) {
		return
	}
	district, err := h.districts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, district)
}

func (h *AdminHandler) UpdateDistrict(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.DistrictInput
	if !bindJSON(c, &req) {
		return
	}
	district, err := h.districts.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, district)
}

func (h *AdminHandler) DeleteDistrict(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.districts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Customers

func (h *AdminHandler) ListCustomers(c *gin.Context) {
	page := parsePage(c)
	customers, total, err := h.customers.List(c.Request.Context(), repository.CustomerFilter{
		Search:     strings.TrimSpace(c.Query("q")),
		ActiveOnly: c.Query("active") == "true",
		Page:       page,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, customers, total, page)
}

func (h *AdminHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *AdminHandler) CreateCustomer(c *gin.Context) {
	var req services.CustomerInput
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *AdminHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.CustomerInput
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *AdminHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sliders

func (h *AdminHandler) ListSliders(c *gin.Context) {
	sliders, err := h.display.ListSliders(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sliders})
}

func (h *AdminHandler) GetSlider(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	slider, err := h.display.GetSlider(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slider)
}

func (h *AdminHandler) CreateSlider(c *gin.Context) {
	var req services.SliderInput
	if !bindJSON(c, &req) {
		return
	}
	slider, err := h.display.CreateSlider(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slider)
}

func (h *AdminHandler) UpdateSlider(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.SliderInput
	if !bindJSON(c, &req) {
		return
	}
	slider, err := h.display.UpdateSlider(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slider)
}

func (h *AdminHandler) DeleteSlider(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.display.DeleteSlider(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Promotional features

func (h *AdminHandler) ListFeatures(c *gin.Context) {
	features, err := h.display.ListFeatures(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": features})
}

func (h *AdminHandler) GetFeature(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	feature, err := h.display.GetFeature(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feature)
}

func (h *AdminHandler) CreateFeature(c *gin.Context) {
	var req services.FeatureInput
	if !bindJSON(c, &req) {
		return
	}
	feature, err := h.display.CreateFeature(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feature)
}

func (h *AdminHandler) UpdateFeature(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.FeatureInput
	if !bindJSON(c, &req) {
		return
	}
	feature, err := h.display.UpdateFeature(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feature)
}

func (h *AdminHandler) DeleteFeature(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.display.DeleteFeature(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
