package handlers

import (
	"net/http"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts services.CartService
}

func NewCartHandler(carts services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addToCartRequest struct {
	SessionID string `json:"session_id"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartRequest struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	Quantity  *int   `json:"quantity"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	summary, err := h.carts.Summary(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProductID == 0 {
		badRequest(c, "product_id is required")
		return
	}

	item, err := h.carts.Add(c.Request.Context(), req.SessionID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ItemID == "" || req.Quantity == nil {
		badRequest(c, "item_id and quantity are required")
		return
	}

	item, err := h.carts.Update(c.Request.Context(), req.SessionID, req.ItemID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusOK, gin.H{"removed": req.ItemID})
		return
	}
	c.JSON(http.StatusOK, item)
}

// RemoveItem deletes one line when item_id is given, otherwise clears the cart.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := c.Query("session_id")
	itemID := c.Query("item_id")

	var err error
	if itemID != "" {
		err = h.carts.Remove(c.Request.Context(), sessionID, itemID)
	} else {
		err = h.carts.Clear(c.Request.Context(), sessionID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
