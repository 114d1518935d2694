package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type purchaseRequest struct {
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

type useItemRequest struct {
	ItemID int64 `json:"item_id" binding:"required"`
	PetID  int64 `json:"pet_id" binding:"required"`
}

// ListItems returns the catalog with effective prices for the caller.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.Shop.ListItems(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", items)
}

// Purchase buys an item.
func (h *Handler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.Shop.Purchase(c.Request.Context(), currentUser(c), req.ItemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "purchase completed", result)
}

// Inventory returns the caller's inventory.
func (h *Handler) Inventory(c *gin.Context) {
	entries, err := h.Shop.Inventory(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", entries)
}

// UseItem consumes an inventory item on a pet.
func (h *Handler) UseItem(c *gin.Context) {
	var req useItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	result, err := h.Shop.UseItem(c.Request.Context(), currentUser(c), req.ItemID, req.PetID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "item used", result)
}
