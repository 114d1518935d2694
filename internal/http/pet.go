package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createPetRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
	Type string `json:"type" binding:"required"`
}

type useAbilityRequest struct {
	Ability string `json:"ability" binding:"required"`
}

func petIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid pet id"})
		return 0, false
	}
	return id, true
}

// CreatePet creates a pet for the caller.
func (h *Handler) CreatePet(c *gin.Context) {
	var req createPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	pet, err := h.Pets.CreatePet(c.Request.Context(), currentUser(c), req.Name, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "pet created", pet)
}

// ListPets returns the caller's pets.
func (h *Handler) ListPets(c *gin.Context) {
	pets, err := h.Pets.ListPets(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", pets)
}

// GetPet returns one of the caller's pets.
func (h *Handler) GetPet(c *gin.Context) {
	petID, ok := petIDParam(c)
	if !ok {
		return
	}
	pet, err := h.Pets.GetPet(c.Request.Context(), currentUser(c), petID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", pet)
}

// DeletePet removes one of the caller's pets.
func (h *Handler) DeletePet(c *gin.Context) {
	petID, ok := petIDParam(c)
	if !ok {
		return
	}
	if err := h.Pets.DeletePet(c.Request.Context(), currentUser(c), petID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "pet deleted", nil)
}

// FeedPet runs the feed action.
func (h *Handler) FeedPet(c *gin.Context) {
	petID, ok := petIDParam(c)
	if !ok {
		return
	}
	result, err := h.Pets.Feed(c.Request.Context(), currentUser(c), petID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result.Message, result)
}

// PlayPet runs the play action.
func (h *Handler) PlayPet(c *gin.Context) {
	petID, ok := petIDParam(c)
	if !ok {
		return
	}
	result, err := h.Pets.Play(c.Request.Context(), currentUser(c), petID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result.Message, result)
}

// UseAbility activates a pet ability.
func (h *Handler) UseAbility(c *gin.Context) {
	petID, ok := petIDParam(c)
	if !ok {
		return
	}
	var req useAbilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	result, err := h.Pets.UseAbility(c.Request.Context(), currentUser(c), petID, req.Ability)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result.Message, result)
}
