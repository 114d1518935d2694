package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type minigameRequest struct {
	Score         int    `json:"score"`
	TimeCompleted int    `json:"time_completed" binding:"min=0"`
	Difficulty    string `json:"difficulty" binding:"required"`
}

// Profile returns the caller's user document.
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.Economy.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", user)
}

// EconomicSummary returns the cached economic overview.
func (h *Handler) EconomicSummary(c *gin.Context) {
	summary, err := h.Economy.Summary(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", summary)
}

// Cooldowns reports every action's gate state.
func (h *Handler) Cooldowns(c *gin.Context) {
	statuses, err := h.Economy.Cooldowns(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", statuses)
}

// Transactions returns recent coin movements.
func (h *Handler) Transactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	txs, err := h.Economy.Transactions(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", txs)
}

// ClaimDailyLogin grants the daily bonus.
func (h *Handler) ClaimDailyLogin(c *gin.Context) {
	result, err := h.Economy.ClaimDailyLogin(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "daily bonus claimed", result)
}

// SubmitMinigame rewards a minigame result.
func (h *Handler) SubmitMinigame(c *gin.Context) {
	var req minigameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	outcome, err := h.Economy.SubmitMinigame(c.Request.Context(), currentUser(c),
		req.Score, req.TimeCompleted, req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "minigame result recorded", outcome)
}
