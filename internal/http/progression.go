package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListMissions returns active missions with today's progress.
func (h *Handler) ListMissions(c *gin.Context) {
	statuses, err := h.Missions.ListDaily(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", statuses)
}

// CompleteMission advances a mission by one step for the caller.
func (h *Handler) CompleteMission(c *gin.Context) {
	code := c.Param("code")
	status, err := h.Missions.Complete(c.Request.Context(), currentUser(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", status)
}

// ClaimMission acknowledges a completed mission's reward. Completion
// already credited it; the claim credits only when that payout failed.
func (h *Handler) ClaimMission(c *gin.Context) {
	code := c.Param("code")
	user, err := h.Missions.Claim(c.Request.Context(), currentUser(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "mission reward claimed", user)
}

// ListAchievements returns all achievements with the caller's unlocks.
func (h *Handler) ListAchievements(c *gin.Context) {
	views, err := h.Achievements.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", views)
}

// UnlockAchievement unlocks one achievement by code and credits its
// reward.
func (h *Handler) UnlockAchievement(c *gin.Context) {
	code := c.Param("code")
	result, err := h.Achievements.UnlockByCode(c.Request.Context(), currentUser(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "achievement unlocked", result)
}
