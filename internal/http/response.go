// Package http exposes the engine over a JSON API.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"petgame-backend/internal/economy"
	"petgame-backend/internal/repository"
	"petgame-backend/internal/service"
)

// envelope is the uniform response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// respondError maps service and repository errors to HTTP statuses.
// Unknown errors become a sanitized 500.
func respondError(c *gin.Context, err error) {
	var cooldownErr *service.CooldownError
	if errors.As(err, &cooldownErr) {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: cooldownErr.Error()})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrPetNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrMissionNotFound),
		errors.Is(err, repository.ErrAchievementNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrNotPetOwner):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidPetType),
		errors.Is(err, service.ErrPetLacksAbility),
		errors.Is(err, service.ErrUnknownAbility),
		errors.Is(err, service.ErrItemIncompatible),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrInvalidDifficulty),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, economy.ErrInsufficientFunds),
		errors.Is(err, economy.ErrLimitExceeded),
		errors.Is(err, service.ErrAchievementUnlocked),
		errors.Is(err, repository.ErrMissionClaimed),
		errors.Is(err, repository.ErrMissionIncomplete),
		errors.Is(err, repository.ErrInventoryEmpty):
		status, message = http.StatusBadRequest, err.Error()
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}

	c.JSON(status, envelope{Success: false, Message: message})
}
