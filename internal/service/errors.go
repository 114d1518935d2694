package service

import (
	"errors"
	"fmt"
)

// Common errors for service operations.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username or email already registered")
	ErrInvalidPetType     = errors.New("invalid pet type")
	ErrNotPetOwner        = errors.New("pet belongs to another user")
	ErrPetLacksAbility    = errors.New("pet does not have this ability")
	ErrUnknownAbility     = errors.New("unknown ability")
	ErrItemIncompatible   = errors.New("item not compatible with this pet type")
	ErrInvalidScore       = errors.New("score must be between 0 and 100")
	ErrInvalidDifficulty  = errors.New("difficulty must be easy, medium or hard")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")

	ErrAchievementUnlocked = errors.New("achievement already unlocked")
)

// CooldownError reports that an action is still cooling down.
type CooldownError struct {
	Action           string
	MinutesRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s is on cooldown for %d more minute(s)", e.Action, e.MinutesRemaining)
}
