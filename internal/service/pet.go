// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"petgame-backend/internal/cache"
	"petgame-backend/internal/config"
	"petgame-backend/internal/economy"
	"petgame-backend/internal/model"
	"petgame-backend/internal/pkg/lock"
	"petgame-backend/internal/repository"
)

// ActionResult is the outcome of a coin-earning pet action.
type ActionResult struct {
	Pet          *model.Pet  `json:"pet"`
	User         *model.User `json:"user"`
	CoinsEarned  int64       `json:"coins_earned"`
	LevelsGained int         `json:"levels_gained"`
	LevelBonus   int64       `json:"level_bonus"`
	Message      string      `json:"message,omitempty"`
}

// PetService handles pet lifecycle and the cooldown-gated pet actions.
type PetService struct {
	userRepo     *repository.UserRepository
	petRepo      *repository.PetRepository
	txRepo       *repository.TransactionRepository
	missions     *MissionService
	achievements *AchievementService
	cache        cache.Cache
	cacheTTL     *config.CacheConfig
	economy      *config.EconomyConfig
	userLock     *lock.UserLock
	now          func() time.Time
}

// NewPetService creates a new PetService instance.
func NewPetService(
	userRepo *repository.UserRepository,
	petRepo *repository.PetRepository,
	txRepo *repository.TransactionRepository,
	missions *MissionService,
	achievements *AchievementService,
	c cache.Cache,
	cacheTTL *config.CacheConfig,
	eco *config.EconomyConfig,
	userLock *lock.UserLock,
) *PetService {
	return &PetService{
		userRepo:     userRepo,
		petRepo:      petRepo,
		txRepo:       txRepo,
		missions:     missions,
		achievements: achievements,
		cache:        c,
		cacheTTL:     cacheTTL,
		economy:      eco,
		userLock:     userLock,
		now:          time.Now,
	}
}

// CreatePet creates a pet of a valid type with its type's fixed
// abilities.
func (s *PetService) CreatePet(ctx context.Context, userID int64, name, petType string) (*model.Pet, error) {
	if !model.ValidPetType(petType) {
		return nil, ErrInvalidPetType
	}

	pet, err := s.petRepo.Create(ctx, userID, name, petType, model.PetAbilities[petType])
	if err != nil {
		return nil, err
	}

	s.cache.Del(ctx, cache.UserPetsKey(userID))
	s.achievements.Evaluate(ctx, userID)
	return pet, nil
}

// ListPets returns the user's pets with decay applied for display. The
// cached pets stay untouched; callers get per-read snapshots so repeated
// reads within a TTL window do not compound decay.
func (s *PetService) ListPets(ctx context.Context, userID int64) ([]*model.Pet, error) {
	pets, err := cache.GetOrFetch(ctx, s.cache, cache.UserPetsKey(userID), s.cacheTTL.UserPetsTTL,
		func(ctx context.Context) ([]*model.Pet, error) {
			return s.petRepo.ListByOwner(ctx, userID)
		})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*model.Pet, len(pets))
	for i, p := range pets {
		out[i] = p.DecayedCopy(now)
	}
	return out, nil
}

// GetPet returns one pet, enforcing ownership.
func (s *PetService) GetPet(ctx context.Context, userID, petID int64) (*model.Pet, error) {
	pet, err := cache.GetOrFetch(ctx, s.cache, cache.PetDetailsKey(petID), s.cacheTTL.PetDetailsTTL,
		func(ctx context.Context) (*model.Pet, error) {
			return s.petRepo.GetByID(ctx, petID)
		})
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != userID {
		return nil, ErrNotPetOwner
	}

	return pet.DecayedCopy(s.now()), nil
}

// DeletePet removes a pet, enforcing ownership.
func (s *PetService) DeletePet(ctx context.Context, userID, petID int64) error {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if pet.OwnerID != userID {
		return ErrNotPetOwner
	}
	if err := s.petRepo.Delete(ctx, petID); err != nil {
		return err
	}
	s.cache.Del(ctx, cache.PetKeys(petID, userID)...)
	return nil
}

// Feed feeds a pet: hunger +20, happiness +10, xp +10, coins scaled by
// pet level. Gated by the feed cooldown.
func (s *PetService) Feed(ctx context.Context, userID, petID int64) (*ActionResult, error) {
	return s.performAction(ctx, userID, petID, model.ActionFeed, s.economy.FeedBaseCoins,
		model.TxTypeFeed, model.MissionTypeFeed,
		func(pet *model.Pet, now time.Time) (int, string) {
			return pet.Feed(now), "Pet fed!"
		})
}

// Play plays with a pet: happiness +20, hunger -5, xp +15, coins scaled
// by pet level. Gated by the play cooldown.
func (s *PetService) Play(ctx context.Context, userID, petID int64) (*ActionResult, error) {
	return s.performAction(ctx, userID, petID, model.ActionPlay, s.economy.PlayBaseCoins,
		model.TxTypePlay, model.MissionTypePlay,
		func(pet *model.Pet, now time.Time) (int, string) {
			return pet.Play(now), "Played with pet!"
		})
}

// UseAbility activates one of the pet's abilities. Gated by the shared
// ability cooldown; the pet must know the ability.
func (s *PetService) UseAbility(ctx context.Context, userID, petID int64, ability string) (*ActionResult, error) {
	effect, ok := model.AbilityEffects[ability]
	if !ok {
		return nil, ErrUnknownAbility
	}

	var result *ActionResult
	err := s.userLock.WithLock(userID, func() error {
		pet, err := s.loadOwnedPet(ctx, userID, petID)
		if err != nil {
			return err
		}
		if !pet.HasAbility(ability) {
			return ErrPetLacksAbility
		}

		now := s.now()
		if err := s.gate(ctx, userID, model.ActionAbility, now); err != nil {
			return err
		}

		pet.ApplyDecay(now)
		levels := pet.ApplyAbility(effect)
		if err := s.petRepo.Save(ctx, pet); err != nil {
			return err
		}

		coins := economy.LevelReward(s.economy.AbilityBaseCoins, pet.Level) + effect.Coins
		bonus := levelBonusFor(pet.Level, levels)
		user, err := s.userRepo.Credit(ctx, userID, coins+bonus, 0)
		if err != nil {
			return err
		}

		if err := s.userRepo.TouchCooldown(ctx, userID, model.ActionAbility, now); err != nil {
			return err
		}

		result = &ActionResult{
			Pet: pet, User: user,
			CoinsEarned: coins, LevelsGained: levels, LevelBonus: bonus,
			Message: effect.Message,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterAction(ctx, userID, petID, result,
		model.TxTypeAbility, fmt.Sprintf("Used ability: %s", ability), model.MissionTypeAbility)
	return result, nil
}

// performAction runs the shared feed/play flow under the per-user lock:
// cooldown gate, in-memory mutation, save, credit, cooldown touch.
func (s *PetService) performAction(
	ctx context.Context,
	userID, petID int64,
	action string,
	baseCoins int64,
	txType, missionType string,
	mutate func(*model.Pet, time.Time) (int, string),
) (*ActionResult, error) {
	var result *ActionResult
	err := s.userLock.WithLock(userID, func() error {
		pet, err := s.loadOwnedPet(ctx, userID, petID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := s.gate(ctx, userID, action, now); err != nil {
			return err
		}

		levels, message := mutate(pet, now)
		if err := s.petRepo.Save(ctx, pet); err != nil {
			return err
		}

		coins := economy.LevelReward(baseCoins, pet.Level)
		bonus := levelBonusFor(pet.Level, levels)
		user, err := s.userRepo.Credit(ctx, userID, coins+bonus, 0)
		if err != nil {
			return err
		}

		if err := s.userRepo.TouchCooldown(ctx, userID, action, now); err != nil {
			return err
		}

		result = &ActionResult{
			Pet: pet, User: user,
			CoinsEarned: coins, LevelsGained: levels, LevelBonus: bonus,
			Message: message,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterAction(ctx, userID, petID, result, txType, result.Message, missionType)
	return result, nil
}

// gate rejects the action while its cooldown is running.
func (s *PetService) gate(ctx context.Context, userID int64, action string, now time.Time) error {
	last, err := s.userRepo.GetCooldown(ctx, userID, action)
	if err != nil {
		return err
	}
	cooldown := s.economy.CooldownFor(action)
	if !economy.CanPerform(last, cooldown, now) {
		return &CooldownError{
			Action:           action,
			MinutesRemaining: economy.RemainingMinutes(last, cooldown, now),
		}
	}
	return nil
}

func (s *PetService) loadOwnedPet(ctx context.Context, userID, petID int64) (*model.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != userID {
		return nil, ErrNotPetOwner
	}
	return pet, nil
}

// afterAction runs the best-effort follow-ups once the action committed:
// transaction log, cache invalidation, mission progress and achievement
// evaluation. None of these can fail the action.
func (s *PetService) afterAction(ctx context.Context, userID, petID int64, result *ActionResult, txType, description, missionType string) {
	if err := s.txRepo.Record(ctx, userID, result.CoinsEarned, txType, description); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("type", txType).
			Msg("Failed to record action transaction")
	}
	if result.LevelBonus > 0 {
		if err := s.txRepo.Record(ctx, userID, result.LevelBonus, model.TxTypeLevelBonus,
			fmt.Sprintf("Pet reached level %d", result.Pet.Level)); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record level bonus transaction")
		}
	}

	keys := append(cache.PetKeys(petID, userID), cache.UserProfileKey(userID), cache.UserEconomicKey(userID))
	s.cache.Del(ctx, keys...)

	s.missions.TrackEvent(ctx, userID, missionType, 1)
	s.missions.TrackEvent(ctx, userID, model.MissionTypeEarnCoins, result.CoinsEarned+result.LevelBonus)
	if result.LevelsGained > 0 {
		s.missions.TrackEvent(ctx, userID, model.MissionTypeLevelUpPets, int64(result.LevelsGained))
	}
	s.achievements.Evaluate(ctx, userID)
}

// levelBonusFor sums the level-up bonus for each level just reached.
func levelBonusFor(levelAfter, levelsGained int) int64 {
	var bonus int64
	for l := levelAfter - levelsGained + 1; l <= levelAfter; l++ {
		bonus += economy.LevelUpBonus(l)
	}
	return bonus
}
