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
	"petgame-backend/internal/repository"
)

// DailyLoginResult is the outcome of a daily bonus claim.
type DailyLoginResult struct {
	User       *model.User `json:"user"`
	Streak     int         `json:"streak"`
	Multiplier float64     `json:"multiplier"`
	Reward     int64       `json:"reward"`
}

// MinigameOutcome is the outcome of a submitted minigame result.
type MinigameOutcome struct {
	User       *model.User `json:"user"`
	Reward     int64       `json:"reward"`
	Multiplier float64     `json:"multiplier"`
	IsWin      bool        `json:"is_win"`
}

// CooldownStatus reports one action's gate state.
type CooldownStatus struct {
	CanPerform       bool `json:"can_perform"`
	MinutesRemaining int  `json:"minutes_remaining"`
}

// EconomicSummary is the cached per-user economic overview.
type EconomicSummary struct {
	Coins            int64                     `json:"coins"`
	XP               int64                     `json:"xp"`
	Level            int                       `json:"level"`
	DailyLoginStreak int                       `json:"daily_login_streak"`
	DailyCoinsEarned int64                     `json:"daily_coins_earned"`
	DailyCoinsSpent  int64                     `json:"daily_coins_spent"`
	PurchasesToday   map[string]int            `json:"purchases_today"`
	Cooldowns        map[string]CooldownStatus `json:"cooldowns"`
	LifetimeByType   map[string]int64          `json:"lifetime_by_type"`
}

// EconomyService handles the non-pet coin flows: daily login bonus,
// minigame rewards and the economic summary.
type EconomyService struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	missions *MissionService
	cache    cache.Cache
	cacheTTL *config.CacheConfig
	economy  *config.EconomyConfig
	now      func() time.Time
}

// NewEconomyService creates a new EconomyService instance.
func NewEconomyService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	missions *MissionService,
	c cache.Cache,
	cacheTTL *config.CacheConfig,
	eco *config.EconomyConfig,
) *EconomyService {
	return &EconomyService{
		userRepo: userRepo,
		txRepo:   txRepo,
		missions: missions,
		cache:    c,
		cacheTTL: cacheTTL,
		economy:  eco,
		now:      time.Now,
	}
}

// ClaimDailyLogin grants the streak-scaled login bonus, once per 24h.
func (s *EconomyService) ClaimDailyLogin(ctx context.Context, userID int64) (*DailyLoginResult, error) {
	now := s.now()
	last, err := s.userRepo.GetCooldown(ctx, userID, model.ActionDailyLogin)
	if err != nil {
		return nil, err
	}
	cooldown := s.economy.DailyLoginCooldown
	if !economy.CanPerform(last, cooldown, now) {
		return nil, &CooldownError{
			Action:           model.ActionDailyLogin,
			MinutesRemaining: economy.RemainingMinutes(last, cooldown, now),
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.ResetDailyIfStale(ctx, userID); err != nil {
		return nil, err
	}

	streak := economy.NextStreak(user.DailyLoginStreak, user.LastLogin, now)
	reward := economy.DailyLoginReward(s.economy.DailyLoginBaseCoins, streak)

	user, err = s.userRepo.Credit(ctx, userID, reward, 0)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.RecordLogin(ctx, userID, streak, now); err != nil {
		return nil, err
	}
	if err := s.userRepo.TouchCooldown(ctx, userID, model.ActionDailyLogin, now); err != nil {
		return nil, err
	}
	user.DailyLoginStreak = streak
	user.LastLogin = &now

	s.afterEarn(ctx, userID, reward, model.TxTypeDailyLogin,
		fmt.Sprintf("Daily login bonus (streak %d)", streak))

	return &DailyLoginResult{
		User:       user,
		Streak:     streak,
		Multiplier: economy.StreakMultiplier(streak),
		Reward:     reward,
	}, nil
}

// SubmitMinigame validates and rewards a minigame result.
func (s *EconomyService) SubmitMinigame(ctx context.Context, userID int64, score, timeCompleted int, difficulty string) (*MinigameOutcome, error) {
	if score < 0 || score > 100 {
		return nil, ErrInvalidScore
	}
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		return nil, ErrInvalidDifficulty
	}

	now := s.now()
	last, err := s.userRepo.GetCooldown(ctx, userID, model.ActionMinigame)
	if err != nil {
		return nil, err
	}
	cooldown := s.economy.MinigameCooldown
	if !economy.CanPerform(last, cooldown, now) {
		return nil, &CooldownError{
			Action:           model.ActionMinigame,
			MinutesRemaining: economy.RemainingMinutes(last, cooldown, now),
		}
	}

	result := economy.MinigameReward(s.economy.MinigameBaseCoins, score, timeCompleted, difficulty)

	user, err := s.userRepo.Credit(ctx, userID, result.Reward, 0)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.TouchCooldown(ctx, userID, model.ActionMinigame, now); err != nil {
		return nil, err
	}

	s.afterEarn(ctx, userID, result.Reward, model.TxTypeMinigame,
		fmt.Sprintf("Minigame reward (%s, score %d)", difficulty, score))
	if result.IsWin {
		s.missions.TrackEvent(ctx, userID, model.MissionTypeWinMinigame, 1)
	}

	return &MinigameOutcome{
		User:       user,
		Reward:     result.Reward,
		Multiplier: result.Multiplier,
		IsWin:      result.IsWin,
	}, nil
}

// Cooldowns reports the gate state of every action kind.
func (s *EconomyService) Cooldowns(ctx context.Context, userID int64) (map[string]CooldownStatus, error) {
	lasts, err := s.userRepo.GetCooldowns(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	statuses := make(map[string]CooldownStatus, 5)
	for _, action := range model.ActionKinds() {
		var last *time.Time
		if t, ok := lasts[action]; ok {
			last = &t
		}
		cooldown := s.economy.CooldownFor(action)
		statuses[action] = CooldownStatus{
			CanPerform:       economy.CanPerform(last, cooldown, now),
			MinutesRemaining: economy.RemainingMinutes(last, cooldown, now),
		}
	}
	return statuses, nil
}

// Summary returns the cached economic overview for a user.
func (s *EconomyService) Summary(ctx context.Context, userID int64) (*EconomicSummary, error) {
	if err := s.userRepo.ResetDailyIfStale(ctx, userID); err != nil {
		return nil, err
	}

	return cache.GetOrFetch(ctx, s.cache, cache.UserEconomicKey(userID), s.cacheTTL.UserEconomicTTL,
		func(ctx context.Context) (*EconomicSummary, error) {
			user, err := s.userRepo.GetByID(ctx, userID)
			if err != nil {
				return nil, err
			}
			purchases, err := s.userRepo.GetDailyPurchases(ctx, userID)
			if err != nil {
				return nil, err
			}
			cooldowns, err := s.Cooldowns(ctx, userID)
			if err != nil {
				return nil, err
			}
			sums, err := s.txRepo.SumByType(ctx, userID)
			if err != nil {
				return nil, err
			}
			return &EconomicSummary{
				Coins:            user.Coins,
				XP:               user.XP,
				Level:            user.Level,
				DailyLoginStreak: user.DailyLoginStreak,
				DailyCoinsEarned: user.DailyCoinsEarned,
				DailyCoinsSpent:  user.DailyCoinsSpent,
				PurchasesToday:   purchases,
				Cooldowns:        cooldowns,
				LifetimeByType:   sums,
			}, nil
		})
}

// GetProfile returns the cached user document.
func (s *EconomyService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.UserProfileKey(userID), s.cacheTTL.UserProfileTTL,
		func(ctx context.Context) (*model.User, error) {
			return s.userRepo.GetByID(ctx, userID)
		})
}

// Transactions returns the user's recent coin movements.
func (s *EconomyService) Transactions(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.txRepo.ListRecent(ctx, userID, limit)
}

// RunMaintenance prunes stale daily bookkeeping rows. Invoked
// periodically from main.
func (s *EconomyService) RunMaintenance(ctx context.Context) {
	purged, err := s.userRepo.CleanOldDailyPurchases(ctx, s.economy.MissionRetentionDays)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to clean old purchase history")
	} else if purged > 0 {
		log.Info().Int64("rows", purged).Msg("Cleaned old purchase history")
	}

	pruned, err := s.missions.Prune(ctx, s.economy.MissionRetentionDays)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to prune mission progress")
	} else if pruned > 0 {
		log.Info().Int64("rows", pruned).Msg("Pruned old mission progress")
	}
}

// afterEarn logs the transaction, invalidates caches and advances
// earn-coins missions. Best-effort.
func (s *EconomyService) afterEarn(ctx context.Context, userID, amount int64, txType, description string) {
	if err := s.txRepo.Record(ctx, userID, amount, txType, description); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("type", txType).
			Msg("Failed to record transaction")
	}
	s.cache.Del(ctx, cache.UserProfileKey(userID), cache.UserEconomicKey(userID))
	s.missions.TrackEvent(ctx, userID, model.MissionTypeEarnCoins, amount)
}
