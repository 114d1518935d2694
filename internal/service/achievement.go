package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"petgame-backend/internal/cache"
	"petgame-backend/internal/model"
	"petgame-backend/internal/repository"
)

// achievementPredicate decides whether a user's pet aggregates satisfy
// an achievement.
type achievementPredicate func(*repository.OwnerStats) bool

// predicates maps achievement codes to their unlock conditions.
var predicates = map[string]achievementPredicate{
	"first_pet":  func(s *repository.OwnerStats) bool { return s.PetCount >= 1 },
	"pet_lover":  func(s *repository.OwnerStats) bool { return s.PetCount >= 5 },
	"feeder":     func(s *repository.OwnerStats) bool { return s.TotalFeeds >= 100 },
	"player":     func(s *repository.OwnerStats) bool { return s.TotalPlays >= 100 },
	"pet_master": func(s *repository.OwnerStats) bool { return s.MaxLevel >= 10 },
	"trainer":    func(s *repository.OwnerStats) bool { return s.TotalXP >= 1000 },
}

// AchievementView is one achievement template with the user's unlock
// state.
type AchievementView struct {
	Template   *model.AchievementTemplate `json:"template"`
	Unlocked   bool                       `json:"unlocked"`
	UnlockedAt *time.Time                 `json:"unlocked_at,omitempty"`
}

// AchievementService evaluates unlock predicates after actions and
// credits rewards at most once per (user, achievement).
type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	petRepo         *repository.PetRepository
	userRepo        *repository.UserRepository
	txRepo          *repository.TransactionRepository
	cache           cache.Cache
	cacheTTL        time.Duration
}

// NewAchievementService creates a new AchievementService instance.
func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	petRepo *repository.PetRepository,
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	c cache.Cache,
	cacheTTL time.Duration,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		petRepo:         petRepo,
		userRepo:        userRepo,
		txRepo:          txRepo,
		cache:           c,
		cacheTTL:        cacheTTL,
	}
}

// List returns every achievement with the user's unlock state. The
// unlocked set is served through the entity cache.
func (s *AchievementService) List(ctx context.Context, userID int64) ([]*AchievementView, error) {
	templates, err := s.achievementRepo.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	unlocked, err := cache.GetOrFetch(ctx, s.cache, cache.UserAchievementsKey(userID), s.cacheTTL,
		func(ctx context.Context) ([]*model.UserAchievement, error) {
			return s.achievementRepo.ListUnlocked(ctx, userID)
		})
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*model.UserAchievement, len(unlocked))
	for _, a := range unlocked {
		byCode[a.Code] = a
	}

	views := make([]*AchievementView, 0, len(templates))
	for _, t := range templates {
		view := &AchievementView{Template: t}
		if a, ok := byCode[t.Code]; ok {
			view.Unlocked = true
			at := a.UnlockedAt
			view.UnlockedAt = &at
		}
		views = append(views, view)
	}
	return views, nil
}

// Evaluate checks every predicate against the user's current pet
// aggregates and unlocks whatever newly qualifies. Called after actions
// commit; failures are logged and swallowed. Returns the codes unlocked
// by this call.
func (s *AchievementService) Evaluate(ctx context.Context, userID int64) []string {
	stats, err := s.petRepo.GetOwnerStats(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to load pet stats for achievements")
		return nil
	}
	already, err := s.achievementRepo.UnlockedSet(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to load unlocked achievements")
		return nil
	}

	var newlyUnlocked []string
	for code, qualifies := range predicates {
		if already[code] || !qualifies(stats) {
			continue
		}
		inserted, err := s.achievementRepo.Unlock(ctx, userID, code)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Str("achievement", code).
				Msg("Failed to unlock achievement")
			continue
		}
		if !inserted {
			continue
		}
		newlyUnlocked = append(newlyUnlocked, code)
		t, err := s.achievementRepo.GetTemplate(ctx, code)
		if err == nil {
			err = s.reward(ctx, userID, t)
		}
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Str("achievement", code).
				Msg("Failed to credit achievement reward")
		}
	}

	if len(newlyUnlocked) > 0 {
		s.cache.Del(ctx, cache.UserKeys(userID)...)
	}
	return newlyUnlocked
}

// UnlockResult is the outcome of an explicit unlock call.
type UnlockResult struct {
	Achievement *model.AchievementTemplate `json:"achievement"`
	RewardCoins int64                      `json:"reward_coins"`
	RewardXP    int64                      `json:"reward_xp"`
}

// UnlockByCode unlocks one achievement directly and credits its reward.
// Unknown codes return repository.ErrAchievementNotFound; a repeat
// unlock returns ErrAchievementUnlocked.
func (s *AchievementService) UnlockByCode(ctx context.Context, userID int64, code string) (*UnlockResult, error) {
	t, err := s.achievementRepo.GetTemplate(ctx, code)
	if err != nil {
		return nil, err
	}

	inserted, err := s.achievementRepo.Unlock(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrAchievementUnlocked
	}

	if err := s.reward(ctx, userID, t); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("achievement", code).
			Msg("Failed to credit achievement reward")
	}
	s.cache.Del(ctx, cache.UserKeys(userID)...)
	return &UnlockResult{Achievement: t, RewardCoins: t.RewardCoins, RewardXP: t.RewardXP}, nil
}

// reward credits the template's coins and xp. The Unlock insert already
// guaranteed this runs at most once per achievement.
func (s *AchievementService) reward(ctx context.Context, userID int64, t *model.AchievementTemplate) error {
	if _, err := s.userRepo.Credit(ctx, userID, t.RewardCoins, t.RewardXP); err != nil {
		return fmt.Errorf("failed to credit achievement reward: %w", err)
	}
	if err := s.txRepo.Record(ctx, userID, t.RewardCoins, model.TxTypeAchievement,
		fmt.Sprintf("Achievement unlocked: %s", t.Name)); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record achievement transaction")
	}
	log.Info().Int64("user_id", userID).Str("achievement", t.Code).Msg("Achievement unlocked")
	return nil
}
