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

// MissionStatus is one mission template joined with the user's progress
// for today.
type MissionStatus struct {
	Template  *model.MissionTemplate `json:"template"`
	Progress  int64                  `json:"progress"`
	Completed bool                   `json:"completed"`
	Rewarded  bool                   `json:"rewarded"`
	Claimed   bool                   `json:"claimed"`
}

// MissionService tracks daily mission progress off semantic action
// events and pays out rewards exactly once per (user, mission, day).
type MissionService struct {
	missionRepo *repository.MissionRepository
	userRepo    *repository.UserRepository
	txRepo      *repository.TransactionRepository
	cache       cache.Cache
	now         func() time.Time
}

// NewMissionService creates a new MissionService instance.
func NewMissionService(
	missionRepo *repository.MissionRepository,
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	c cache.Cache,
) *MissionService {
	return &MissionService{
		missionRepo: missionRepo,
		userRepo:    userRepo,
		txRepo:      txRepo,
		cache:       c,
		now:         time.Now,
	}
}

// ListDaily returns all active missions with today's progress. Missions
// never touched today show zero progress.
func (s *MissionService) ListDaily(ctx context.Context, userID int64) ([]*MissionStatus, error) {
	templates, err := s.missionRepo.ListActiveTemplates(ctx)
	if err != nil {
		return nil, err
	}

	day := model.DayUTC(s.now())
	progress, err := s.missionRepo.ListProgressForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*model.MissionProgress, len(progress))
	for _, p := range progress {
		byCode[p.MissionCode] = p
	}

	statuses := make([]*MissionStatus, 0, len(templates))
	for _, t := range templates {
		status := &MissionStatus{Template: t}
		if p, ok := byCode[t.Code]; ok {
			status.Progress = p.CurrentProgress
			status.Completed = p.Completed
			status.Rewarded = p.Rewarded
			status.Claimed = p.Claimed
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// TrackEvent advances every active mission matching the event type.
// Called after actions commit; failures are logged and swallowed so a
// broken mission never fails the action that triggered it.
func (s *MissionService) TrackEvent(ctx context.Context, userID int64, missionType string, amount int64) {
	if amount <= 0 {
		return
	}

	templates, err := s.missionRepo.ListActiveTemplates(ctx)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to load mission templates")
		return
	}

	day := model.DayUTC(s.now())
	for _, t := range templates {
		if t.Type != missionType {
			continue
		}
		upd, err := s.missionRepo.IncrementProgress(ctx, userID, t.Code, amount, t.TargetProgress, day)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Str("mission", t.Code).
				Msg("Failed to advance mission")
			continue
		}
		if upd.JustCompleted {
			if err := s.payOut(ctx, userID, t, day); err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Str("mission", t.Code).
					Msg("Failed to auto-credit mission reward")
			}
		}
	}
}

// Complete advances a mission by one step on behalf of the caller.
// Unknown or inactive codes return repository.ErrMissionNotFound.
func (s *MissionService) Complete(ctx context.Context, userID int64, code string) (*MissionStatus, error) {
	t, err := s.missionRepo.GetTemplate(ctx, code)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !t.Active || (t.ExpiresAt != nil && !t.ExpiresAt.After(now)) {
		return nil, repository.ErrMissionNotFound
	}

	day := model.DayUTC(now)
	upd, err := s.missionRepo.IncrementProgress(ctx, userID, code, 1, t.TargetProgress, day)
	if err != nil {
		return nil, err
	}

	status := &MissionStatus{Template: t, Progress: upd.Progress, Completed: upd.Completed}
	if upd.JustCompleted {
		if err := s.payOut(ctx, userID, t, day); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Str("mission", code).
				Msg("Failed to auto-credit mission reward")
		} else {
			status.Rewarded = true
		}
	}
	return status, nil
}

// Claim marks a completed mission as claimed. Completion already
// credited the reward through the rewarded guard, so a claim only
// credits when that automatic payout never landed. Returns
// repository.ErrMissionClaimed on the second claim and
// repository.ErrMissionIncomplete before completion.
func (s *MissionService) Claim(ctx context.Context, userID int64, code string) (*model.User, error) {
	t, err := s.missionRepo.GetTemplate(ctx, code)
	if err != nil {
		return nil, err
	}

	day := model.DayUTC(s.now())
	if err := s.missionRepo.MarkClaimed(ctx, userID, code, day); err != nil {
		return nil, err
	}

	flipped, err := s.missionRepo.MarkRewarded(ctx, userID, code, day)
	if err != nil {
		return nil, err
	}

	var user *model.User
	if flipped {
		user, err = s.credit(ctx, userID, t)
	} else {
		user, err = s.userRepo.GetByID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	s.cache.Del(ctx, cache.UserKeys(userID)...)
	return user, nil
}

// payOut credits a mission that just completed. The rewarded flip
// guards against double credit when the completion races with another
// payout attempt; the claimed flag is untouched and stays with the
// claim endpoint.
func (s *MissionService) payOut(ctx context.Context, userID int64, t *model.MissionTemplate, day time.Time) error {
	flipped, err := s.missionRepo.MarkRewarded(ctx, userID, t.Code, day)
	if err != nil {
		return err
	}
	if !flipped {
		return nil
	}
	if _, err := s.credit(ctx, userID, t); err != nil {
		return err
	}
	s.cache.Del(ctx, cache.UserKeys(userID)...)
	log.Info().Int64("user_id", userID).Str("mission", t.Code).
		Int64("coins", t.RewardCoins).Msg("Mission completed")
	return nil
}

func (s *MissionService) credit(ctx context.Context, userID int64, t *model.MissionTemplate) (*model.User, error) {
	user, err := s.userRepo.Credit(ctx, userID, t.RewardCoins, t.RewardXP)
	if err != nil {
		return nil, fmt.Errorf("failed to credit mission reward: %w", err)
	}
	if err := s.txRepo.Record(ctx, userID, t.RewardCoins, model.TxTypeMission,
		fmt.Sprintf("Mission completed: %s", t.Code)); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record mission transaction")
	}
	return user, nil
}

// Prune removes per-user progress rows older than the retention window.
func (s *MissionService) Prune(ctx context.Context, retentionDays int) (int64, error) {
	return s.missionRepo.PruneOldProgress(ctx, retentionDays)
}
