package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petgame-backend/internal/model"
)

// ErrAchievementNotFound is returned for unknown achievement codes.
var ErrAchievementNotFound = errors.New("achievement not found")

// AchievementRepository handles achievement templates and unlocks.
type AchievementRepository struct {
	pool *pgxpool.Pool
}

// NewAchievementRepository creates a new AchievementRepository instance.
func NewAchievementRepository(pool *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{pool: pool}
}

// ListTemplates returns all achievement definitions.
func (r *AchievementRepository) ListTemplates(ctx context.Context) ([]*model.AchievementTemplate, error) {
	const query = `
		SELECT code, name, description, icon, reward_coins, reward_xp
		FROM achievement_templates ORDER BY code
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.AchievementTemplate
	for rows.Next() {
		var t model.AchievementTemplate
		err := rows.Scan(&t.Code, &t.Name, &t.Description, &t.Icon, &t.RewardCoins, &t.RewardXP)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement template: %w", err)
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

// GetTemplate returns one achievement template by code.
func (r *AchievementRepository) GetTemplate(ctx context.Context, code string) (*model.AchievementTemplate, error) {
	const query = `
		SELECT code, name, description, icon, reward_coins, reward_xp
		FROM achievement_templates WHERE code = $1
	`
	var t model.AchievementTemplate
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&t.Code, &t.Name, &t.Description, &t.Icon, &t.RewardCoins, &t.RewardXP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("failed to get achievement template: %w", err)
	}
	return &t, nil
}

// UpsertTemplate inserts or updates an achievement template; used by the
// seeder.
func (r *AchievementRepository) UpsertTemplate(ctx context.Context, t *model.AchievementTemplate) error {
	const query = `
		INSERT INTO achievement_templates (code, name, description, icon, reward_coins, reward_xp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE
		SET name = $2, description = $3, icon = $4, reward_coins = $5, reward_xp = $6
	`
	_, err := r.pool.Exec(ctx, query, t.Code, t.Name, t.Description, t.Icon, t.RewardCoins, t.RewardXP)
	if err != nil {
		return fmt.Errorf("failed to upsert achievement template: %w", err)
	}
	return nil
}

// ListUnlocked returns a user's unlocked achievements, newest first.
func (r *AchievementRepository) ListUnlocked(ctx context.Context, userID int64) ([]*model.UserAchievement, error) {
	const query = `
		SELECT user_id, code, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var unlocked []*model.UserAchievement
	for rows.Next() {
		var a model.UserAchievement
		if err := rows.Scan(&a.UserID, &a.Code, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlocked = append(unlocked, &a)
	}
	return unlocked, rows.Err()
}

// UnlockedSet returns the user's unlocked codes as a set.
func (r *AchievementRepository) UnlockedSet(ctx context.Context, userID int64) (map[string]bool, error) {
	unlocked, err := r.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		set[a.Code] = true
	}
	return set, nil
}

// Unlock records an achievement for a user. Returns true when this call
// performed the unlock and false when it was already unlocked, so the
// reward is credited exactly once even under concurrent evaluation.
func (r *AchievementRepository) Unlock(ctx context.Context, userID int64, code string) (bool, error) {
	const query = `
		INSERT INTO user_achievements (user_id, code, unlocked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, code) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query, userID, code)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return result.RowsAffected() == 1, nil
}
