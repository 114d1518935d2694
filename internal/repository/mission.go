package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petgame-backend/internal/model"
)

// Mission errors.
var (
	ErrMissionNotFound   = errors.New("mission not found")
	ErrMissionIncomplete = errors.New("mission not completed")
	ErrMissionClaimed    = errors.New("mission reward already claimed")
)

// MissionRepository handles mission templates and per-user daily progress.
type MissionRepository struct {
	pool *pgxpool.Pool
}

// NewMissionRepository creates a new MissionRepository instance.
func NewMissionRepository(pool *pgxpool.Pool) *MissionRepository {
	return &MissionRepository{pool: pool}
}

// ListActiveTemplates returns mission templates currently in rotation.
func (r *MissionRepository) ListActiveTemplates(ctx context.Context) ([]*model.MissionTemplate, error) {
	const query = `
		SELECT code, description, type, target_progress, reward_coins, reward_xp, active, expires_at
		FROM mission_templates
		WHERE active AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY code
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.MissionTemplate
	for rows.Next() {
		var t model.MissionTemplate
		err := rows.Scan(&t.Code, &t.Description, &t.Type, &t.TargetProgress,
			&t.RewardCoins, &t.RewardXP, &t.Active, &t.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission template: %w", err)
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

// GetTemplate returns one mission template by code.
func (r *MissionRepository) GetTemplate(ctx context.Context, code string) (*model.MissionTemplate, error) {
	const query = `
		SELECT code, description, type, target_progress, reward_coins, reward_xp, active, expires_at
		FROM mission_templates WHERE code = $1
	`
	var t model.MissionTemplate
	err := r.pool.QueryRow(ctx, query, code).Scan(&t.Code, &t.Description, &t.Type,
		&t.TargetProgress, &t.RewardCoins, &t.RewardXP, &t.Active, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMissionNotFound
		}
		return nil, fmt.Errorf("failed to get mission template: %w", err)
	}
	return &t, nil
}

// UpsertTemplate inserts or updates a mission template; used by the seeder.
func (r *MissionRepository) UpsertTemplate(ctx context.Context, t *model.MissionTemplate) error {
	const query = `
		INSERT INTO mission_templates (code, description, type, target_progress, reward_coins, reward_xp, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE
		SET description = $2, type = $3, target_progress = $4,
		    reward_coins = $5, reward_xp = $6, active = $7, expires_at = $8
	`
	_, err := r.pool.Exec(ctx, query, t.Code, t.Description, t.Type,
		t.TargetProgress, t.RewardCoins, t.RewardXP, t.Active, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert mission template: %w", err)
	}
	return nil
}

// ListProgressForDay returns the user's progress rows for one UTC day.
// Missions with no events that day have no row.
func (r *MissionRepository) ListProgressForDay(ctx context.Context, userID int64, day time.Time) ([]*model.MissionProgress, error) {
	const query = `
		SELECT user_id, mission_code, mission_date, current_progress, completed, rewarded, claimed, updated_at
		FROM user_missions
		WHERE user_id = $1 AND mission_date = $2
	`
	rows, err := r.pool.Query(ctx, query, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission progress: %w", err)
	}
	defer rows.Close()

	var progress []*model.MissionProgress
	for rows.Next() {
		var p model.MissionProgress
		err := rows.Scan(&p.UserID, &p.MissionCode, &p.MissionDate,
			&p.CurrentProgress, &p.Completed, &p.Rewarded, &p.Claimed, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission progress: %w", err)
		}
		progress = append(progress, &p)
	}
	return progress, rows.Err()
}

// ProgressUpdate reports the row state after an increment.
type ProgressUpdate struct {
	Progress      int64
	Completed     bool
	JustCompleted bool
}

// IncrementProgress bumps a mission's progress for today in a single
// statement, capping at target. JustCompleted is true exactly once: on
// the call that crossed the target. Concurrent increments race on the
// row lock, so the crossing call is well defined.
func (r *MissionRepository) IncrementProgress(ctx context.Context, userID int64, code string, amount, target int64, day time.Time) (ProgressUpdate, error) {
	const query = `
		WITH prior AS (
			SELECT completed FROM user_missions
			WHERE user_id = $1 AND mission_code = $2 AND mission_date = $3
		)
		INSERT INTO user_missions (user_id, mission_code, mission_date, current_progress, completed, rewarded, claimed, updated_at)
		VALUES ($1, $2, $3, LEAST($4, $5), LEAST($4, $5) >= $5, FALSE, FALSE, NOW())
		ON CONFLICT (user_id, mission_code, mission_date) DO UPDATE
		SET current_progress = LEAST(user_missions.current_progress + $4, $5),
		    completed = LEAST(user_missions.current_progress + $4, $5) >= $5,
		    updated_at = NOW()
		RETURNING current_progress, completed,
		          completed AND NOT COALESCE((SELECT completed FROM prior), FALSE)
	`
	// The CTE reads the statement-start snapshot, i.e. the row state
	// before this increment.
	var upd ProgressUpdate
	err := r.pool.QueryRow(ctx, query, userID, code, day, amount, target).
		Scan(&upd.Progress, &upd.Completed, &upd.JustCompleted)
	if err != nil {
		return ProgressUpdate{}, fmt.Errorf("failed to increment mission progress: %w", err)
	}
	return upd, nil
}

// MarkRewarded flips the one-time reward guard on a completed mission.
// Returns true only for the call that flipped it, so the reward credit
// runs at most once no matter how many payout attempts race.
func (r *MissionRepository) MarkRewarded(ctx context.Context, userID int64, code string, day time.Time) (bool, error) {
	const query = `
		UPDATE user_missions
		SET rewarded = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND mission_code = $2 AND mission_date = $3
		  AND completed AND NOT rewarded
	`
	result, err := r.pool.Exec(ctx, query, userID, code, day)
	if err != nil {
		return false, fmt.Errorf("failed to mark mission rewarded: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// MarkClaimed marks a completed mission as claimed. The flag is owned by
// the explicit claim endpoint and is independent of the reward guard.
// Returns ErrMissionClaimed if already claimed and ErrMissionIncomplete
// if the mission is not yet completed.
func (r *MissionRepository) MarkClaimed(ctx context.Context, userID int64, code string, day time.Time) error {
	const query = `
		UPDATE user_missions
		SET claimed = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND mission_code = $2 AND mission_date = $3
		  AND completed AND NOT claimed
	`
	result, err := r.pool.Exec(ctx, query, userID, code, day)
	if err != nil {
		return fmt.Errorf("failed to claim mission: %w", err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	// Disambiguate the no-op: missing, incomplete, or already claimed.
	var completed, claimed bool
	err = r.pool.QueryRow(ctx,
		`SELECT completed, claimed FROM user_missions WHERE user_id = $1 AND mission_code = $2 AND mission_date = $3`,
		userID, code, day).Scan(&completed, &claimed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMissionIncomplete
		}
		return fmt.Errorf("failed to inspect mission claim: %w", err)
	}
	if claimed {
		return ErrMissionClaimed
	}
	return ErrMissionIncomplete
}

// PruneOldProgress removes per-user rows older than the retention window.
func (r *MissionRepository) PruneOldProgress(ctx context.Context, daysOld int) (int64, error) {
	const query = `
		DELETE FROM user_missions
		WHERE mission_date < (now() AT TIME ZONE 'utc')::date - $1
	`
	result, err := r.pool.Exec(ctx, query, daysOld)
	if err != nil {
		return 0, fmt.Errorf("failed to prune mission progress: %w", err)
	}
	return result.RowsAffected(), nil
}
