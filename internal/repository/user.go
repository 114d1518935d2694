// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"petgame-backend/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

const userColumns = `
	id, username, email, password_hash, coins, xp, level,
	daily_login_streak, last_login,
	daily_coins_earned, daily_coins_spent, daily_reset_date,
	created_at, updated_at
`

// UserRepository handles user ledger persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Coins, &u.XP, &u.Level,
		&u.DailyLoginStreak, &u.LastLogin,
		&u.DailyCoinsEarned, &u.DailyCoinsSpent, &u.DailyResetDate,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// Create creates a new user with the starting balance of 100 coins.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, coins, xp, level, daily_reset_date, created_at, updated_at)
		VALUES ($1, $2, $3, 100, 0, 1, (now() AT TIME ZONE 'utc')::date, NOW(), NOW())
		RETURNING` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, username, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by id. Returns ErrUserNotFound if absent.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, userID))
}

// GetByUsername retrieves a user by username for login.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

// Credit atomically adds coins and xp to a user's ledger and bumps the
// daily earned counter. Amounts must be non-negative; use the purchase
// flow for debits so the coins-never-negative invariant holds.
func (r *UserRepository) Credit(ctx context.Context, userID, coins, xp int64) (*model.User, error) {
	query := `
		UPDATE users
		SET coins = coins + $2,
		    xp = xp + $3,
		    daily_coins_earned = daily_coins_earned + $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, userID, coins, xp))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to credit user: %w", err)
	}
	return user, nil
}

// ResetDailyIfStale zeroes the daily stats and purchase history when the
// stored reset date is before today (UTC). Safe to call on every request
// that touches daily bookkeeping; it is a no-op within the same day.
func (r *UserRepository) ResetDailyIfStale(ctx context.Context, userID int64) error {
	const query = `
		UPDATE users
		SET daily_coins_earned = 0,
		    daily_coins_spent = 0,
		    daily_reset_date = (now() AT TIME ZONE 'utc')::date,
		    updated_at = NOW()
		WHERE id = $1 AND daily_reset_date < (now() AT TIME ZONE 'utc')::date
	`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to reset daily stats: %w", err)
	}
	return nil
}

// RecordLogin updates the login streak and last-login timestamp after a
// successful daily bonus claim.
func (r *UserRepository) RecordLogin(ctx context.Context, userID int64, streak int, at time.Time) error {
	const query = `
		UPDATE users
		SET daily_login_streak = $2, last_login = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, userID, streak, at)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetCooldowns returns the last-performed timestamp per action kind.
// Actions never performed are absent from the map.
func (r *UserRepository) GetCooldowns(ctx context.Context, userID int64) (map[string]time.Time, error) {
	const query = `
		SELECT action, last_performed FROM user_cooldowns WHERE user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cooldowns: %w", err)
	}
	defer rows.Close()

	cooldowns := make(map[string]time.Time)
	for rows.Next() {
		var action string
		var last time.Time
		if err := rows.Scan(&action, &last); err != nil {
			return nil, fmt.Errorf("failed to scan cooldown: %w", err)
		}
		cooldowns[action] = last
	}
	return cooldowns, rows.Err()
}

// GetCooldown returns the last-performed timestamp for one action kind,
// or nil if the action has never been performed.
func (r *UserRepository) GetCooldown(ctx context.Context, userID int64, action string) (*time.Time, error) {
	const query = `
		SELECT last_performed FROM user_cooldowns WHERE user_id = $1 AND action = $2
	`
	var last time.Time
	err := r.pool.QueryRow(ctx, query, userID, action).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cooldown: %w", err)
	}
	return &last, nil
}

// TouchCooldown records that an action was just performed. Called only
// after the gated action succeeds.
func (r *UserRepository) TouchCooldown(ctx context.Context, userID int64, action string, at time.Time) error {
	const query = `
		INSERT INTO user_cooldowns (user_id, action, last_performed)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, action)
		DO UPDATE SET last_performed = $3
	`
	if _, err := r.pool.Exec(ctx, query, userID, action, at); err != nil {
		return fmt.Errorf("failed to touch cooldown: %w", err)
	}
	return nil
}

// GetDailyPurchaseCount returns how many items of a category the user
// bought today (UTC).
func (r *UserRepository) GetDailyPurchaseCount(ctx context.Context, userID int64, category string) (int, error) {
	const query = `
		SELECT purchase_count FROM daily_purchases
		WHERE user_id = $1 AND category = $2 AND purchase_date = (now() AT TIME ZONE 'utc')::date
	`
	var count int
	err := r.pool.QueryRow(ctx, query, userID, category).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get daily purchase count: %w", err)
	}
	return count, nil
}

// GetDailyPurchases returns today's purchase counts keyed by category.
func (r *UserRepository) GetDailyPurchases(ctx context.Context, userID int64) (map[string]int, error) {
	const query = `
		SELECT category, purchase_count FROM daily_purchases
		WHERE user_id = $1 AND purchase_date = (now() AT TIME ZONE 'utc')::date
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily purchases: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily purchase: %w", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// CleanOldDailyPurchases removes purchase history rows older than the
// given number of days.
func (r *UserRepository) CleanOldDailyPurchases(ctx context.Context, daysOld int) (int64, error) {
	const query = `
		DELETE FROM daily_purchases
		WHERE purchase_date < (now() AT TIME ZONE 'utc')::date - $1
	`
	result, err := r.pool.Exec(ctx, query, daysOld)
	if err != nil {
		return 0, fmt.Errorf("failed to clean daily purchases: %w", err)
	}
	return result.RowsAffected(), nil
}
