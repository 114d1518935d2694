package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// migrations applies the full schema in order. Statements are idempotent
// so they can run on every startup and in test containers.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "users table",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				email VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				coins BIGINT NOT NULL DEFAULT 100 CHECK (coins >= 0),
				xp BIGINT NOT NULL DEFAULT 0,
				level INT NOT NULL DEFAULT 1,
				daily_login_streak INT NOT NULL DEFAULT 0,
				last_login TIMESTAMPTZ,
				daily_coins_earned BIGINT NOT NULL DEFAULT 0,
				daily_coins_spent BIGINT NOT NULL DEFAULT 0,
				daily_reset_date DATE NOT NULL DEFAULT (now() AT TIME ZONE 'utc')::date,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		name: "user_cooldowns table",
		sql: `
			CREATE TABLE IF NOT EXISTS user_cooldowns (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				action VARCHAR(50) NOT NULL,
				last_performed TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (user_id, action)
			);
		`,
	},
	{
		name: "pets table",
		sql: `
			CREATE TABLE IF NOT EXISTS pets (
				id BIGSERIAL PRIMARY KEY,
				owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name VARCHAR(100) NOT NULL,
				type VARCHAR(50) NOT NULL,
				hunger INT NOT NULL DEFAULT 50,
				happiness INT NOT NULL DEFAULT 50,
				level INT NOT NULL DEFAULT 1,
				xp BIGINT NOT NULL DEFAULT 0,
				feed_count INT NOT NULL DEFAULT 0,
				play_count INT NOT NULL DEFAULT 0,
				abilities TEXT[] NOT NULL DEFAULT '{}',
				last_fed TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				last_played TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_pets_owner ON pets(owner_id);
		`,
	},
	{
		name: "items table",
		sql: `
			CREATE TABLE IF NOT EXISTS items (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(100) NOT NULL UNIQUE,
				type VARCHAR(50) NOT NULL,
				category VARCHAR(50) NOT NULL,
				price BIGINT NOT NULL CHECK (price >= 0),
				effect_hunger INT NOT NULL DEFAULT 0,
				effect_happiness INT NOT NULL DEFAULT 0,
				effect_xp BIGINT NOT NULL DEFAULT 0,
				pet_types TEXT[] NOT NULL DEFAULT '{all}',
				icon VARCHAR(50) NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				available BOOLEAN NOT NULL DEFAULT TRUE
			);
		`,
	},
	{
		name: "user_inventory table",
		sql: `
			CREATE TABLE IF NOT EXISTS user_inventory (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				item_id BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
				quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, item_id)
			);
		`,
	},
	{
		name: "daily_purchases table",
		sql: `
			CREATE TABLE IF NOT EXISTS daily_purchases (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				category VARCHAR(50) NOT NULL,
				purchase_date DATE NOT NULL,
				purchase_count INT NOT NULL DEFAULT 0,
				PRIMARY KEY (user_id, category, purchase_date)
			);
			CREATE INDEX IF NOT EXISTS idx_daily_purchases_date ON daily_purchases(purchase_date);
		`,
	},
	{
		name: "mission_templates table",
		sql: `
			CREATE TABLE IF NOT EXISTS mission_templates (
				code VARCHAR(50) PRIMARY KEY,
				description TEXT NOT NULL,
				type VARCHAR(50) NOT NULL,
				target_progress BIGINT NOT NULL CHECK (target_progress > 0),
				reward_coins BIGINT NOT NULL DEFAULT 0,
				reward_xp BIGINT NOT NULL DEFAULT 0,
				active BOOLEAN NOT NULL DEFAULT TRUE,
				expires_at TIMESTAMPTZ
			);
		`,
	},
	{
		name: "user_missions table",
		sql: `
			CREATE TABLE IF NOT EXISTS user_missions (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				mission_code VARCHAR(50) NOT NULL,
				mission_date DATE NOT NULL,
				current_progress BIGINT NOT NULL DEFAULT 0,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				rewarded BOOLEAN NOT NULL DEFAULT FALSE,
				claimed BOOLEAN NOT NULL DEFAULT FALSE,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, mission_code, mission_date)
			);
			CREATE INDEX IF NOT EXISTS idx_user_missions_date ON user_missions(mission_date);
		`,
	},
	{
		name: "achievement_templates table",
		sql: `
			CREATE TABLE IF NOT EXISTS achievement_templates (
				code VARCHAR(50) PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				description TEXT NOT NULL,
				icon VARCHAR(50) NOT NULL DEFAULT '',
				reward_coins BIGINT NOT NULL DEFAULT 0,
				reward_xp BIGINT NOT NULL DEFAULT 0
			);
		`,
	},
	{
		name: "user_achievements table",
		sql: `
			CREATE TABLE IF NOT EXISTS user_achievements (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				code VARCHAR(50) NOT NULL,
				unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, code)
			);
		`,
	},
	{
		name: "transactions table",
		sql: `
			CREATE TABLE IF NOT EXISTS transactions (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				amount BIGINT NOT NULL,
				type VARCHAR(50) NOT NULL,
				description TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_transactions_type_time ON transactions(type, created_at DESC);
		`,
	},
}

// Migrate applies the schema. Shared by the server, the seeder and the
// repository integration tests.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Running database migrations...")
	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return err
		}
		log.Debug().Str("migration", m.name).Msg("Migration applied")
	}
	log.Info().Msg("All migrations completed successfully")
	return nil
}
