// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Economy  EconomyConfig  `mapstructure:"economy"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RedisConfig holds the optional Redis cache backend configuration.
// When Addr is empty the in-process cache backend is used.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds per-entity cache TTLs.
type CacheConfig struct {
	UserProfileTTL      time.Duration `mapstructure:"user_profile_ttl"`
	UserPetsTTL         time.Duration `mapstructure:"user_pets_ttl"`
	PetDetailsTTL       time.Duration `mapstructure:"pet_details_ttl"`
	UserEconomicTTL     time.Duration `mapstructure:"user_economic_ttl"`
	UserAchievementsTTL time.Duration `mapstructure:"user_achievements_ttl"`
}

// EconomyConfig holds cooldowns, base rewards and pricing knobs.
type EconomyConfig struct {
	FeedCooldown       time.Duration `mapstructure:"feed_cooldown"`
	PlayCooldown       time.Duration `mapstructure:"play_cooldown"`
	AbilityCooldown    time.Duration `mapstructure:"ability_cooldown"`
	DailyLoginCooldown time.Duration `mapstructure:"daily_login_cooldown"`
	MinigameCooldown   time.Duration `mapstructure:"minigame_cooldown"`

	FeedBaseCoins       int64 `mapstructure:"feed_base_coins"`
	PlayBaseCoins       int64 `mapstructure:"play_base_coins"`
	AbilityBaseCoins    int64 `mapstructure:"ability_base_coins"`
	DailyLoginBaseCoins int64 `mapstructure:"daily_login_base_coins"`
	MinigameBaseCoins   int64 `mapstructure:"minigame_base_coins"`

	MissionRetentionDays int `mapstructure:"mission_retention_days"`
}

// AuthConfig holds JWT configuration.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// CooldownFor returns the configured cooldown for an action kind,
// or zero if the kind is unknown.
func (e *EconomyConfig) CooldownFor(action string) time.Duration {
	switch action {
	case "feed":
		return e.FeedCooldown
	case "play":
		return e.PlayCooldown
	case "ability":
		return e.AbilityCooldown
	case "dailyLogin":
		return e.DailyLoginCooldown
	case "minigame":
		return e.MinigameCooldown
	}
	return 0
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. SERVER_PORT, DATABASE_HOST, AUTH_JWT_SECRET.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "petgame")
	v.SetDefault("database.name", "petgame")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Cache TTL defaults
	v.SetDefault("cache.user_profile_ttl", "5m")
	v.SetDefault("cache.user_pets_ttl", "3m")
	v.SetDefault("cache.pet_details_ttl", "4m")
	v.SetDefault("cache.user_economic_ttl", "2m")
	v.SetDefault("cache.user_achievements_ttl", "10m")

	// Economy defaults
	v.SetDefault("economy.feed_cooldown", "5m")
	v.SetDefault("economy.play_cooldown", "10m")
	v.SetDefault("economy.ability_cooldown", "15m")
	v.SetDefault("economy.daily_login_cooldown", "24h")
	v.SetDefault("economy.minigame_cooldown", "5m")
	v.SetDefault("economy.feed_base_coins", 5)
	v.SetDefault("economy.play_base_coins", 8)
	v.SetDefault("economy.ability_base_coins", 10)
	v.SetDefault("economy.daily_login_base_coins", 50)
	v.SetDefault("economy.minigame_base_coins", 15)
	v.SetDefault("economy.mission_retention_days", 30)

	// Auth defaults
	v.SetDefault("auth.token_ttl", "168h")
}
