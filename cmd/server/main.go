// Package main is the entry point for the pet game backend server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"petgame-backend/internal/auth"
	"petgame-backend/internal/cache"
	"petgame-backend/internal/config"
	api "petgame-backend/internal/http"
	"petgame-backend/internal/pkg/db"
	"petgame-backend/internal/pkg/lock"
	"petgame-backend/internal/repository"
	"petgame-backend/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := db.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Pick the cache backend: Redis when configured, in-process otherwise
	var entityCache cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisCache.Close()
		entityCache = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis cache backend")
	} else {
		memCache := cache.NewMemory(time.Minute)
		defer memCache.Close()
		entityCache = memCache
		log.Info().Msg("Using in-process cache backend")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	petRepo := repository.NewPetRepository(dbPool.Pool)
	itemRepo := repository.NewItemRepository(dbPool.Pool)
	missionRepo := repository.NewMissionRepository(dbPool.Pool)
	achievementRepo := repository.NewAchievementRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	purchaseRepo := repository.NewPurchaseRepository(dbPool.Pool)

	// Initialize user lock and token manager
	userLock := lock.NewUserLock()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize services
	missionService := service.NewMissionService(missionRepo, userRepo, txRepo, entityCache)
	achievementService := service.NewAchievementService(
		achievementRepo, petRepo, userRepo, txRepo, entityCache, cfg.Cache.UserAchievementsTTL)
	petService := service.NewPetService(
		userRepo, petRepo, txRepo, missionService, achievementService,
		entityCache, &cfg.Cache, &cfg.Economy, userLock)
	economyService := service.NewEconomyService(
		userRepo, txRepo, missionService, entityCache, &cfg.Cache, &cfg.Economy)
	shopService := service.NewShopService(
		userRepo, petRepo, itemRepo, purchaseRepo, txRepo, missionService, entityCache, userLock)
	authService := service.NewAuthService(userRepo, tokens)

	// Periodic maintenance: prune stale daily rows
	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				economyService.RunMaintenance(ctx)
			}
		}
	}()

	handler := &api.Handler{
		Auth:         authService,
		Pets:         petService,
		Economy:      economyService,
		Shop:         shopService,
		Missions:     missionService,
		Achievements: achievementService,
		Tokens:       tokens,
		DB:           dbPool,
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.Router(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server is starting...")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped gracefully")
}
