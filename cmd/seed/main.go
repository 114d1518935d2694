// Package main seeds the shop catalog, mission templates and
// achievement templates. Safe to re-run; rows are upserted by code/name.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"petgame-backend/internal/config"
	"petgame-backend/internal/model"
	"petgame-backend/internal/pkg/db"
	"petgame-backend/internal/repository"
)

var shopItems = []*model.Item{
	// Food
	{Name: "Basic Food", Type: "food", Category: model.CategoryFood, Price: 10,
		EffectHunger: 15, EffectHappiness: 5, EffectXP: 2,
		PetTypes: []string{"all"}, Icon: "🥘", Description: "Basic food for any pet", Available: true},
	{Name: "Premium Steak", Type: "food", Category: model.CategoryFood, Price: 50,
		EffectHunger: 30, EffectHappiness: 15, EffectXP: 8,
		PetTypes: []string{"cat", "dog"}, Icon: "🥩", Description: "Premium steak for cats and dogs", Available: true},
	{Name: "Fresh Fish", Type: "food", Category: model.CategoryFood, Price: 35,
		EffectHunger: 25, EffectHappiness: 20, EffectXP: 6,
		PetTypes: []string{"cat", "fish"}, Icon: "🐟", Description: "Fresh fish for cats and fish", Available: true},
	{Name: "Bone Treat", Type: "food", Category: model.CategoryFood, Price: 25,
		EffectHunger: 20, EffectHappiness: 10, EffectXP: 4,
		PetTypes: []string{"dog"}, Icon: "🦴", Description: "A tasty bone for dogs", Available: true},
	{Name: "Carrot Snack", Type: "food", Category: model.CategoryFood, Price: 15,
		EffectHunger: 18, EffectHappiness: 8, EffectXP: 3,
		PetTypes: []string{"rabbit"}, Icon: "🥕", Description: "Fresh carrots for rabbits", Available: true},
	{Name: "Bird Seeds", Type: "food", Category: model.CategoryFood, Price: 20,
		EffectHunger: 22, EffectHappiness: 12, EffectXP: 5,
		PetTypes: []string{"bird"}, Icon: "🌰", Description: "Nutritious seeds for birds", Available: true},

	// Toys
	{Name: "Tennis Ball", Type: "toy", Category: model.CategoryToys, Price: 30,
		EffectHunger: -2, EffectHappiness: 25, EffectXP: 5,
		PetTypes: []string{"dog", "cat"}, Icon: "🎾", Description: "A bouncy tennis ball", Available: true},
	{Name: "Feather Wand", Type: "toy", Category: model.CategoryToys, Price: 45,
		EffectHunger: -3, EffectHappiness: 30, EffectXP: 8,
		PetTypes: []string{"cat"}, Icon: "🪶", Description: "A feather wand for cats", Available: true},
	{Name: "Squeaky Mouse", Type: "toy", Category: model.CategoryToys, Price: 25,
		EffectHunger: -1, EffectHappiness: 20, EffectXP: 4,
		PetTypes: []string{"cat"}, Icon: "🐭", Description: "A squeaky toy mouse", Available: true},
	{Name: "Chew Rope", Type: "toy", Category: model.CategoryToys, Price: 35,
		EffectHunger: -2, EffectHappiness: 22, EffectXP: 6,
		PetTypes: []string{"dog"}, Icon: "🪢", Description: "A chew rope for dogs", Available: true},
	{Name: "Mirror Toy", Type: "toy", Category: model.CategoryToys, Price: 40,
		EffectHunger: 0, EffectHappiness: 28, EffectXP: 7,
		PetTypes: []string{"bird"}, Icon: "🪞", Description: "A mirror toy for birds", Available: true},
	{Name: "Tunnel", Type: "toy", Category: model.CategoryToys, Price: 55,
		EffectHunger: -1, EffectHappiness: 35, EffectXP: 10,
		PetTypes: []string{"rabbit"}, Icon: "🕳️", Description: "A play tunnel for rabbits", Available: true},

	// Premium
	{Name: "Golden Food Bowl", Type: "accessory", Category: model.CategoryPremium, Price: 100,
		EffectHunger: 40, EffectHappiness: 25, EffectXP: 15,
		PetTypes: []string{"all"}, Icon: "🏆", Description: "A golden bowl that doubles meal effects", Available: true},
	{Name: "Magic Potion", Type: "food", Category: model.CategoryPremium, Price: 80,
		EffectHunger: 50, EffectHappiness: 50, EffectXP: 20,
		PetTypes: []string{"all"}, Icon: "🧪", Description: "A magic potion that fully restores a pet", Available: true},
	{Name: "XP Boost", Type: "accessory", Category: model.CategoryPremium, Price: 75,
		EffectHunger: 5, EffectHappiness: 5, EffectXP: 50,
		PetTypes: []string{"all"}, Icon: "⭐", Description: "A powerful XP boost", Available: true},
}

var missions = []*model.MissionTemplate{
	{Code: "feed_pet", Description: "Feed a pet once", Type: model.MissionTypeFeed,
		TargetProgress: 1, RewardCoins: 10, RewardXP: 5, Active: true},
	{Code: "play_with_pet", Description: "Play with a pet once", Type: model.MissionTypePlay,
		TargetProgress: 1, RewardCoins: 15, RewardXP: 8, Active: true},
	{Code: "use_ability", Description: "Use a special ability once", Type: model.MissionTypeAbility,
		TargetProgress: 1, RewardCoins: 20, RewardXP: 10, Active: true},
	{Code: "win_minigame", Description: "Win a minigame", Type: model.MissionTypeWinMinigame,
		TargetProgress: 1, RewardCoins: 30, RewardXP: 15, Active: true},
	{Code: "big_earner", Description: "Earn 100 coins in a day", Type: model.MissionTypeEarnCoins,
		TargetProgress: 100, RewardCoins: 25, RewardXP: 10, Active: true},
	{Code: "shopper", Description: "Buy 3 items from the shop", Type: model.MissionTypePurchase,
		TargetProgress: 3, RewardCoins: 20, RewardXP: 8, Active: true},
	{Code: "spender", Description: "Spend 100 coins in the shop", Type: model.MissionTypeSpendCoins,
		TargetProgress: 100, RewardCoins: 30, RewardXP: 12, Active: true},
	{Code: "level_up", Description: "Level up a pet", Type: model.MissionTypeLevelUpPets,
		TargetProgress: 1, RewardCoins: 40, RewardXP: 20, Active: true},
}

var achievements = []*model.AchievementTemplate{
	{Code: "first_pet", Name: "First Steps", Description: "Create your first pet",
		Icon: "🥉", RewardCoins: 20, RewardXP: 10},
	{Code: "pet_lover", Name: "Pet Lover", Description: "Own 5 pets at once",
		Icon: "🥈", RewardCoins: 50, RewardXP: 25},
	{Code: "pet_master", Name: "Pet Master", Description: "Raise a pet to level 10",
		Icon: "🥇", RewardCoins: 100, RewardXP: 50},
	{Code: "feeder", Name: "Feeder", Description: "Feed your pets 100 times",
		Icon: "🍖", RewardCoins: 60, RewardXP: 30},
	{Code: "player", Name: "Player", Description: "Play with your pets 100 times",
		Icon: "🎾", RewardCoins: 60, RewardXP: 30},
	{Code: "trainer", Name: "Trainer", Description: "Reach 1000 total pet XP",
		Icon: "⭐", RewardCoins: 80, RewardXP: 40},
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	itemRepo := repository.NewItemRepository(dbPool.Pool)
	missionRepo := repository.NewMissionRepository(dbPool.Pool)
	achievementRepo := repository.NewAchievementRepository(dbPool.Pool)

	for _, it := range shopItems {
		if err := itemRepo.Upsert(ctx, it); err != nil {
			log.Fatal().Err(err).Str("item", it.Name).Msg("Failed to seed item")
		}
	}
	log.Info().Int("count", len(shopItems)).Msg("Seeded shop items")

	for _, m := range missions {
		if err := missionRepo.UpsertTemplate(ctx, m); err != nil {
			log.Fatal().Err(err).Str("mission", m.Code).Msg("Failed to seed mission")
		}
	}
	log.Info().Int("count", len(missions)).Msg("Seeded mission templates")

	for _, a := range achievements {
		if err := achievementRepo.UpsertTemplate(ctx, a); err != nil {
			log.Fatal().Err(err).Str("achievement", a.Code).Msg("Failed to seed achievement")
		}
	}
	log.Info().Int("count", len(achievements)).Msg("Seeded achievement templates")
}
