// Package model defines the data models for the virtual pet backend.
package model

import "time"

// User represents a player account and its economic ledger.
type User struct {
	ID               int64      `db:"id" json:"id"`
	Username         string     `db:"username" json:"username"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Coins            int64      `db:"coins" json:"coins"`
	XP               int64      `db:"xp" json:"xp"`
	Level            int        `db:"level" json:"level"`
	DailyLoginStreak int        `db:"daily_login_streak" json:"daily_login_streak"`
	LastLogin        *time.Time `db:"last_login" json:"last_login,omitempty"`
	DailyCoinsEarned int64      `db:"daily_coins_earned" json:"daily_coins_earned"`
	DailyCoinsSpent  int64      `db:"daily_coins_spent" json:"daily_coins_spent"`
	DailyResetDate   time.Time  `db:"daily_reset_date" json:"daily_reset_date"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Pet represents a single pet owned by exactly one user.
type Pet struct {
	ID         int64     `db:"id" json:"id"`
	OwnerID    int64     `db:"owner_id" json:"owner_id"`
	Name       string    `db:"name" json:"name"`
	Type       string    `db:"type" json:"type"`
	Hunger     int       `db:"hunger" json:"hunger"`
	Happiness  int       `db:"happiness" json:"happiness"`
	Level      int       `db:"level" json:"level"`
	XP         int64     `db:"xp" json:"xp"`
	FeedCount  int       `db:"feed_count" json:"feed_count"`
	PlayCount  int       `db:"play_count" json:"play_count"`
	Abilities  []string  `db:"abilities" json:"abilities"`
	LastFed    time.Time `db:"last_fed" json:"last_fed"`
	LastPlayed time.Time `db:"last_played" json:"last_played"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Item represents a shop item template.
type Item struct {
	ID              int64    `db:"id" json:"id"`
	Name            string   `db:"name" json:"name"`
	Type            string   `db:"type" json:"type"`
	Category        string   `db:"category" json:"category"`
	Price           int64    `db:"price" json:"price"`
	EffectHunger    int      `db:"effect_hunger" json:"effect_hunger"`
	EffectHappiness int      `db:"effect_happiness" json:"effect_happiness"`
	EffectXP        int64    `db:"effect_xp" json:"effect_xp"`
	PetTypes        []string `db:"pet_types" json:"pet_types"`
	Icon            string   `db:"icon" json:"icon"`
	Description     string   `db:"description" json:"description"`
	Available       bool     `db:"available" json:"available"`
}

// InventoryEntry is a (user, item) quantity; rows are deleted when
// quantity reaches zero.
type InventoryEntry struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	ItemID    int64     `db:"item_id" json:"item_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Item      *Item     `db:"-" json:"item,omitempty"`
}

// MissionTemplate is a shared daily mission definition.
type MissionTemplate struct {
	Code           string     `db:"code" json:"code"`
	Description    string     `db:"description" json:"description"`
	Type           string     `db:"type" json:"type"`
	TargetProgress int64      `db:"target_progress" json:"target_progress"`
	RewardCoins    int64      `db:"reward_coins" json:"reward_coins"`
	RewardXP       int64      `db:"reward_xp" json:"reward_xp"`
	Active         bool       `db:"active" json:"active"`
	ExpiresAt      *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}

// MissionProgress is a per-user, per-day instance of a mission template.
// Rows are keyed (user_id, mission_code, mission_date). Rewarded guards
// the one-time reward credit; claimed belongs to the explicit claim call.
type MissionProgress struct {
	UserID          int64     `db:"user_id" json:"user_id"`
	MissionCode     string    `db:"mission_code" json:"mission_code"`
	MissionDate     time.Time `db:"mission_date" json:"mission_date"`
	CurrentProgress int64     `db:"current_progress" json:"current_progress"`
	Completed       bool      `db:"completed" json:"completed"`
	Rewarded        bool      `db:"rewarded" json:"rewarded"`
	Claimed         bool      `db:"claimed" json:"claimed"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// AchievementTemplate is a one-time achievement definition.
type AchievementTemplate struct {
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Icon        string `db:"icon" json:"icon"`
	RewardCoins int64  `db:"reward_coins" json:"reward_coins"`
	RewardXP    int64  `db:"reward_xp" json:"reward_xp"`
}

// UserAchievement marks an unlocked achievement; presence implies
// "unlocked", at most once per user.
type UserAchievement struct {
	UserID     int64     `db:"user_id" json:"user_id"`
	Code       string    `db:"code" json:"code"`
	UnlockedAt time.Time `db:"unlocked_at" json:"unlocked_at"`
}

// Transaction records a single coin movement on a user's ledger.
type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Type        string    `db:"type" json:"type"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Action kinds gated by cooldowns.
const (
	ActionFeed       = "feed"
	ActionPlay       = "play"
	ActionAbility    = "ability"
	ActionDailyLogin = "dailyLogin"
	ActionMinigame   = "minigame"
)

// ActionKinds returns every cooldown-gated action kind.
func ActionKinds() []string {
	return []string{ActionFeed, ActionPlay, ActionAbility, ActionDailyLogin, ActionMinigame}
}

// Mission types matched against semantic action events.
const (
	MissionTypeFeed        = "feed"
	MissionTypePlay        = "play"
	MissionTypeAbility     = "ability"
	MissionTypeEarnCoins   = "earn_coins"
	MissionTypeSpendCoins  = "spend_coins"
	MissionTypePurchase    = "purchase"
	MissionTypeLevelUpPets = "level_up_pets"
	MissionTypeWinMinigame = "win_minigames"
)

// Item categories used for daily purchase caps and dynamic pricing.
const (
	CategoryFood      = "food"
	CategoryToys      = "toys"
	CategoryAbilities = "abilities"
	CategoryPremium   = "premium"
)

// PetAbilities maps each pet type to its abilities, fixed at creation.
var PetAbilities = map[string][]string{
	"cat":    {"Heal", "Lucky"},
	"dog":    {"Guard", "Fetch"},
	"rabbit": {"Speed Up", "Double Feed"},
	"bird":   {"Sing", "Scout"},
	"fish":   {"Splash", "Treasure"},
}

// ValidPetType reports whether t is a known pet type.
func ValidPetType(t string) bool {
	_, ok := PetAbilities[t]
	return ok
}

// Transaction types for categorizing coin movements.
const (
	TxTypeFeed        = "feed"        // Feed action reward
	TxTypePlay        = "play"        // Play action reward
	TxTypeAbility     = "ability"     // Ability use reward
	TxTypeDailyLogin  = "daily_login" // Daily login bonus
	TxTypeMinigame    = "minigame"    // Minigame reward
	TxTypeMission     = "mission"     // Mission completion reward
	TxTypeAchievement = "achievement" // Achievement unlock reward
	TxTypePurchase    = "purchase"    // Shop purchase debit
	TxTypeLevelBonus  = "level_bonus" // Pet level-up bonus
)

// DayUTC truncates t to its UTC calendar date. All daily bookkeeping
// (streaks, mission days, purchase history) keys on this value.
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
