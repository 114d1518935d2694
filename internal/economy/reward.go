package economy

import (
	"math"
	"time"
)

// LevelReward scales a base reward by pet level: +10% per level above 1,
// floored to whole coins.
func LevelReward(base int64, petLevel int) int64 {
	if petLevel < 1 {
		petLevel = 1
	}
	multiplier := 1 + float64(petLevel-1)*0.1
	return int64(math.Floor(float64(base) * multiplier))
}

// LevelUpBonus is the extra coin grant when a pet reaches newLevel.
func LevelUpBonus(newLevel int) int64 {
	return int64(newLevel) * 10
}

// MinigameResult is the outcome of a minigame reward calculation.
type MinigameResult struct {
	Reward     int64
	Multiplier float64
	IsWin      bool
}

// MinigameReward computes the coin yield for a submitted minigame result.
// The multiplier is the product of difficulty, performance and speed
// factors; a win is any score of at least 50.
func MinigameReward(base int64, score int, timeCompleted int, difficulty string) MinigameResult {
	multiplier := 1.0

	switch difficulty {
	case "medium":
		multiplier *= 1.5
	case "hard":
		multiplier *= 2
	default: // easy or unknown
	}

	switch {
	case score >= 90:
		multiplier *= 2
	case score >= 70:
		multiplier *= 1.5
	case score >= 50:
		multiplier *= 1.2
	}

	switch {
	case timeCompleted < 30:
		multiplier *= 1.5
	case timeCompleted < 60:
		multiplier *= 1.2
	}

	return MinigameResult{
		Reward:     int64(math.Floor(float64(base) * multiplier)),
		Multiplier: multiplier,
		IsWin:      score >= 50,
	}
}

// NextStreak returns the daily-login streak after a claim at now.
// The streak continues only when the previous login fell on yesterday's
// UTC calendar date; otherwise it resets to 1.
func NextStreak(streak int, lastLogin *time.Time, now time.Time) int {
	if lastLogin == nil {
		return 1
	}
	yesterday := now.UTC().AddDate(0, 0, -1)
	yy, ym, yd := yesterday.Date()
	ly, lm, ld := lastLogin.UTC().Date()
	if yy == ly && ym == lm && yd == ld {
		return streak + 1
	}
	return 1
}

// StreakMultiplier maps a streak to its login-bonus multiplier,
// 1.2x for day one up to 2.4x from day seven on.
func StreakMultiplier(streak int) float64 {
	if streak > 7 {
		streak = 7
	}
	if streak < 1 {
		streak = 1
	}
	return float64(streak)*0.2 + 1
}

// DailyLoginReward computes the streak-scaled login bonus.
func DailyLoginReward(base int64, streak int) int64 {
	return int64(math.Floor(float64(base) * StreakMultiplier(streak)))
}
