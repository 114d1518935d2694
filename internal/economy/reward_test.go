package economy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLevelReward(t *testing.T) {
	tests := []struct {
		name     string
		base     int64
		level    int
		expected int64
	}{
		{"level 1 pays base", 5, 1, 5},
		{"level 2 adds 10%", 5, 2, 5}, // floor(5 * 1.1) = 5
		{"level 5 feed", 5, 5, 7},     // floor(5 * 1.4)
		{"level 11 doubles", 5, 11, 10},
		{"play base level 5", 8, 5, 11},   // floor(8 * 1.4)
		{"ability level 10", 10, 10, 19},  // floor(10 * 1.9)
		{"level below 1 treated as 1", 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelReward(tt.base, tt.level))
		})
	}
}

func TestLevelRewardMonotonicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Int64Range(1, 1000).Draw(t, "base")
		level := rapid.IntRange(1, 100).Draw(t, "level")

		lower := LevelReward(base, level)
		higher := LevelReward(base, level+1)

		if higher < lower {
			t.Fatalf("reward decreased with level: level %d pays %d, level %d pays %d",
				level, lower, level+1, higher)
		}
		if lower < base {
			t.Fatalf("reward %d fell below base %d at level %d", lower, base, level)
		}
	})
}

func TestLevelUpBonus(t *testing.T) {
	assert.Equal(t, int64(20), LevelUpBonus(2))
	assert.Equal(t, int64(100), LevelUpBonus(10))
}

func TestMinigameReward(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		timeSec    int
		difficulty string
		reward     int64
		multiplier float64
		isWin      bool
	}{
		{"perfect hard run", 95, 25, "hard", 90, 6.0, true},     // 2 * 2 * 1.5
		{"good medium run", 75, 45, "medium", 40, 2.7, true},    // 1.5 * 1.5 * 1.2
		{"barely won easy", 50, 90, "easy", 18, 1.2, true},      // 1 * 1.2 * 1
		{"lost easy game", 30, 20, "easy", 22, 1.5, false},      // 1 * 1 * 1.5
		{"zero score", 0, 120, "easy", 15, 1.0, false},
		{"win boundary", 49, 120, "hard", 30, 2.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MinigameReward(15, tt.score, tt.timeSec, tt.difficulty)
			assert.Equal(t, tt.reward, result.Reward)
			assert.InDelta(t, tt.multiplier, result.Multiplier, 0.0001)
			assert.Equal(t, tt.isWin, result.IsWin)
		})
	}
}

func TestMinigameRewardProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Int64Range(1, 1000).Draw(t, "base")
		score := rapid.IntRange(0, 100).Draw(t, "score")
		timeSec := rapid.IntRange(0, 600).Draw(t, "time")
		difficulty := rapid.SampledFrom([]string{"easy", "medium", "hard"}).Draw(t, "difficulty")

		result := MinigameReward(base, score, timeSec, difficulty)

		if result.IsWin != (score >= 50) {
			t.Fatalf("win flag wrong for score %d: got %v", score, result.IsWin)
		}
		if result.Multiplier < 1.0 || result.Multiplier > 6.0 {
			t.Fatalf("multiplier %f out of [1, 6]", result.Multiplier)
		}
		expected := int64(math.Floor(float64(base) * result.Multiplier))
		if result.Reward != expected {
			t.Fatalf("reward %d does not match floor(base * multiplier) = %d", result.Reward, expected)
		}
	})
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	twoDaysAgo := now.AddDate(0, 0, -2)
	// 23:59 UTC yesterday is still yesterday's date
	lateYesterday := time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name      string
		streak    int
		lastLogin *time.Time
		expected  int
	}{
		{"first ever login", 5, nil, 1},
		{"consecutive day continues", 3, &yesterday, 4},
		{"late yesterday still counts", 6, &lateYesterday, 7},
		{"gap resets", 10, &twoDaysAgo, 1},
		{"same day resets", 4, &now, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextStreak(tt.streak, tt.lastLogin, now))
		})
	}
}

func TestDailyLoginReward(t *testing.T) {
	tests := []struct {
		name     string
		streak   int
		expected int64
	}{
		{"day one", 1, 60},    // 50 * 1.2
		{"day three", 3, 80},  // 50 * 1.6
		{"day seven", 7, 120}, // 50 * 2.4
		{"streak caps at seven", 30, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DailyLoginReward(50, tt.streak))
		})
	}
}

func TestStreakMultiplierBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		streak := rapid.IntRange(1, 10000).Draw(t, "streak")
		m := StreakMultiplier(streak)
		if m < 1.2 || m > 2.4 {
			t.Fatalf("multiplier %f out of [1.2, 2.4] for streak %d", m, streak)
		}
	})
}
