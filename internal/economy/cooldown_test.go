package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCanPerform(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cooldown := 5 * time.Minute

	threeMinAgo := now.Add(-3 * time.Minute)
	fiveMinAgo := now.Add(-5 * time.Minute)
	tenMinAgo := now.Add(-10 * time.Minute)

	tests := []struct {
		name     string
		last     *time.Time
		expected bool
	}{
		{"never performed", nil, true},
		{"still cooling down", &threeMinAgo, false},
		{"exactly elapsed", &fiveMinAgo, true},
		{"long elapsed", &tenMinAgo, true},
		{"just performed", &now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanPerform(tt.last, cooldown, now))
		})
	}
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cooldown := 10 * time.Minute

	assert.Equal(t, time.Duration(0), Remaining(nil, cooldown, now))

	threeMinAgo := now.Add(-3 * time.Minute)
	assert.Equal(t, 7*time.Minute, Remaining(&threeMinAgo, cooldown, now))

	longAgo := now.Add(-time.Hour)
	assert.Equal(t, time.Duration(0), Remaining(&longAgo, cooldown, now))
}

func TestRemainingMinutes(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cooldown := 10 * time.Minute

	// Partial minutes round up
	justNow := now.Add(-30 * time.Second)
	assert.Equal(t, 10, RemainingMinutes(&justNow, cooldown, now))

	sevenAndABitAgo := now.Add(-7*time.Minute - 10*time.Second)
	assert.Equal(t, 3, RemainingMinutes(&sevenAndABitAgo, cooldown, now))

	exactlySeven := now.Add(-7 * time.Minute)
	assert.Equal(t, 3, RemainingMinutes(&exactlySeven, cooldown, now))

	assert.Equal(t, 0, RemainingMinutes(nil, cooldown, now))
}

func TestCooldownGateConsistencyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cooldownSec := rapid.Int64Range(1, 86400).Draw(t, "cooldownSec")
		elapsedSec := rapid.Int64Range(0, 172800).Draw(t, "elapsedSec")

		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		cooldown := time.Duration(cooldownSec) * time.Second
		last := now.Add(-time.Duration(elapsedSec) * time.Second)

		can := CanPerform(&last, cooldown, now)
		left := Remaining(&last, cooldown, now)

		if can != (left == 0) {
			t.Fatalf("CanPerform=%v disagrees with Remaining=%v (cooldown=%v, elapsed=%ds)",
				can, left, cooldown, elapsedSec)
		}
		if left < 0 || left > cooldown {
			t.Fatalf("Remaining %v out of [0, %v]", left, cooldown)
		}
	})
}
