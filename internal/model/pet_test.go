package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func newTestPet(now time.Time) *Pet {
	return &Pet{
		ID: 1, OwnerID: 1, Name: "Mochi", Type: "cat",
		Hunger: 50, Happiness: 50, Level: 1, XP: 0,
		Abilities: PetAbilities["cat"],
		LastFed:   now, LastPlayed: now,
	}
}

func TestPetFeed(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pet := newTestPet(now)

	levels := pet.Feed(now)

	assert.Equal(t, 70, pet.Hunger)
	assert.Equal(t, 60, pet.Happiness)
	assert.Equal(t, int64(10), pet.XP)
	assert.Equal(t, 1, pet.FeedCount)
	assert.Equal(t, now, pet.LastFed)
	assert.Equal(t, 0, levels)
}

func TestPetPlay(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pet := newTestPet(now)

	levels := pet.Play(now)

	assert.Equal(t, 70, pet.Happiness)
	assert.Equal(t, 45, pet.Hunger)
	assert.Equal(t, int64(15), pet.XP)
	assert.Equal(t, 1, pet.PlayCount)
	assert.Equal(t, 0, levels)
}

func TestPetStatsClamp(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pet := newTestPet(now)
	pet.Hunger = 95
	pet.Happiness = 98

	pet.Feed(now)
	assert.Equal(t, 100, pet.Hunger)
	assert.Equal(t, 100, pet.Happiness)

	pet.Hunger = 2
	pet.Play(now)
	assert.Equal(t, 0, pet.Hunger)
}

func TestPetDecay(t *testing.T) {
	start := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pet := newTestPet(start)

	// 4 hours: hunger -20, happiness -12
	pet.ApplyDecay(start.Add(4 * time.Hour))
	assert.Equal(t, 30, pet.Hunger)
	assert.Equal(t, 38, pet.Happiness)

	// Long absence clamps at zero
	pet2 := newTestPet(start)
	pet2.ApplyDecay(start.Add(48 * time.Hour))
	assert.Equal(t, 0, pet2.Hunger)
	assert.Equal(t, 0, pet2.Happiness)
}

func TestPetDecayedCopyLeavesOriginalUntouched(t *testing.T) {
	start := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pet := newTestPet(start)

	at := start.Add(2 * time.Hour)
	snap := pet.DecayedCopy(at)

	assert.NotSame(t, pet, snap)
	assert.Equal(t, 40, snap.Hunger)
	assert.Equal(t, 44, snap.Happiness)

	// The receiver keeps its stored stats
	assert.Equal(t, 50, pet.Hunger)
	assert.Equal(t, 50, pet.Happiness)

	// A second read at the same instant sees the same stats, not
	// compounded decay
	again := pet.DecayedCopy(at)
	assert.Equal(t, snap.Hunger, again.Hunger)
	assert.Equal(t, snap.Happiness, again.Happiness)
}

func TestPetLevelUp(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pet := newTestPet(now)
	pet.XP = 95

	// Feed adds 10 xp: 105 >= 100, level up with 5 carryover
	levels := pet.Feed(now)
	assert.Equal(t, 1, levels)
	assert.Equal(t, 2, pet.Level)
	assert.Equal(t, int64(5), pet.XP)

	// Next threshold is 200 now
	assert.Equal(t, int64(200), pet.XPForNextLevel())
}

func TestPetMultiLevelUp(t *testing.T) {
	pet := &Pet{Level: 1, XP: 0}
	pet.XP = 350

	levels := pet.levelUp()
	// 350 -> level 2 (250 left) -> level 3 (50 left); next needs 300
	assert.Equal(t, 2, levels)
	assert.Equal(t, 3, pet.Level)
	assert.Equal(t, int64(50), pet.XP)
}

func TestPetLevelUpInvariantProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, 50).Draw(t, "level")
		xp := rapid.Int64Range(0, 100000).Draw(t, "xp")

		pet := &Pet{Level: level, XP: xp}
		pet.levelUp()

		if pet.XP < 0 {
			t.Fatalf("xp went negative: %d", pet.XP)
		}
		if pet.XP >= pet.XPForNextLevel() {
			t.Fatalf("leftover xp %d still reaches threshold %d at level %d",
				pet.XP, pet.XPForNextLevel(), pet.Level)
		}
		if pet.Level < level {
			t.Fatalf("level decreased from %d to %d", level, pet.Level)
		}
	})
}

func TestPetAcceptsItem(t *testing.T) {
	pet := &Pet{Type: "cat"}

	assert.True(t, pet.AcceptsItem(&Item{PetTypes: []string{"all"}}))
	assert.True(t, pet.AcceptsItem(&Item{PetTypes: []string{"cat", "dog"}}))
	assert.False(t, pet.AcceptsItem(&Item{PetTypes: []string{"dog"}}))
	assert.False(t, pet.AcceptsItem(&Item{PetTypes: nil}))
}

func TestPetHasAbility(t *testing.T) {
	pet := &Pet{Abilities: PetAbilities["rabbit"]}

	assert.True(t, pet.HasAbility("Speed Up"))
	assert.True(t, pet.HasAbility("Double Feed"))
	assert.False(t, pet.HasAbility("Heal"))
}

func TestValidPetType(t *testing.T) {
	for _, typ := range []string{"cat", "dog", "rabbit", "bird", "fish"} {
		assert.True(t, ValidPetType(typ), typ)
	}
	assert.False(t, ValidPetType("dragon"))
	assert.False(t, ValidPetType(""))
}

func TestAbilityEffectsCoverAllPetAbilities(t *testing.T) {
	for petType, abilities := range PetAbilities {
		for _, ability := range abilities {
			_, ok := AbilityEffects[ability]
			assert.True(t, ok, "missing effect for %s ability %q", petType, ability)
		}
	}
}

func TestDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)

	// 02:00 on the 15th in UTC+7 is still the 14th in UTC
	local := time.Date(2025, 6, 15, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), DayUTC(local))

	utc := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), DayUTC(utc))
}
