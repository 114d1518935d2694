package model

import "time"

// Pet stat constants.
const (
	statMin = 0
	statMax = 100

	hungerDecayPerHour    = 5
	happinessDecayPerHour = 3

	// XP needed for the next level is level * xpPerLevel.
	xpPerLevel = 100
)

func clampStat(v int) int {
	if v < statMin {
		return statMin
	}
	if v > statMax {
		return statMax
	}
	return v
}

// ApplyDecay declines hunger and happiness for the time elapsed since
// the pet was last fed and played with. Called lazily before any read
// or mutation of the stats.
func (p *Pet) ApplyDecay(now time.Time) {
	hoursSinceFed := now.Sub(p.LastFed).Hours()
	hoursSincePlayed := now.Sub(p.LastPlayed).Hours()

	p.Hunger = clampStat(p.Hunger - int(hoursSinceFed*hungerDecayPerHour))
	p.Happiness = clampStat(p.Happiness - int(hoursSincePlayed*happinessDecayPerHour))
}

// DecayedCopy returns a snapshot with decay applied, leaving the
// receiver untouched. Read paths serve these snapshots so objects held
// by the shared cache are never mutated.
func (p *Pet) DecayedCopy(now time.Time) *Pet {
	cp := *p
	cp.ApplyDecay(now)
	return &cp
}

// Feed applies the feed action: hunger +20, happiness +10, xp +10.
// Returns the number of levels gained.
func (p *Pet) Feed(now time.Time) int {
	p.ApplyDecay(now)
	p.Hunger = clampStat(p.Hunger + 20)
	p.Happiness = clampStat(p.Happiness + 10)
	p.XP += 10
	p.LastFed = now
	p.FeedCount++
	return p.levelUp()
}

// Play applies the play action: happiness +20, hunger -5, xp +15.
// Returns the number of levels gained.
func (p *Pet) Play(now time.Time) int {
	p.ApplyDecay(now)
	p.Happiness = clampStat(p.Happiness + 20)
	p.Hunger = clampStat(p.Hunger - 5)
	p.XP += 15
	p.LastPlayed = now
	p.PlayCount++
	return p.levelUp()
}

// ApplyItem applies a consumable item's effects to the pet.
// Returns the number of levels gained.
func (p *Pet) ApplyItem(item *Item) int {
	p.Hunger = clampStat(p.Hunger + item.EffectHunger)
	p.Happiness = clampStat(p.Happiness + item.EffectHappiness)
	p.XP += item.EffectXP
	return p.levelUp()
}

// ApplyAbility applies an ability effect to the pet's own stats. Coin
// effects are on the owner's ledger and handled by the caller.
// Returns the number of levels gained.
func (p *Pet) ApplyAbility(e AbilityEffect) int {
	p.Hunger = clampStat(p.Hunger + e.Hunger)
	p.Happiness = clampStat(p.Happiness + e.Happiness)
	p.XP += e.XP
	return p.levelUp()
}

// HasAbility reports whether the pet knows the named ability.
func (p *Pet) HasAbility(name string) bool {
	for _, a := range p.Abilities {
		if a == name {
			return true
		}
	}
	return false
}

// AcceptsItem reports whether an item is compatible with the pet's type.
func (p *Pet) AcceptsItem(item *Item) bool {
	for _, t := range item.PetTypes {
		if t == "all" || t == p.Type {
			return true
		}
	}
	return false
}

// XPForNextLevel returns the XP threshold for the next level.
func (p *Pet) XPForNextLevel() int64 {
	return int64(p.Level) * xpPerLevel
}

// levelUp consumes XP into levels; leftover XP carries over.
func (p *Pet) levelUp() int {
	levels := 0
	for p.XP >= p.XPForNextLevel() {
		p.XP -= p.XPForNextLevel()
		p.Level++
		levels++
	}
	return levels
}

// AbilityEffect describes what using an ability does.
type AbilityEffect struct {
	Happiness int
	Hunger    int
	XP        int64
	Coins     int64
	Message   string
}

// AbilityEffects maps ability names to their effects.
var AbilityEffects = map[string]AbilityEffect{
	"Heal":        {Happiness: 20, Message: "Pet happiness restored!"},
	"Lucky":       {Coins: 10, Message: "Bonus coins received!"},
	"Guard":       {Message: "Hunger decay reduced!"},
	"Fetch":       {Coins: 5, Message: "Pet found some coins!"},
	"Speed Up":    {XP: 15, Message: "XP boosted!"},
	"Double Feed": {Hunger: 30, Message: "Double feed effect!"},
	"Sing":        {Happiness: 10, Message: "All pets feel happier!"},
	"Scout":       {Message: "Pet scouted and found something!"},
	"Splash":      {Hunger: 20, Message: "Pet hunger restored!"},
	"Treasure":    {Coins: 20, Message: "Rare treasure found!"},
}
