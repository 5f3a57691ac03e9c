// Package progression owns the experience curve, leveling, and attribute
// growth. Experience is stored per level: the exp column always holds progress
// within the current level, never a lifetime total.
package progression

import (
	"fmt"

	"pokegame/pkg/platform/rng"
)

// MaxLevel caps creature growth. A creature at MaxLevel discards all
// further experience.
const MaxLevel = 100

// Stats is the mutable slice of a creature the engine operates on.
type Stats struct {
	Name   string
	Level  int
	Exp    int
	MaxHP  int
	Attack int
}

// Result reports what ApplyExperience did.
type Result struct {
	ExpGained    int    `json:"expGained"`
	LeveledUp    bool   `json:"leveledUp"`
	LevelsGained int    `json:"levelsGained"`
	HPGained     int    `json:"hpGained"`
	AttackGained int    `json:"attackGained"`
	NewLevel     int    `json:"newLevel"`
	NewExp       int    `json:"newExp"`
	NewMaxHP     int    `json:"newMaxHp"`
	NewAttack    int    `json:"newAttack"`
	Message      string `json:"message"`
}

// Engine applies experience through the growth table.
type Engine struct {
	table  *GrowthTable
	random rng.RNG
}

func NewEngine(table *GrowthTable, random rng.RNG) *Engine {
	return &Engine{table: table, random: random}
}

// ExpForLevel returns the experience required to advance out of level.
// This is the deterministic fallback formula; the growth table may override it
// with catalog data when loaded.
func ExpForLevel(level int) int {
	if level <= 1 {
		return 100
	}
	return 100 + (level-1)*15 + (level-1)*(level-1)*2
}

// ApplyExperience adds gained experience to the stats, resolving as many
// level-ups as the curve allows. Current HP is deliberately left alone:
// healing only happens on combat victory.
func (e *Engine) ApplyExperience(s Stats, gained int) Result {
	if s.Level >= MaxLevel {
		return Result{
			NewLevel:  s.Level,
			NewExp:    0,
			NewMaxHP:  s.MaxHP,
			NewAttack: s.Attack,
			Message:   fmt.Sprintf("%s is already at max level %d!", s.Name, MaxLevel),
		}
	}

	exp := s.Exp + gained
	level := s.Level
	maxHP := s.MaxHP
	attack := s.Attack
	levelsGained := 0

	for level < MaxLevel && exp >= e.table.ExpForLevel(level) {
		exp -= e.table.ExpForLevel(level)
		level++
		levelsGained++

		// HP growth: base 4-8, +1 per 10 levels. Attack: base 2-4, +1 per 15.
		maxHP += e.random.IntN(5) + 4 + level/10
		attack += e.random.IntN(3) + 2 + level/15
	}

	if level >= MaxLevel {
		level = MaxLevel
		exp = 0
	}

	res := Result{
		ExpGained:    gained,
		LeveledUp:    levelsGained > 0,
		LevelsGained: levelsGained,
		HPGained:     maxHP - s.MaxHP,
		AttackGained: attack - s.Attack,
		NewLevel:     level,
		NewExp:       exp,
		NewMaxHP:     maxHP,
		NewAttack:    attack,
	}
	if res.LeveledUp {
		res.Message = fmt.Sprintf("%s leveled up to %d! HP +%d, Attack +%d",
			s.Name, level, res.HPGained, res.AttackGained)
	} else {
		res.Message = fmt.Sprintf("%s gained %d experience!", s.Name, gained)
	}
	return res
}
