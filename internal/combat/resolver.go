// Package combat resolves battle turns. There is no server-held battle
// session: each turn receives the full state of both combatants from the
// caller and returns the next state. The server validates invariants on the
// snapshots (HP bounds, positive attack) but does not authenticate their
// history between turns.
package combat

import (
	"fmt"

	"pokegame/pkg/platform/rng"
)

// Snapshot is one combatant's state for a single turn, round-tripped through
// the caller between turns.
type Snapshot struct {
	Name   string `json:"name"`
	Level  int    `json:"level"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"maxHp"`
	Attack int    `json:"attack"`
}

// Turn is the outcome of one exchange of blows.
type Turn struct {
	Player        Snapshot `json:"player"`
	Enemy         Snapshot `json:"enemy"`
	PlayerDamage  int      `json:"playerDamage"`
	CounterDamage int      `json:"counterDamage"`
	BattleEnded   bool     `json:"battleEnded"`
	Victory       bool     `json:"victory"`
	Log           []string `json:"battleLog"`
}

// Resolver rolls damage for single turns. Stateless; all state lives in the
// snapshots.
type Resolver struct {
	random rng.RNG
}

func NewResolver(random rng.RNG) *Resolver {
	return &Resolver{random: random}
}

// ResolveTurn applies the player's strike and, when the enemy survives, the
// counter-attack. HP never drops below zero.
func (r *Resolver) ResolveTurn(player, enemy Snapshot) Turn {
	t := Turn{Player: player, Enemy: enemy}

	t.PlayerDamage = r.random.IntN(player.Attack) + 5
	t.Enemy.HP -= t.PlayerDamage
	t.Log = append(t.Log, fmt.Sprintf("Your %s dealt %d damage!", player.Name, t.PlayerDamage))

	if t.Enemy.HP <= 0 {
		t.Enemy.HP = 0
		t.BattleEnded = true
		t.Victory = true
		t.Log = append(t.Log, fmt.Sprintf("%s was defeated!", enemy.Name))
		return t
	}

	t.CounterDamage = r.random.IntN(enemy.Attack) + 3
	t.Player.HP -= t.CounterDamage
	t.Log = append(t.Log, fmt.Sprintf("Enemy %s dealt %d damage!", enemy.Name, t.CounterDamage))

	if t.Player.HP <= 0 {
		t.Player.HP = 0
		t.BattleEnded = true
		t.Log = append(t.Log, fmt.Sprintf("Your %s fainted!", player.Name))
	}
	return t
}

// WildReward rolls the money dropped by a defeated wild creature.
func (r *Resolver) WildReward() int64 {
	return int64(r.random.IntN(50) + 50)
}

// ExperienceFor returns the experience a victory grants, scaled by the
// opponent's level. Gyms pay more.
func ExperienceFor(enemyLevel int, isGym bool) int {
	if isGym {
		return enemyLevel * 50
	}
	return enemyLevel * 20
}
