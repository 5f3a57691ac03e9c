// Package roster manages a player's single active creature and unbounded
// storage. The active slot is hard-pinned to one row per player; this is an
// invariant of the game rules, not a configurable capacity.
package roster

import "time"

// Creature is an owned creature instance, either in the active slot or in
// storage. Exp is only tracked while the creature is active; storage rows
// keep it at zero.
type Creature struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"playerId"`
	SpeciesID int64     `json:"speciesId"`
	Name      string    `json:"name"`
	Sprite    string    `json:"sprite,omitempty"`
	Level     int       `json:"level"`
	Exp       int       `json:"exp"`
	HP        int       `json:"hp"`
	MaxHP     int       `json:"maxHp"`
	Attack    int       `json:"attack"`
	CaughtAt  time.Time `json:"caughtAt"`
}

// Location names where a captured creature ended up.
type Location string

const (
	LocationParty   Location = "party"
	LocationStorage Location = "storage"
)
