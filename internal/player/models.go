// Package player owns player records: identity-adjacent fields, the currency
// balance, and lifetime counters feeding the leaderboard.
package player

import "time"

type Player struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Money         int64     `json:"money"`
	PokemonCaught int64     `json:"pokemonCaught"`
	GymsDefeated  int64     `json:"gymsDefeated"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LeaderboardEntry is a ranked player summary.
type LeaderboardEntry struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	PokemonCaught int64  `json:"pokemonCaught"`
	GymsDefeated  int64  `json:"gymsDefeated"`
	Money         int64  `json:"money"`
}

// New players start with enough money and balls for their first captures.
const (
	StartingMoney     int64 = 1000
	StartingBallCount       = 5
)
