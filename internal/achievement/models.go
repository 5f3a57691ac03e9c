// Package achievement tracks species discovery (the pokedex) and one-time
// badge milestones.
package achievement

import "time"

// PokedexEntry is a player's discovery record for one species, with a running
// capture count.
type PokedexEntry struct {
	SpeciesID     int64     `json:"speciesId"`
	Name          string    `json:"name"`
	Sprite        string    `json:"sprite"`
	FirstCaughtAt time.Time `json:"firstCaughtAt"`
	TotalCaught   int64     `json:"totalCaught"`
}

// PokedexStats summarizes a player's pokedex progress.
type PokedexStats struct {
	Discovered  int   `json:"discovered"`
	Total       int   `json:"total"`
	TotalCaught int64 `json:"totalCaught"`
}

// Badge is one earned gym badge.
type Badge struct {
	GymID     int64     `json:"gymId"`
	GymName   string    `json:"gymName"`
	BadgeName string    `json:"badgeName"`
	EarnedAt  time.Time `json:"earnedAt"`
}

// SpecialBadge is a one-time milestone award.
type SpecialBadge struct {
	BadgeType string    `json:"badgeType"`
	BadgeName string    `json:"badgeName"`
	EarnedAt  time.Time `json:"earnedAt"`
}

const (
	// FullPokedexBonus is paid once when a player discovers every species.
	FullPokedexBonus = 10000

	badgeTypeFullPokedex = "full_pokedex"
	badgeNameFullPokedex = "National Pokedex Master"
)
