// Package economy owns the player's currency and item holdings: the shop
// purchase flow and the ball inventory consumed during captures.
package economy

// ItemStock is one ball type held by a player, joined with its catalog row
// so listings carry the display name and price.
type ItemStock struct {
	BallTypeID int64   `json:"ballTypeId"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Price      int64   `json:"price"`
	Quantity   int     `json:"quantity"`
}
