// Package catalog provides read-only reference data: species, gyms, and ball
// types. Data is loaded wholesale into a process-wide cache and refreshed on a
// TTL; mutation happens through external tooling, never through this server.
package catalog

// Species is one creature kind from the reference catalog.
type Species struct {
	ID            int64
	Name          string
	BaseCatchRate float64
	Type1         string
	Type2         string
	Sprite        string
}

// Gym is a static opponent with a badge and a currency reward.
type Gym struct {
	ID          int64
	Name        string
	LeaderName  string
	SpeciesID   int64
	SpeciesName string
	Sprite      string
	Level       int
	HP          int
	Attack      int
	RewardMoney int64
	BadgeName   string
}

// BallType maps an item type to its capture multiplier and shop price.
type BallType struct {
	ID         int64
	Name       string
	Multiplier float64
	Price      int64
}

// Ball type ids are fixed catalog rows; the master ball is the always-catch case.
const (
	BallBasic  int64 = 1
	BallSuper  int64 = 2
	BallHyper  int64 = 3
	BallMaster int64 = 4
)
