package progression

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TableSource supplies the cumulative experience table, e.g. from an external
// growth-rate dataset. Returning a map of level to required exp is enough; gaps
// fall back to the formula.
type TableSource interface {
	LoadGrowthTable(ctx context.Context) (map[int]int, error)
}

// GrowthTable is the process-wide experience-curve cache. Like the species
// catalog it loads lazily, refreshes wholesale after the TTL, and never makes
// a reader block on a miss: when the source is unavailable the deterministic
// formula answers instead.
type GrowthTable struct {
	source TableSource
	ttl    time.Duration

	mu       sync.RWMutex
	levels   map[int]int
	loadedAt time.Time

	group singleflight.Group
	now   func() time.Time
}

func NewGrowthTable(source TableSource, ttl time.Duration) *GrowthTable {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &GrowthTable{source: source, ttl: ttl, now: time.Now}
}

// NewFormulaTable returns a table with no external source; every lookup uses
// the formula. Useful for tests and for running without catalog data.
func NewFormulaTable() *GrowthTable {
	return &GrowthTable{ttl: 24 * time.Hour, now: time.Now}
}

// ExpForLevel returns the experience needed to advance out of level, from the
// cached table when available and the formula otherwise.
func (t *GrowthTable) ExpForLevel(level int) int {
	t.mu.RLock()
	levels := t.levels
	stale := t.levels == nil || t.now().Sub(t.loadedAt) >= t.ttl
	t.mu.RUnlock()

	if stale && t.source != nil {
		// Kick a background refresh; the caller gets an answer immediately.
		go t.refresh()
	}

	if levels != nil {
		if exp, ok := levels[level]; ok {
			return exp
		}
	}
	return ExpForLevel(level)
}

func (t *GrowthTable) refresh() {
	_, _, _ = t.group.Do("growth", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		table, err := t.source.LoadGrowthTable(ctx)
		if err != nil || len(table) == 0 {
			return nil, err
		}
		t.mu.Lock()
		t.levels = table
		t.loadedAt = t.now()
		t.mu.Unlock()
		return nil, nil
	})
}
