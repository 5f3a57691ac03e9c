package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pokegame/pkg/platform/sentinel"
)

// Provider is the process-wide catalog cache. The snapshot is loaded lazily on
// first use and replaced wholesale once it is older than the TTL. Concurrent
// refreshes collapse into a single load that all stale readers wait on; if that
// load fails, the previous snapshot keeps serving.
type Provider struct {
	store Store
	ttl   time.Duration

	mu       sync.RWMutex
	snapshot *snapshot

	group singleflight.Group
	now   func() time.Time
}

type snapshot struct {
	species   []Species
	speciesBy map[int64]Species
	gyms      []Gym
	gymsBy    map[int64]Gym
	balls     []BallType
	ballsBy   map[int64]BallType
	loadedAt  time.Time
}

func NewProvider(store Store, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Provider{store: store, ttl: ttl, now: time.Now}
}

func (p *Provider) current(ctx context.Context) (*snapshot, error) {
	p.mu.RLock()
	snap := p.snapshot
	p.mu.RUnlock()

	if snap != nil && p.now().Sub(snap.loadedAt) < p.ttl {
		return snap, nil
	}

	fresh, err, _ := p.group.Do("catalog", func() (any, error) {
		return p.load(ctx)
	})
	if err != nil {
		// Serve the stale snapshot over failing the caller outright.
		if snap != nil {
			return snap, nil
		}
		return nil, sentinel.ErrUnavailable
	}

	next := fresh.(*snapshot)
	p.mu.Lock()
	p.snapshot = next
	p.mu.Unlock()
	return next, nil
}

func (p *Provider) load(ctx context.Context) (*snapshot, error) {
	species, err := p.store.LoadSpecies(ctx)
	if err != nil {
		return nil, err
	}
	gyms, err := p.store.LoadGyms(ctx)
	if err != nil {
		return nil, err
	}
	balls, err := p.store.LoadBallTypes(ctx)
	if err != nil {
		return nil, err
	}
	if len(species) == 0 {
		return nil, sentinel.ErrUnavailable
	}

	snap := &snapshot{
		species:   species,
		speciesBy: make(map[int64]Species, len(species)),
		gyms:      gyms,
		gymsBy:    make(map[int64]Gym, len(gyms)),
		balls:     balls,
		ballsBy:   make(map[int64]BallType, len(balls)),
		loadedAt:  p.now(),
	}
	for _, sp := range species {
		snap.speciesBy[sp.ID] = sp
	}
	for _, g := range gyms {
		snap.gymsBy[g.ID] = g
	}
	for _, b := range balls {
		snap.ballsBy[b.ID] = b
	}
	return snap, nil
}

// SpeciesList returns every species in the catalog.
func (p *Provider) SpeciesList(ctx context.Context) ([]Species, error) {
	snap, err := p.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.species, nil
}

// SpeciesByID looks up one species.
func (p *Provider) SpeciesByID(ctx context.Context, id int64) (Species, error) {
	snap, err := p.current(ctx)
	if err != nil {
		return Species{}, err
	}
	sp, ok := snap.speciesBy[id]
	if !ok {
		return Species{}, sentinel.ErrNotFound
	}
	return sp, nil
}

// TotalSpecies reports the catalog size, used for the full-pokedex milestone.
func (p *Provider) TotalSpecies(ctx context.Context) (int, error) {
	snap, err := p.current(ctx)
	if err != nil {
		return 0, err
	}
	return len(snap.species), nil
}

// Gyms returns every gym.
func (p *Provider) Gyms(ctx context.Context) ([]Gym, error) {
	snap, err := p.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.gyms, nil
}

// GymByID looks up one gym.
func (p *Provider) GymByID(ctx context.Context, id int64) (Gym, error) {
	snap, err := p.current(ctx)
	if err != nil {
		return Gym{}, err
	}
	g, ok := snap.gymsBy[id]
	if !ok {
		return Gym{}, sentinel.ErrNotFound
	}
	return g, nil
}

// BallTypes returns the shop inventory.
func (p *Provider) BallTypes(ctx context.Context) ([]BallType, error) {
	snap, err := p.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.balls, nil
}

// BallTypeByID looks up one ball type.
func (p *Provider) BallTypeByID(ctx context.Context, id int64) (BallType, error) {
	snap, err := p.current(ctx)
	if err != nil {
		return BallType{}, err
	}
	b, ok := snap.ballsBy[id]
	if !ok {
		return BallType{}, sentinel.ErrNotFound
	}
	return b, nil
}
