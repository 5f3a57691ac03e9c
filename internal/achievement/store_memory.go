package achievement

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pokegame/pkg/platform/sentinel"
)

type dexKey struct {
	playerID  int64
	speciesID int64
}

type badgeKey struct {
	playerID int64
	gymID    int64
}

type specialKey struct {
	playerID  int64
	badgeType string
}

// InMemoryStore keeps achievements in maps, for unit tests.
type InMemoryStore struct {
	mu      sync.Mutex
	dex     map[dexKey]*PokedexEntry
	badges  map[badgeKey]Badge
	special map[specialKey]SpecialBadge

	// fault injection
	FailInsertSpecialBadge bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		dex:     make(map[dexKey]*PokedexEntry),
		badges:  make(map[badgeKey]Badge),
		special: make(map[specialKey]SpecialBadge),
	}
}

type memSnapshot struct {
	dex     map[dexKey]PokedexEntry
	badges  map[badgeKey]Badge
	special map[specialKey]SpecialBadge
}

// Snapshot implements tx.Snapshotter.
func (s *InMemoryStore) Snapshot() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &memSnapshot{
		dex:     make(map[dexKey]PokedexEntry, len(s.dex)),
		badges:  make(map[badgeKey]Badge, len(s.badges)),
		special: make(map[specialKey]SpecialBadge, len(s.special)),
	}
	for k, v := range s.dex {
		snap.dex[k] = *v
	}
	for k, v := range s.badges {
		snap.badges[k] = v
	}
	for k, v := range s.special {
		snap.special[k] = v
	}
	return snap
}

// Restore implements tx.Snapshotter.
func (s *InMemoryStore) Restore(snapshot any) {
	snap := snapshot.(*memSnapshot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dex = make(map[dexKey]*PokedexEntry, len(snap.dex))
	for k, v := range snap.dex {
		entry := v
		s.dex[k] = &entry
	}
	s.badges = make(map[badgeKey]Badge, len(snap.badges))
	for k, v := range snap.badges {
		s.badges[k] = v
	}
	s.special = make(map[specialKey]SpecialBadge, len(snap.special))
	for k, v := range snap.special {
		s.special[k] = v
	}
}

func (s *InMemoryStore) UpsertPokedexEntry(_ context.Context, playerID, speciesID int64, name, sprite string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := dexKey{playerID, speciesID}
	if e, ok := s.dex[k]; ok {
		e.TotalCaught++
		return false, nil
	}
	s.dex[k] = &PokedexEntry{
		SpeciesID: speciesID, Name: name, Sprite: sprite,
		FirstCaughtAt: time.Now(), TotalCaught: 1,
	}
	return true, nil
}

func (s *InMemoryStore) ListPokedex(_ context.Context, playerID int64) ([]PokedexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []PokedexEntry
	for k, e := range s.dex {
		if k.playerID == playerID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SpeciesID < entries[j].SpeciesID })
	return entries, nil
}

func (s *InMemoryStore) PokedexStats(_ context.Context, playerID int64) (int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var discovered int
	var totalCaught int64
	for k, e := range s.dex {
		if k.playerID == playerID {
			discovered++
			totalCaught += e.TotalCaught
		}
	}
	return discovered, totalCaught, nil
}

func (s *InMemoryStore) InsertBadge(_ context.Context, playerID, gymID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := badgeKey{playerID, gymID}
	if _, owned := s.badges[k]; owned {
		return sentinel.ErrConflict
	}
	s.badges[k] = Badge{GymID: gymID, EarnedAt: time.Now()}
	return nil
}

func (s *InMemoryStore) ListBadges(_ context.Context, playerID int64) ([]Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var badges []Badge
	for k, b := range s.badges {
		if k.playerID == playerID {
			badges = append(badges, b)
		}
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].GymID < badges[j].GymID })
	return badges, nil
}

func (s *InMemoryStore) InsertSpecialBadge(_ context.Context, playerID int64, badgeType, badgeName string) error {
	if s.FailInsertSpecialBadge {
		return errors.New("badge store down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := specialKey{playerID, badgeType}
	if _, owned := s.special[k]; owned {
		return sentinel.ErrConflict
	}
	s.special[k] = SpecialBadge{BadgeType: badgeType, BadgeName: badgeName, EarnedAt: time.Now()}
	return nil
}

func (s *InMemoryStore) ListSpecialBadges(_ context.Context, playerID int64) ([]SpecialBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var badges []SpecialBadge
	for k, b := range s.special {
		if k.playerID == playerID {
			badges = append(badges, b)
		}
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].EarnedAt.After(badges[j].EarnedAt) })
	return badges, nil
}
