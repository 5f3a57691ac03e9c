package player

import (
	"context"
	"sort"
	"sync"
	"time"

	"pokegame/pkg/platform/sentinel"
)

// InMemoryStore keeps players in a map, for unit tests.
type InMemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	players map[int64]Player
	byName  map[string]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		players: make(map[int64]Player),
		byName:  make(map[string]int64),
	}
}

type memSnapshot struct {
	nextID  int64
	players map[int64]Player
	byName  map[string]int64
}

// Snapshot implements tx.Snapshotter.
func (s *InMemoryStore) Snapshot() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := make(map[int64]Player, len(s.players))
	for k, v := range s.players {
		players[k] = v
	}
	byName := make(map[string]int64, len(s.byName))
	for k, v := range s.byName {
		byName[k] = v
	}
	return &memSnapshot{nextID: s.nextID, players: players, byName: byName}
}

// Restore implements tx.Snapshotter.
func (s *InMemoryStore) Restore(snapshot any) {
	snap := snapshot.(*memSnapshot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.players = snap.players
	s.byName = snap.byName
}

func (s *InMemoryStore) Create(_ context.Context, name string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[name]; taken {
		return nil, sentinel.ErrConflict
	}
	s.nextID++
	p := Player{ID: s.nextID, Name: name, Money: StartingMoney, CreatedAt: time.Now()}
	s.players[p.ID] = p
	s.byName[name] = p.ID
	return &p, nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) AdjustMoney(_ context.Context, id int64, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if p.Money+delta < 0 {
		return sentinel.ErrInvalidState
	}
	p.Money += delta
	s.players[id] = p
	return nil
}

func (s *InMemoryStore) IncrementCaught(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.PokemonCaught++
	s.players[id] = p
	return nil
}

func (s *InMemoryStore) IncrementGymsDefeated(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.GymsDefeated++
	s.players[id] = p
	return nil
}

func (s *InMemoryStore) Leaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]LeaderboardEntry, 0, len(s.players))
	for _, p := range s.players {
		entries = append(entries, LeaderboardEntry{
			ID: p.ID, Name: p.Name, PokemonCaught: p.PokemonCaught,
			GymsDefeated: p.GymsDefeated, Money: p.Money,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.PokemonCaught != b.PokemonCaught {
			return a.PokemonCaught > b.PokemonCaught
		}
		if a.GymsDefeated != b.GymsDefeated {
			return a.GymsDefeated > b.GymsDefeated
		}
		return a.Money > b.Money
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
