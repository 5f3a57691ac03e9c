package roster

import (
	"context"
	"sync"
	"time"

	"pokegame/pkg/platform/sentinel"
)

// InMemoryStore keeps creatures in maps, for unit tests. Fault injection
// fields let tests fail a specific step of a multi-row move.
type InMemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	roster  map[int64][]Creature // playerID -> slots (legacy data may hold more than one)
	storage map[int64][]Creature // playerID -> entries

	FailInsertRoster  error
	FailInsertStorage error
	FailDeleteStorage error
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		roster:  make(map[int64][]Creature),
		storage: make(map[int64][]Creature),
	}
}

type memSnapshot struct {
	nextID  int64
	roster  map[int64][]Creature
	storage map[int64][]Creature
}

func copyCreatures(src map[int64][]Creature) map[int64][]Creature {
	dst := make(map[int64][]Creature, len(src))
	for k, v := range src {
		dst[k] = append([]Creature{}, v...)
	}
	return dst
}

// Snapshot implements tx.Snapshotter.
func (s *InMemoryStore) Snapshot() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memSnapshot{nextID: s.nextID, roster: copyCreatures(s.roster), storage: copyCreatures(s.storage)}
}

// Restore implements tx.Snapshotter.
func (s *InMemoryStore) Restore(snapshot any) {
	snap := snapshot.(*memSnapshot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.roster = copyCreatures(snap.roster)
	s.storage = copyCreatures(snap.storage)
}

// SeedLegacyRoster installs extra roster rows directly, bypassing the
// single-slot rule, to model pre-refactor data in migration tests.
func (s *InMemoryStore) SeedLegacyRoster(playerID int64, creatures ...Creature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range creatures {
		s.nextID++
		c.ID = s.nextID
		c.PlayerID = playerID
		s.roster[playerID] = append(s.roster[playerID], c)
	}
}

func (s *InMemoryStore) GetRosterSlot(_ context.Context, playerID int64) (*Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := s.roster[playerID]
	if len(slots) == 0 {
		return nil, sentinel.ErrNotFound
	}
	c := slots[0]
	return &c, nil
}

func (s *InMemoryStore) ListRosterSlots(_ context.Context, playerID int64) ([]Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Creature{}, s.roster[playerID]...), nil
}

func (s *InMemoryStore) InsertRosterSlot(_ context.Context, c Creature) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsertRoster != nil {
		return 0, s.FailInsertRoster
	}
	if len(s.roster[c.PlayerID]) >= 1 {
		return 0, sentinel.ErrConflict
	}
	s.nextID++
	c.ID = s.nextID
	if c.CaughtAt.IsZero() {
		c.CaughtAt = time.Now()
	}
	s.roster[c.PlayerID] = append(s.roster[c.PlayerID], c)
	return c.ID, nil
}

func (s *InMemoryStore) DeleteRosterSlot(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for playerID, slots := range s.roster {
		for i, c := range slots {
			if c.ID == id {
				s.roster[playerID] = append(slots[:i], slots[i+1:]...)
				return nil
			}
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) UpdateRosterProgress(_ context.Context, id int64, exp, level, maxHP, attack int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for playerID, slots := range s.roster {
		for i, c := range slots {
			if c.ID == id {
				c.Exp = exp
				c.Level = level
				c.MaxHP = maxHP
				c.Attack = attack
				s.roster[playerID][i] = c
				return nil
			}
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) RestoreHP(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for playerID, slots := range s.roster {
		for i, c := range slots {
			if c.ID == id {
				c.HP = c.MaxHP
				s.roster[playerID][i] = c
				return nil
			}
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) GetStorageEntry(_ context.Context, playerID, id int64) (*Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.storage[playerID] {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListStorage(_ context.Context, playerID int64) ([]Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Creature{}, s.storage[playerID]...), nil
}

func (s *InMemoryStore) InsertStorage(_ context.Context, c Creature) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsertStorage != nil {
		return 0, s.FailInsertStorage
	}
	s.nextID++
	c.ID = s.nextID
	c.Exp = 0
	if c.CaughtAt.IsZero() {
		c.CaughtAt = time.Now()
	}
	s.storage[c.PlayerID] = append(s.storage[c.PlayerID], c)
	return c.ID, nil
}

func (s *InMemoryStore) DeleteStorageEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDeleteStorage != nil {
		return s.FailDeleteStorage
	}
	for playerID, entries := range s.storage {
		for i, c := range entries {
			if c.ID == id {
				s.storage[playerID] = append(entries[:i], entries[i+1:]...)
				return nil
			}
		}
	}
	return sentinel.ErrNotFound
}
