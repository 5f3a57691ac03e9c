package economy

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type stockKey struct {
	playerID   int64
	ballTypeID int64
}

// InMemoryStore keeps item stocks in a map, for unit tests. Listings carry
// only ids and quantities; tests that care about names seed them.
type InMemoryStore struct {
	mu     sync.Mutex
	stocks map[stockKey]int

	// fault injection
	FailAddStock bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{stocks: make(map[stockKey]int)}
}

// Snapshot implements tx.Snapshotter.
func (s *InMemoryStore) Snapshot() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	stocks := make(map[stockKey]int, len(s.stocks))
	for k, v := range s.stocks {
		stocks[k] = v
	}
	return stocks
}

// Restore implements tx.Snapshotter.
func (s *InMemoryStore) Restore(snapshot any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks = snapshot.(map[stockKey]int)
}

func (s *InMemoryStore) ListItems(_ context.Context, playerID int64) ([]ItemStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []ItemStock
	for k, qty := range s.stocks {
		if k.playerID == playerID {
			items = append(items, ItemStock{BallTypeID: k.ballTypeID, Quantity: qty})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].BallTypeID < items[j].BallTypeID })
	return items, nil
}

func (s *InMemoryStore) AddStock(_ context.Context, playerID, ballTypeID int64, qty int) error {
	if s.FailAddStock {
		return errors.New("stock store down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[stockKey{playerID, ballTypeID}] += qty
	return nil
}

func (s *InMemoryStore) ConsumeBall(_ context.Context, playerID, ballTypeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := stockKey{playerID, ballTypeID}
	if s.stocks[k] <= 0 {
		return false, nil
	}
	s.stocks[k]--
	return true, nil
}

// Quantity reports the current count for assertions in tests.
func (s *InMemoryStore) Quantity(playerID, ballTypeID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stocks[stockKey{playerID, ballTypeID}]
}
