// Package rng provides the random source the encounter, combat, capture, and
// progression components draw from. Injecting it keeps probabilistic code
// deterministic under test.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// RNG is the subset of randomness the game rules need.
type RNG interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). Panics if n <= 0.
	IntN(n int) int
}

type lockedRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRNG) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRNG) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// New returns a process-wide RNG seeded from crypto/rand, safe for concurrent use.
func New() (RNG, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	s1 := binary.LittleEndian.Uint64(b[:8])
	s2 := binary.LittleEndian.Uint64(b[8:])
	return &lockedRNG{r: rand.New(rand.NewPCG(s1, s2))}, nil
}

// NewSeeded returns a deterministic RNG for tests.
func NewSeeded(seed uint64) RNG {
	return &lockedRNG{r: rand.New(rand.NewPCG(seed, seed))}
}
