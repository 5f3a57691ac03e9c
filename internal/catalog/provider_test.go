package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pokegame/pkg/platform/sentinel"
)

type ProviderSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
}

func (s *ProviderSuite) TestLookups() {
	p := NewProvider(s.store, time.Hour)

	s.Run("species by id", func() {
		sp, err := p.SpeciesByID(s.ctx, 25)
		s.Require().NoError(err)
		s.Equal("pikachu", sp.Name)

		_, err = p.SpeciesByID(s.ctx, 9999)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("total species", func() {
		total, err := p.TotalSpecies(s.ctx)
		s.Require().NoError(err)
		s.Equal(4, total)
	})

	s.Run("gym by id", func() {
		g, err := p.GymByID(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("Brock", g.LeaderName)
	})

	s.Run("ball type by id", func() {
		b, err := p.BallTypeByID(s.ctx, BallMaster)
		s.Require().NoError(err)
		s.Equal(100.0, b.Multiplier)
		s.Equal(int64(10000), b.Price)
	})
}

func (s *ProviderSuite) TestUnavailableBeforeFirstLoad() {
	s.store.Err = errors.New("db down")
	p := NewProvider(s.store, time.Hour)

	_, err := p.SpeciesList(s.ctx)
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

func (s *ProviderSuite) TestStaleSnapshotServesThroughFailure() {
	p := NewProvider(s.store, time.Hour)
	base := time.Now()
	p.now = func() time.Time { return base }

	_, err := p.SpeciesList(s.ctx)
	s.Require().NoError(err)

	// Push past the TTL and break the store; readers keep the old snapshot.
	p.now = func() time.Time { return base.Add(2 * time.Hour) }
	s.store.Err = errors.New("db down")

	list, err := p.SpeciesList(s.ctx)
	s.Require().NoError(err)
	s.Len(list, 4)
}

func (s *ProviderSuite) TestTTLRefreshPicksUpChanges() {
	p := NewProvider(s.store, time.Hour)
	base := time.Now()
	p.now = func() time.Time { return base }

	total, err := p.TotalSpecies(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, total)

	s.store.SpeciesRows = append(s.store.SpeciesRows, Species{ID: 150, Name: "mewtwo", BaseCatchRate: 0.01})

	// Still within the TTL: the snapshot is untouched.
	total, err = p.TotalSpecies(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, total)

	p.now = func() time.Time { return base.Add(2 * time.Hour) }
	total, err = p.TotalSpecies(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, total)
}
