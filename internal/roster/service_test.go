package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/tx"
)

type ManagerSuite struct {
	suite.Suite
	store   *InMemoryStore
	manager *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.manager = NewManager(s.store, tx.NewMemoryRunner(s.store))
}

func (s *ManagerSuite) creature(name string) Creature {
	return Creature{SpeciesID: 25, Name: name, Level: 5, HP: 40, MaxHP: 50, Attack: 12}
}

func (s *ManagerSuite) TestAddCaptured() {
	ctx := context.Background()

	s.Run("empty slot goes to party", func() {
		loc, id, err := s.manager.AddCaptured(ctx, 1, s.creature("pikachu"))
		s.NoError(err)
		s.Equal(LocationParty, loc)
		s.NotZero(id)

		active, err := s.manager.Active(ctx, 1)
		s.NoError(err)
		s.Equal("pikachu", active.Name)
	})

	s.Run("occupied slot overflows to storage", func() {
		loc, _, err := s.manager.AddCaptured(ctx, 1, s.creature("eevee"))
		s.NoError(err)
		s.Equal(LocationStorage, loc)

		stored, err := s.manager.Storage(ctx, 1)
		s.NoError(err)
		s.Len(stored, 1)
		s.Equal("eevee", stored[0].Name)
	})

	s.Run("slot count never exceeds one", func() {
		slots, err := s.store.ListRosterSlots(ctx, 1)
		s.NoError(err)
		s.Len(slots, 1)
	})
}

func (s *ManagerSuite) TestSwitchActive() {
	ctx := context.Background()

	s.Run("unknown storage entry is not found", func() {
		_, err := s.manager.SwitchActive(ctx, 1, 999)
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("promotes into an empty slot", func() {
		id, err := s.store.InsertStorage(ctx, Creature{PlayerID: 1, SpeciesID: 7, Name: "squirtle", Level: 3, HP: 30, MaxHP: 35, Attack: 9})
		s.Require().NoError(err)

		promoted, err := s.manager.SwitchActive(ctx, 1, id)
		s.NoError(err)
		s.Equal("squirtle", promoted.Name)

		slots, _ := s.store.ListRosterSlots(ctx, 1)
		s.Len(slots, 1)
		stored, _ := s.manager.Storage(ctx, 1)
		s.Empty(stored)
	})

	s.Run("swap preserves the displaced creature's attributes", func() {
		id, err := s.store.InsertStorage(ctx, Creature{PlayerID: 1, SpeciesID: 4, Name: "charmander", Level: 9, HP: 22, MaxHP: 48, Attack: 14})
		s.Require().NoError(err)

		promoted, err := s.manager.SwitchActive(ctx, 1, id)
		s.NoError(err)
		s.Equal("charmander", promoted.Name)

		slots, _ := s.store.ListRosterSlots(ctx, 1)
		s.Require().Len(slots, 1)
		s.Equal("charmander", slots[0].Name)

		stored, _ := s.manager.Storage(ctx, 1)
		s.Require().Len(stored, 1)
		s.Equal("squirtle", stored[0].Name)
		s.Equal(3, stored[0].Level)
		s.Equal(30, stored[0].HP)
		s.Equal(35, stored[0].MaxHP)
		s.Equal(9, stored[0].Attack)
	})

	s.Run("mid-swap failure rolls everything back", func() {
		id, err := s.store.InsertStorage(ctx, Creature{PlayerID: 1, SpeciesID: 25, Name: "pikachu", Level: 5, HP: 40, MaxHP: 50, Attack: 12})
		s.Require().NoError(err)

		boom := errors.New("storage write failed")
		s.store.FailDeleteStorage = boom
		_, err = s.manager.SwitchActive(ctx, 1, id)
		s.Error(err)
		s.store.FailDeleteStorage = nil

		// Pre-call state is fully restored: charmander active, both entries stored.
		slots, _ := s.store.ListRosterSlots(ctx, 1)
		s.Require().Len(slots, 1)
		s.Equal("charmander", slots[0].Name)
		stored, _ := s.manager.Storage(ctx, 1)
		s.Len(stored, 2)
	})
}

func (s *ManagerSuite) TestMigrateLegacyRoster() {
	ctx := context.Background()

	s.Run("single slot is a no-op", func() {
		_, _, err := s.manager.AddCaptured(ctx, 2, s.creature("pikachu"))
		s.Require().NoError(err)

		moved, err := s.manager.MigrateLegacyRoster(ctx, 2)
		s.NoError(err)
		s.Zero(moved)
	})

	s.Run("extra legacy rows move to storage", func() {
		s.store.SeedLegacyRoster(3,
			s.creature("first"),
			s.creature("second"),
			s.creature("third"),
		)

		moved, err := s.manager.MigrateLegacyRoster(ctx, 3)
		s.NoError(err)
		s.Equal(2, moved)

		slots, _ := s.store.ListRosterSlots(ctx, 3)
		s.Require().Len(slots, 1)
		s.Equal("first", slots[0].Name)

		stored, _ := s.manager.Storage(ctx, 3)
		s.Len(stored, 2)
	})

	s.Run("second call is idempotent", func() {
		moved, err := s.manager.MigrateLegacyRoster(ctx, 3)
		s.NoError(err)
		s.Zero(moved)
	})
}

func (s *ManagerSuite) TestActiveEmpty() {
	active, err := s.manager.Active(context.Background(), 42)
	s.NoError(err)
	s.Nil(active)
}
