//go:build integration

package roster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"pokegame/internal/platform/postgres"
	"pokegame/internal/roster"
	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *roster.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.pg.DB))
	s.store = roster.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateTables(ctx, "storage_entries", "roster_slots", "players"))
}

func (s *PostgresStoreSuite) newPlayer(name string) int64 {
	var id int64
	err := s.pg.DB.QueryRowContext(context.Background(),
		`INSERT INTO players (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *PostgresStoreSuite) TestRosterSlotLifecycle() {
	ctx := context.Background()
	playerID := s.newPlayer("ash")

	id, err := s.store.InsertRosterSlot(ctx, roster.Creature{
		PlayerID: playerID, SpeciesID: 25, Name: "pikachu",
		Level: 5, Exp: 40, HP: 20, MaxHP: 35, Attack: 12,
	})
	s.Require().NoError(err)

	got, err := s.store.GetRosterSlot(ctx, playerID)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.Equal("pikachu", got.Name)
	s.Equal(20, got.HP)

	s.Run("one active slot per player", func() {
		_, err := s.store.InsertRosterSlot(ctx, roster.Creature{
			PlayerID: playerID, SpeciesID: 1, Name: "bulbasaur",
			Level: 5, HP: 30, MaxHP: 30, Attack: 10,
		})
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("progress update persists", func() {
		s.Require().NoError(s.store.UpdateRosterProgress(ctx, id, 12, 6, 40, 14))
		got, err := s.store.GetRosterSlot(ctx, playerID)
		s.Require().NoError(err)
		s.Equal(6, got.Level)
		s.Equal(12, got.Exp)
		s.Equal(40, got.MaxHP)
		s.Equal(14, got.Attack)
		s.Equal(20, got.HP, "hp is untouched by progress updates")
	})

	s.Run("restore hp heals to max", func() {
		s.Require().NoError(s.store.RestoreHP(ctx, id))
		got, err := s.store.GetRosterSlot(ctx, playerID)
		s.Require().NoError(err)
		s.Equal(got.MaxHP, got.HP)
	})

	s.Run("delete frees the slot", func() {
		s.Require().NoError(s.store.DeleteRosterSlot(ctx, id))
		_, err := s.store.GetRosterSlot(ctx, playerID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestStorageLifecycle() {
	ctx := context.Background()
	playerID := s.newPlayer("misty")

	first, err := s.store.InsertStorage(ctx, roster.Creature{
		PlayerID: playerID, SpeciesID: 7, Name: "squirtle",
		Level: 4, HP: 28, MaxHP: 28, Attack: 9,
	})
	s.Require().NoError(err)
	second, err := s.store.InsertStorage(ctx, roster.Creature{
		PlayerID: playerID, SpeciesID: 1, Name: "bulbasaur",
		Level: 3, HP: 25, MaxHP: 25, Attack: 8,
	})
	s.Require().NoError(err)

	entries, err := s.store.ListStorage(ctx, playerID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(second, entries[0].ID, "newest entries list first")

	got, err := s.store.GetStorageEntry(ctx, playerID, first)
	s.Require().NoError(err)
	s.Equal("squirtle", got.Name)

	s.Run("entries are scoped by player", func() {
		otherID := s.newPlayer("brock")
		_, err := s.store.GetStorageEntry(ctx, otherID, first)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete removes the entry", func() {
		s.Require().NoError(s.store.DeleteStorageEntry(ctx, first))
		entries, err := s.store.ListStorage(ctx, playerID)
		s.Require().NoError(err)
		s.Len(entries, 1)
	})
}
