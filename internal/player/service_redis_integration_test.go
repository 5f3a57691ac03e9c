//go:build integration

package player_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"pokegame/internal/economy"
	"pokegame/internal/player"
	"pokegame/pkg/platform/tx"
	"pokegame/pkg/testutil/containers"
)

type LeaderboardCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *player.InMemoryStore
	svc   *player.Service
}

func TestLeaderboardCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LeaderboardCacheSuite))
}

func (s *LeaderboardCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *LeaderboardCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.store = player.NewInMemoryStore()
	stock := economy.NewInMemoryStore()
	s.svc = player.NewService(s.store, stock, s.redis.Client, tx.NewMemoryRunner(s.store, stock))
}

func (s *LeaderboardCacheSuite) TestCachePopulatesOnFirstRead() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "ash")
	s.Require().NoError(err)

	entries, err := s.svc.Leaderboard(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	keys, err := s.redis.Client.Keys(ctx, "pokegame:*").Result()
	s.Require().NoError(err)
	s.Len(keys, 1, "leaderboard read populates the cache")
}

func (s *LeaderboardCacheSuite) TestWarmCacheServesStaleRead() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "misty")
	s.Require().NoError(err)

	first, err := s.svc.Leaderboard(ctx)
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	// Another registration within the TTL is invisible until expiry.
	_, err = s.svc.Register(ctx, "brock")
	s.Require().NoError(err)

	second, err := s.svc.Leaderboard(ctx)
	s.Require().NoError(err)
	s.Len(second, 1, "cached snapshot served within the TTL")

	s.Require().NoError(s.redis.FlushAll(ctx))
	third, err := s.svc.Leaderboard(ctx)
	s.Require().NoError(err)
	s.Len(third, 2, "cold cache falls through to the store")
}
