package player

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// ItemGranter hands out the starter ball allowance. Implemented by the
// economy stock store.
type ItemGranter interface {
	AddStock(ctx context.Context, playerID, ballTypeID int64, qty int) error
}

// LeaderboardCache is the subset of the redis client the service needs; nil
// disables caching.
type LeaderboardCache interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

const (
	leaderboardKey   = "pokegame:leaderboard"
	leaderboardTTL   = 30 * time.Second
	leaderboardLimit = 50
	basicBallTypeID  = 1
)

// Service wraps player storage with registration grants and the cached
// leaderboard.
type Service struct {
	store  Store
	items  ItemGranter
	cache  LeaderboardCache
	runner tx.Runner
}

func NewService(store Store, items ItemGranter, cache LeaderboardCache, runner tx.Runner) *Service {
	return &Service{store: store, items: items, cache: cache, runner: runner}
}

// Register creates a player with the starting grants (money plus basic
// balls). Row and grant land in one transaction; a failed grant must not
// burn the name.
func (s *Service) Register(ctx context.Context, name string) (*Player, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "player name must not be empty")
	}
	var p *Player
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.store.Create(ctx, name)
		if err != nil {
			return err
		}
		return s.items.AddStock(ctx, p.ID, basicBallTypeID, StartingBallCount)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "player name already taken")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register player")
	}
	return p, nil
}

// Get returns one player.
func (s *Service) Get(ctx context.Context, id int64) (*Player, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "player not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load player")
	}
	return p, nil
}

// Leaderboard returns the top players, served from the redis cache when warm.
// Cache failures fall through to the database; the leaderboard is not worth
// failing a request over.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, leaderboardKey).Result(); err == nil {
			var cached []LeaderboardEntry
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	entries, err := s.store.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load leaderboard")
	}

	if s.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			s.cache.Set(ctx, leaderboardKey, raw, leaderboardTTL)
		}
	}
	return entries, nil
}
