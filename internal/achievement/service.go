package achievement

import (
	"context"
	"errors"

	"pokegame/internal/catalog"
	"pokegame/internal/player"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// Catalog is the slice of the reference catalog the tracker needs.
type Catalog interface {
	TotalSpecies(ctx context.Context) (int, error)
	GymByID(ctx context.Context, id int64) (catalog.Gym, error)
}

// CaptureRecord reports the pokedex outcome of one capture.
type CaptureRecord struct {
	IsNew     bool            `json:"isNew"`
	Milestone *MilestoneAward `json:"milestone,omitempty"`
}

// MilestoneAward is a one-time special badge grant with its payout.
type MilestoneAward struct {
	BadgeName string `json:"badgeName"`
	Reward    int64  `json:"reward"`
}

// GymBadgeResult reports a gym badge award. AlreadyOwned awards are a no-op,
// not an error.
type GymBadgeResult struct {
	AlreadyOwned bool   `json:"alreadyOwned"`
	BadgeName    string `json:"badgeName"`
	GymName      string `json:"gymName"`
	Reward       int64  `json:"reward"`
}

// Tracker applies the milestone rules on top of the achievement store:
// exactly-once special badges, idempotent gym badges, lifetime counters.
type Tracker struct {
	store   Store
	players player.Store
	catalog Catalog
	runner  tx.Runner
}

func NewTracker(store Store, players player.Store, cat Catalog, runner tx.Runner) *Tracker {
	return &Tracker{store: store, players: players, catalog: cat, runner: runner}
}

// RecordCapture updates the pokedex for one captured creature and bumps the
// player's lifetime counter. A first discovery that completes the catalog
// awards the full-pokedex badge and its bonus exactly once. Joins the
// caller's transaction when one is active.
func (t *Tracker) RecordCapture(ctx context.Context, playerID, speciesID int64, name, sprite string) (*CaptureRecord, error) {
	rec := &CaptureRecord{}
	err := t.runner.RunInTx(ctx, func(ctx context.Context) error {
		isNew, err := t.store.UpsertPokedexEntry(ctx, playerID, speciesID, name, sprite)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update pokedex")
		}
		rec.IsNew = isNew

		if err := t.players.IncrementCaught(ctx, playerID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update capture counter")
		}

		if !isNew {
			return nil
		}
		milestone, err := t.checkFullPokedex(ctx, playerID)
		if err != nil {
			return err
		}
		rec.Milestone = milestone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (t *Tracker) checkFullPokedex(ctx context.Context, playerID int64) (*MilestoneAward, error) {
	total, err := t.catalog.TotalSpecies(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "species catalog is unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to size the catalog")
	}
	discovered, _, err := t.store.PokedexStats(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read pokedex stats")
	}
	if discovered < total {
		return nil, nil
	}

	err = t.store.InsertSpecialBadge(ctx, playerID, badgeTypeFullPokedex, badgeNameFullPokedex)
	if errors.Is(err, sentinel.ErrConflict) {
		// Already awarded; the uniqueness constraint makes retriggering a no-op.
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to award special badge")
	}
	if err := t.players.AdjustMoney(ctx, playerID, FullPokedexBonus); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to pay milestone bonus")
	}
	return &MilestoneAward{BadgeName: badgeNameFullPokedex, Reward: FullPokedexBonus}, nil
}

// AwardGymBadge grants the badge for one gym. The first award pays the gym's
// reward and increments the gyms-defeated counter; repeats report
// AlreadyOwned without touching anything.
func (t *Tracker) AwardGymBadge(ctx context.Context, playerID, gymID int64) (*GymBadgeResult, error) {
	gym, err := t.catalog.GymByID(ctx, gymID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "gym not found")
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "gym catalog is unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up gym")
	}

	res := &GymBadgeResult{BadgeName: gym.BadgeName, GymName: gym.Name}
	err = t.runner.RunInTx(ctx, func(ctx context.Context) error {
		err := t.store.InsertBadge(ctx, playerID, gymID)
		if errors.Is(err, sentinel.ErrConflict) {
			res.AlreadyOwned = true
			return nil
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to award badge")
		}
		if err := t.players.AdjustMoney(ctx, playerID, gym.RewardMoney); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to pay gym reward")
		}
		if err := t.players.IncrementGymsDefeated(ctx, playerID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update gym counter")
		}
		res.Reward = gym.RewardMoney
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Pokedex lists a player's discovery entries.
func (t *Tracker) Pokedex(ctx context.Context, playerID int64) ([]PokedexEntry, error) {
	entries, err := t.store.ListPokedex(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pokedex")
	}
	return entries, nil
}

// Stats summarizes pokedex progress against the current catalog size.
func (t *Tracker) Stats(ctx context.Context, playerID int64) (*PokedexStats, error) {
	total, err := t.catalog.TotalSpecies(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "species catalog is unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to size the catalog")
	}
	discovered, totalCaught, err := t.store.PokedexStats(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read pokedex stats")
	}
	return &PokedexStats{Discovered: discovered, Total: total, TotalCaught: totalCaught}, nil
}

// Badges lists a player's gym badges.
func (t *Tracker) Badges(ctx context.Context, playerID int64) ([]Badge, error) {
	badges, err := t.store.ListBadges(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list badges")
	}
	return badges, nil
}

// SpecialBadges lists a player's milestone badges.
func (t *Tracker) SpecialBadges(ctx context.Context, playerID int64) ([]SpecialBadge, error) {
	badges, err := t.store.ListSpecialBadges(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list special badges")
	}
	return badges, nil
}
