package roster

import (
	"context"
	"errors"
	"fmt"

	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// activeSlotCapacity is an invariant of the game rules, not a setting: a
// player fields exactly one creature. Legacy data may still contain more; see
// MigrateLegacyRoster.
const activeSlotCapacity = 1

// Manager enforces the single-active-creature invariant and performs the
// atomic moves between the active slot and storage.
type Manager struct {
	store  Store
	runner tx.Runner
}

func NewManager(store Store, runner tx.Runner) *Manager {
	return &Manager{store: store, runner: runner}
}

// Active returns the player's active creature, or nil when the slot is empty.
func (m *Manager) Active(ctx context.Context, playerID int64) (*Creature, error) {
	c, err := m.store.GetRosterSlot(ctx, playerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load roster")
	}
	return c, nil
}

// Storage lists the player's stored creatures, newest first.
func (m *Manager) Storage(ctx context.Context, playerID int64) ([]Creature, error) {
	entries, err := m.store.ListStorage(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load storage")
	}
	return entries, nil
}

// SwitchActive promotes a storage creature into the active slot, demoting the
// current occupant (if any) into storage. The whole move is one transaction;
// any failure leaves both tables untouched.
func (m *Manager) SwitchActive(ctx context.Context, playerID, storageEntryID int64) (*Creature, error) {
	var promoted *Creature
	err := m.runner.RunInTx(ctx, func(ctx context.Context) error {
		chosen, err := m.store.GetStorageEntry(ctx, playerID, storageEntryID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "creature not found in storage")
			}
			return err
		}

		current, err := m.store.GetRosterSlot(ctx, playerID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}

		if current != nil {
			demoted := *current
			demoted.Exp = 0 // storage creatures do not track experience
			if _, err := m.store.InsertStorage(ctx, demoted); err != nil {
				return err
			}
			if err := m.store.DeleteRosterSlot(ctx, current.ID); err != nil {
				return err
			}
		}

		active := *chosen
		active.Exp = 0
		newID, err := m.store.InsertRosterSlot(ctx, active)
		if err != nil {
			return err
		}
		if err := m.store.DeleteStorageEntry(ctx, storageEntryID); err != nil {
			return err
		}

		if err := m.assertSlotInvariant(ctx, playerID); err != nil {
			return err
		}

		active.ID = newID
		promoted = &active
		return nil
	})
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to switch active creature")
	}
	return promoted, nil
}

// AddCaptured places a newly caught creature: into the active slot when it is
// empty, otherwise into storage. Callers run this inside their own capture
// transaction.
func (m *Manager) AddCaptured(ctx context.Context, playerID int64, c Creature) (Location, int64, error) {
	c.PlayerID = playerID
	c.Exp = 0

	id, err := m.store.InsertRosterSlot(ctx, c)
	if err == nil {
		return LocationParty, id, nil
	}
	if !errors.Is(err, sentinel.ErrConflict) {
		return "", 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to place captured creature")
	}

	id, err = m.store.InsertStorage(ctx, c)
	if err != nil {
		return "", 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to place captured creature")
	}
	return LocationStorage, id, nil
}

// AddStarter places a player's first creature into the empty active slot.
// A player who already has an active creature cannot pick again.
func (m *Manager) AddStarter(ctx context.Context, playerID int64, c Creature) (int64, error) {
	c.PlayerID = playerID
	c.Exp = 0

	id, err := m.store.InsertRosterSlot(ctx, c)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return 0, dErrors.New(dErrors.CodeInvalidState, "starter already chosen")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to place starter")
	}
	return id, nil
}

// MigrateLegacyRoster moves every roster row except the first into storage.
// Pre-refactor data allowed multiple active creatures. Idempotent: a second
// call finds nothing to move.
func (m *Manager) MigrateLegacyRoster(ctx context.Context, playerID int64) (int, error) {
	moved := 0
	err := m.runner.RunInTx(ctx, func(ctx context.Context) error {
		slots, err := m.store.ListRosterSlots(ctx, playerID)
		if err != nil {
			return err
		}
		if len(slots) <= activeSlotCapacity {
			return nil
		}

		for _, extra := range slots[activeSlotCapacity:] {
			demoted := extra
			demoted.Exp = 0
			if _, err := m.store.InsertStorage(ctx, demoted); err != nil {
				return err
			}
			if err := m.store.DeleteRosterSlot(ctx, extra.ID); err != nil {
				return err
			}
			moved++
		}
		return m.assertSlotInvariant(ctx, playerID)
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to migrate roster")
	}
	return moved, nil
}

// ApplyProgress persists a progression result onto the active slot. Current HP
// is untouched; healing is a combat-victory concern.
func (m *Manager) ApplyProgress(ctx context.Context, slotID int64, exp, level, maxHP, attack int) error {
	if err := m.store.UpdateRosterProgress(ctx, slotID, exp, level, maxHP, attack); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "active creature not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist progression")
	}
	return nil
}

// Heal restores the active creature to full HP.
func (m *Manager) Heal(ctx context.Context, slotID int64) error {
	if err := m.store.RestoreHP(ctx, slotID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "active creature not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore hp")
	}
	return nil
}

func (m *Manager) assertSlotInvariant(ctx context.Context, playerID int64) error {
	slots, err := m.store.ListRosterSlots(ctx, playerID)
	if err != nil {
		return err
	}
	if len(slots) > activeSlotCapacity {
		return fmt.Errorf("roster invariant violated: player %d holds %d active slots", playerID, len(slots))
	}
	return nil
}
