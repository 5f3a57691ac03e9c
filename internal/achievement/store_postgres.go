package achievement

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// Store is the achievement persistence port. Pure I/O; milestone rules live
// in the Tracker.
type Store interface {
	// UpsertPokedexEntry inserts or increments the (player, species) entry
	// and reports whether the species was newly discovered.
	UpsertPokedexEntry(ctx context.Context, playerID, speciesID int64, name, sprite string) (isNew bool, err error)
	ListPokedex(ctx context.Context, playerID int64) ([]PokedexEntry, error)
	PokedexStats(ctx context.Context, playerID int64) (discovered int, totalCaught int64, err error)
	// InsertBadge returns sentinel.ErrConflict when the player already owns
	// the gym's badge.
	InsertBadge(ctx context.Context, playerID, gymID int64) error
	ListBadges(ctx context.Context, playerID int64) ([]Badge, error)
	// InsertSpecialBadge returns sentinel.ErrConflict when the milestone was
	// already awarded.
	InsertSpecialBadge(ctx context.Context, playerID int64, badgeType, badgeName string) error
	ListSpecialBadges(ctx context.Context, playerID int64) ([]SpecialBadge, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) UpsertPokedexEntry(ctx context.Context, playerID, speciesID int64, name, sprite string) (bool, error) {
	q := tx.Executor(ctx, s.db)
	// xmax = 0 holds only for freshly inserted rows, distinguishing a first
	// discovery from an increment.
	var isNew bool
	err := q.QueryRowContext(ctx, `
		INSERT INTO pokedex_entries (player_id, species_id, name, sprite)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, species_id)
		DO UPDATE SET total_caught = pokedex_entries.total_caught + 1
		RETURNING (xmax = 0)`,
		playerID, speciesID, name, sprite).Scan(&isNew)
	if err != nil {
		return false, err
	}
	return isNew, nil
}

func (s *PostgresStore) ListPokedex(ctx context.Context, playerID int64) ([]PokedexEntry, error) {
	q := tx.Executor(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT species_id, name, COALESCE(sprite, ''), first_caught_at, total_caught
		FROM pokedex_entries
		WHERE player_id = $1
		ORDER BY species_id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []PokedexEntry
	for rows.Next() {
		var e PokedexEntry
		if err := rows.Scan(&e.SpeciesID, &e.Name, &e.Sprite, &e.FirstCaughtAt, &e.TotalCaught); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) PokedexStats(ctx context.Context, playerID int64) (int, int64, error) {
	q := tx.Executor(ctx, s.db)
	var discovered int
	var totalCaught int64
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_caught), 0)
		FROM pokedex_entries
		WHERE player_id = $1`, playerID).Scan(&discovered, &totalCaught)
	if err != nil {
		return 0, 0, err
	}
	return discovered, totalCaught, nil
}

func (s *PostgresStore) InsertBadge(ctx context.Context, playerID, gymID int64) error {
	q := tx.Executor(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO badges (player_id, gym_id) VALUES ($1, $2)`, playerID, gymID)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresStore) ListBadges(ctx context.Context, playerID int64) ([]Badge, error) {
	q := tx.Executor(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT b.gym_id, g.name, g.badge_name, b.earned_at
		FROM badges b
		JOIN gyms g ON g.id = b.gym_id
		WHERE b.player_id = $1
		ORDER BY b.earned_at`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.GymID, &b.GymName, &b.BadgeName, &b.EarnedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func (s *PostgresStore) InsertSpecialBadge(ctx context.Context, playerID int64, badgeType, badgeName string) error {
	q := tx.Executor(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO special_badges (player_id, badge_type, badge_name)
		VALUES ($1, $2, $3)`, playerID, badgeType, badgeName)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresStore) ListSpecialBadges(ctx context.Context, playerID int64) ([]SpecialBadge, error) {
	q := tx.Executor(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT badge_type, badge_name, earned_at
		FROM special_badges
		WHERE player_id = $1
		ORDER BY earned_at DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []SpecialBadge
	for rows.Next() {
		var b SpecialBadge
		if err := rows.Scan(&b.BadgeType, &b.BadgeName, &b.EarnedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
