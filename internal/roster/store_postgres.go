package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// Store is pure I/O over roster and storage rows. Multi-row moves are composed
// by the service inside a context transaction; every method honors tx.From.
type Store interface {
	GetRosterSlot(ctx context.Context, playerID int64) (*Creature, error)
	ListRosterSlots(ctx context.Context, playerID int64) ([]Creature, error)
	InsertRosterSlot(ctx context.Context, c Creature) (int64, error)
	DeleteRosterSlot(ctx context.Context, id int64) error
	UpdateRosterProgress(ctx context.Context, id int64, exp, level, maxHP, attack int) error
	RestoreHP(ctx context.Context, id int64) error

	GetStorageEntry(ctx context.Context, playerID, id int64) (*Creature, error)
	ListStorage(ctx context.Context, playerID int64) ([]Creature, error)
	InsertStorage(ctx context.Context, c Creature) (int64, error)
	DeleteStorageEntry(ctx context.Context, id int64) error
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresStore persists creatures in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const rosterColumns = `id, player_id, species_id, name, COALESCE(sprite, ''), level, exp, hp, max_hp, attack, caught_at`
const storageColumns = `id, player_id, species_id, name, COALESCE(sprite, ''), level, hp, max_hp, attack, caught_at`

func scanRoster(row interface{ Scan(...any) error }) (*Creature, error) {
	var c Creature
	err := row.Scan(&c.ID, &c.PlayerID, &c.SpeciesID, &c.Name, &c.Sprite,
		&c.Level, &c.Exp, &c.HP, &c.MaxHP, &c.Attack, &c.CaughtAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanStorage(row interface{ Scan(...any) error }) (*Creature, error) {
	var c Creature
	err := row.Scan(&c.ID, &c.PlayerID, &c.SpeciesID, &c.Name, &c.Sprite,
		&c.Level, &c.HP, &c.MaxHP, &c.Attack, &c.CaughtAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) GetRosterSlot(ctx context.Context, playerID int64) (*Creature, error) {
	q := tx.Executor(ctx, s.db)
	c, err := scanRoster(q.QueryRowContext(ctx,
		`SELECT `+rosterColumns+` FROM roster_slots WHERE player_id = $1`, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get roster slot: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListRosterSlots(ctx context.Context, playerID int64) ([]Creature, error) {
	q := tx.Executor(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+rosterColumns+` FROM roster_slots WHERE player_id = $1 ORDER BY id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list roster slots: %w", err)
	}
	defer rows.Close()

	var out []Creature
	for rows.Next() {
		c, err := scanRoster(rows)
		if err != nil {
			return nil, fmt.Errorf("scan roster slot: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) InsertRosterSlot(ctx context.Context, c Creature) (int64, error) {
	q := tx.Executor(ctx, s.db)
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO roster_slots (player_id, species_id, name, sprite, level, exp, hp, max_hp, attack)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, c.PlayerID, c.SpeciesID, c.Name, c.Sprite, c.Level, c.Exp, c.HP, c.MaxHP, c.Attack).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("insert roster slot: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) DeleteRosterSlot(ctx context.Context, id int64) error {
	q := tx.Executor(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM roster_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete roster slot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateRosterProgress(ctx context.Context, id int64, exp, level, maxHP, attack int) error {
	q := tx.Executor(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE roster_slots
		SET exp = $2, level = $3, max_hp = $4, attack = $5
		WHERE id = $1
	`, id, exp, level, maxHP, attack)
	if err != nil {
		return fmt.Errorf("update roster progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RestoreHP(ctx context.Context, id int64) error {
	q := tx.Executor(ctx, s.db)
	res, err := q.ExecContext(ctx, `UPDATE roster_slots SET hp = max_hp WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("restore hp: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetStorageEntry(ctx context.Context, playerID, id int64) (*Creature, error) {
	q := tx.Executor(ctx, s.db)
	c, err := scanStorage(q.QueryRowContext(ctx,
		`SELECT `+storageColumns+` FROM storage_entries WHERE id = $1 AND player_id = $2`, id, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get storage entry: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListStorage(ctx context.Context, playerID int64) ([]Creature, error) {
	q := tx.Executor(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+storageColumns+` FROM storage_entries WHERE player_id = $1 ORDER BY caught_at DESC, id DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}
	defer rows.Close()

	var out []Creature
	for rows.Next() {
		c, err := scanStorage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan storage entry: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) InsertStorage(ctx context.Context, c Creature) (int64, error) {
	q := tx.Executor(ctx, s.db)
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO storage_entries (player_id, species_id, name, sprite, level, hp, max_hp, attack)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, c.PlayerID, c.SpeciesID, c.Name, c.Sprite, c.Level, c.HP, c.MaxHP, c.Attack).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert storage entry: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) DeleteStorageEntry(ctx context.Context, id int64) error {
	q := tx.Executor(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM storage_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete storage entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
