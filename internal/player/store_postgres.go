package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// Store is pure I/O over player rows. Balance mutations are single atomic
// statements guarded against going negative; the guard is the store's
// responsibility because two requests may race on the same balance.
type Store interface {
	Create(ctx context.Context, name string) (*Player, error)
	Get(ctx context.Context, id int64) (*Player, error)
	AdjustMoney(ctx context.Context, id int64, delta int64) error
	IncrementCaught(ctx context.Context, id int64) error
	IncrementGymsDefeated(ctx context.Context, id int64) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const playerColumns = `id, name, money, pokemon_caught, gyms_defeated, created_at`

func (s *PostgresStore) Create(ctx context.Context, name string) (*Player, error) {
	q := tx.Executor(ctx, s.db)
	var p Player
	err := q.QueryRowContext(ctx, `
		INSERT INTO players (name, money)
		VALUES ($1, $2)
		RETURNING `+playerColumns+`
	`, name, StartingMoney).Scan(&p.ID, &p.Name, &p.Money, &p.PokemonCaught, &p.GymsDefeated, &p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("create player: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*Player, error) {
	q := tx.Executor(ctx, s.db)
	var p Player
	err := q.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Money, &p.PokemonCaught, &p.GymsDefeated, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	return &p, nil
}

// AdjustMoney applies delta atomically. A debit that would take the balance
// negative updates nothing and returns ErrInvalidState, so lost-update races
// between a purchase and a concurrent reward cannot overdraw.
func (s *PostgresStore) AdjustMoney(ctx context.Context, id int64, delta int64) error {
	q := tx.Executor(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE players SET money = money + $2
		WHERE id = $1 AND money + $2 >= 0
	`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust money: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust money rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := q.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("adjust money existence check: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) IncrementCaught(ctx context.Context, id int64) error {
	q := tx.Executor(ctx, s.db)
	_, err := q.ExecContext(ctx,
		`UPDATE players SET pokemon_caught = pokemon_caught + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment caught: %w", err)
	}
	return nil
}

func (s *PostgresStore) IncrementGymsDefeated(ctx context.Context, id int64) error {
	q := tx.Executor(ctx, s.db)
	_, err := q.ExecContext(ctx,
		`UPDATE players SET gyms_defeated = gyms_defeated + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment gyms defeated: %w", err)
	}
	return nil
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	q := tx.Executor(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, pokemon_caught, gyms_defeated, money
		FROM players
		ORDER BY pokemon_caught DESC, gyms_defeated DESC, money DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.PokemonCaught, &e.GymsDefeated, &e.Money); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
