package economy

import (
	"context"
	"database/sql"

	"pokegame/pkg/platform/tx"
)

// Store is the item inventory port. Pure I/O; purchase rules live in the
// Ledger.
type Store interface {
	// ListItems returns the player's holdings joined with the ball catalog,
	// including zero-quantity rows the player once held.
	ListItems(ctx context.Context, playerID int64) ([]ItemStock, error)
	// AddStock adds qty to the player's count for a ball type, creating the
	// row when absent.
	AddStock(ctx context.Context, playerID, ballTypeID int64, qty int) error
	// ConsumeBall decrements one ball atomically. Returns false when the
	// player has none of that type.
	ConsumeBall(ctx context.Context, playerID, ballTypeID int64) (bool, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListItems(ctx context.Context, playerID int64) ([]ItemStock, error) {
	q := tx.Executor(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT b.id, b.name, b.multiplier, b.price, i.quantity
		FROM item_stocks i
		JOIN ball_types b ON b.id = i.ball_type_id
		WHERE i.player_id = $1
		ORDER BY b.id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ItemStock
	for rows.Next() {
		var it ItemStock
		if err := rows.Scan(&it.BallTypeID, &it.Name, &it.Multiplier, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) AddStock(ctx context.Context, playerID, ballTypeID int64, qty int) error {
	q := tx.Executor(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO item_stocks (player_id, ball_type_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, ball_type_id)
		DO UPDATE SET quantity = item_stocks.quantity + EXCLUDED.quantity`,
		playerID, ballTypeID, qty)
	return err
}

func (s *PostgresStore) ConsumeBall(ctx context.Context, playerID, ballTypeID int64) (bool, error) {
	q := tx.Executor(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE item_stocks
		SET quantity = quantity - 1
		WHERE player_id = $1 AND ball_type_id = $2 AND quantity > 0`,
		playerID, ballTypeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
