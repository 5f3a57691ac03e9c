package economy

import (
	"context"
	"errors"

	"pokegame/internal/catalog"
	"pokegame/internal/player"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// BallCatalog is the slice of the catalog the ledger needs.
type BallCatalog interface {
	BallTypeByID(ctx context.Context, id int64) (catalog.BallType, error)
	BallTypes(ctx context.Context) ([]catalog.BallType, error)
}

// Ledger enforces the money rules: balances never go negative and a purchase
// debits and stocks in one transaction.
type Ledger struct {
	stock   Store
	players player.Store
	balls   BallCatalog
	runner  tx.Runner
}

func NewLedger(stock Store, players player.Store, balls BallCatalog, runner tx.Runner) *Ledger {
	return &Ledger{stock: stock, players: players, balls: balls, runner: runner}
}

// Credit adds money to a player's balance.
func (l *Ledger) Credit(ctx context.Context, playerID, amount int64) error {
	if amount < 0 {
		return dErrors.New(dErrors.CodeValidation, "credit amount must not be negative")
	}
	return l.adjust(ctx, playerID, amount)
}

// Debit removes money, failing without side effects when the balance would
// go negative.
func (l *Ledger) Debit(ctx context.Context, playerID, amount int64) error {
	if amount < 0 {
		return dErrors.New(dErrors.CodeValidation, "debit amount must not be negative")
	}
	return l.adjust(ctx, playerID, -amount)
}

func (l *Ledger) adjust(ctx context.Context, playerID, delta int64) error {
	err := l.players.AdjustMoney(ctx, playerID, delta)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "player not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeInsufficientResource, "not enough money")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to adjust balance")
	}
}

// Purchase buys qty balls of one type: price lookup, funds check, debit and
// stock upsert atomically.
func (l *Ledger) Purchase(ctx context.Context, playerID, ballTypeID int64, qty int) (*ItemStock, error) {
	if qty < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be at least 1")
	}

	ball, err := l.balls.BallTypeByID(ctx, ballTypeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unknown ball type")
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "item catalog is unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up ball type")
	}

	total := ball.Price * int64(qty)
	err = l.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := l.adjust(ctx, playerID, -total); err != nil {
			return err
		}
		if err := l.stock.AddStock(ctx, playerID, ballTypeID, qty); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ItemStock{
		BallTypeID: ball.ID,
		Name:       ball.Name,
		Multiplier: ball.Multiplier,
		Price:      ball.Price,
		Quantity:   qty,
	}, nil
}

// Items lists the player's ball holdings.
func (l *Ledger) Items(ctx context.Context, playerID int64) ([]ItemStock, error) {
	items, err := l.stock.ListItems(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list items")
	}
	return items, nil
}

// ShopInventory lists the ball types on sale.
func (l *Ledger) ShopInventory(ctx context.Context) ([]catalog.BallType, error) {
	balls, err := l.balls.BallTypes(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "item catalog is unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ball types")
	}
	return balls, nil
}

// ConsumeBall spends one ball during a capture attempt; the caller decides
// what an empty stock means.
func (l *Ledger) ConsumeBall(ctx context.Context, playerID, ballTypeID int64) error {
	consumed, err := l.stock.ConsumeBall(ctx, playerID, ballTypeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume ball")
	}
	if !consumed {
		return dErrors.New(dErrors.CodeInsufficientResource, "no balls")
	}
	return nil
}
