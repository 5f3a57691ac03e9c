package tx

import (
	"context"
	"database/sql"
	"sync"
)

// Runner is the transactional boundary services run multi-store mutations in.
// The database implementation wraps a SQL transaction; the in-memory one used
// by unit tests takes snapshots and restores them on failure, so all-or-nothing
// behavior is observable without a database.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type dbRunner struct {
	db *sql.DB
}

// NewDBRunner returns a Runner backed by SQL transactions on db.
func NewDBRunner(db *sql.DB) Runner {
	return &dbRunner{db: db}
}

func (r *dbRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return Run(ctx, r.db, fn)
}

// Snapshotter is implemented by in-memory stores that can participate in the
// memory runner's rollback.
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

type memoryRunner struct {
	mu     sync.Mutex
	stores []Snapshotter
}

type memTxKey struct{}

// NewMemoryRunner returns a Runner that serializes transactions with a coarse
// lock and rolls participating stores back when fn fails.
func NewMemoryRunner(stores ...Snapshotter) Runner {
	return &memoryRunner{stores: stores}
}

func (r *memoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the outer transaction, mirroring the DB runner.
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx = context.WithValue(ctx, memTxKey{}, struct{}{})

	snapshots := make([]any, len(r.stores))
	for i, s := range r.stores {
		snapshots[i] = s.Snapshot()
	}

	if err := fn(ctx); err != nil {
		for i, s := range r.stores {
			s.Restore(snapshots[i])
		}
		return err
	}
	return nil
}
