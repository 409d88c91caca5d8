package brain

import (
	"context"

	"supporttriage.app/backend/core/db"
	"supporttriage.app/backend/core/db/sqlc"
	"supporttriage.app/backend/internal/store"
)

// StoreProvider exposes stores needed by transactional operations in the brain package.
// This is a local interface to avoid import cycles (service → brain, not brain → service).
type StoreProvider interface {
	TicketNotes() store.TicketNoteStore
	AiRuns() store.AiRunStore
}

// TxRunner runs functions within a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner creates a TxRunner backed by the given database.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		stores := store.NewStores(q)
		return fn(stores)
	})
}
