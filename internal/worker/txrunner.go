package worker

import (
	"context"

	"supporttriage.app/backend/core/db"
	"supporttriage.app/backend/core/db/sqlc"
	"supporttriage.app/backend/internal/store"
)

type dbTxRunner struct {
	db *db.DB
}

func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
}
