package brain

import (
	"context"
	"log/slog"
	"time"

	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/store"
)

const ledgerWriteTimeout = 5 * time.Second

// RunPublisher hands a run to an asynchronous writer when the database write failed.
type RunPublisher interface {
	Publish(ctx context.Context, run *model.AiRun) error
}

// Ledger writes runs outside any request transaction. Writes are best-effort:
// a failure is logged and, when a publisher is configured, the run is queued
// for the replay worker. Callers never see ledger errors.
type Ledger struct {
	runs      store.AiRunStore
	publisher RunPublisher
}

// NewLedger builds a Ledger. publisher may be nil.
func NewLedger(runs store.AiRunStore, publisher RunPublisher) *Ledger {
	return &Ledger{runs: runs, publisher: publisher}
}

// Record persists run and reports whether it reached the database.
func (l *Ledger) Record(ctx context.Context, run *model.AiRun) bool {
	// The request may already be cancelled; the record must still be written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerWriteTimeout)
	defer cancel()

	_, err := l.runs.Create(ctx, run)
	if err == nil {
		return true
	}

	slog.ErrorContext(ctx, "failed to record ai run",
		"error", err,
		"status", run.Status)

	if l.publisher == nil {
		return false
	}
	if perr := l.publisher.Publish(ctx, run); perr != nil {
		slog.ErrorContext(ctx, "failed to queue unrecorded ai run", "error", perr)
		return false
	}
	slog.WarnContext(ctx, "ai run queued for replay")
	return false
}
