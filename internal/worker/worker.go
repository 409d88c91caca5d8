package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/internal/queue"
	"supporttriage.app/backend/internal/store"
)

// Mirrors service.StoreProvider - defined here to avoid import cycles.
type StoreProvider interface {
	AiRuns() store.AiRunStore
}

// Mirrors service.TxRunner - defined here to avoid import cycles.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type Config struct {
	MaxAttempts int
}

// Worker replays AI run records that the ledger could not write at request time.
type Worker struct {
	consumer Consumer
	txRunner TxRunner
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, txRunner TxRunner, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Worker{
		consumer:  consumer,
		txRunner:  txRunner,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "triage.worker.replay",
	})

	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"ai_run_id", msg.AiRunID)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"ai_run_id", msg.AiRunID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage writes the queued run unless a record with its id already
// exists, then acknowledges the message. Exported for the reclaimer.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.replay_run")
	defer sc.End()
	ctx = sc.Context()

	msgID := msg.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		AiRunID:   &msg.AiRunID,
		TicketID:  &msg.TicketID,
		MessageID: &msgID,
	})

	slog.InfoContext(ctx, "replaying ai run",
		"attempt", msg.Attempt,
		"status", msg.Run.Status)

	recorded := false
	txErr := w.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		_, err := sp.AiRuns().GetByID(ctx, msg.AiRunID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("checking existing run: %w", err)
		}

		if _, err := sp.AiRuns().Create(ctx, msg.Run); err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}
		recorded = true
		return nil
	})
	if txErr != nil {
		sc.RecordError(txErr)
		return fmt.Errorf("transaction failed: %w", txErr)
	}

	if recorded {
		slog.InfoContext(ctx, "ai run recorded from replay")
	} else {
		slog.InfoContext(ctx, "ai run already recorded, skipping")
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The run is stored; a redelivery hits the existence check.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"ai_run_id", msg.AiRunID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"ai_run_id", msg.AiRunID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
