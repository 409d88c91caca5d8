package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/internal/model"
)

// RunMessage carries an AI run record that could not be written to the database.
type RunMessage struct {
	Run     *model.AiRun
	TraceID string
	Attempt int
}

type Producer interface {
	Enqueue(ctx context.Context, msg RunMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, msg RunMessage) error {
	if msg.Run == nil {
		return fmt.Errorf("enqueue run: nil run")
	}

	attempt := msg.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	payload, err := json.Marshal(msg.Run)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}

	fields := runValues(msg.Run.ID, msg.Run.TicketID, payload, attempt, msg.TraceID)

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue run: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued unrecorded ai run",
		"ai_run_id", msg.Run.ID,
		"ticket_id", msg.Run.TicketID,
		"status", msg.Run.Status,
		"attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

// RunPublisher adapts a Producer to the ledger's fallback hook.
type RunPublisher struct {
	producer Producer
}

func NewRunPublisher(producer Producer) *RunPublisher {
	return &RunPublisher{producer: producer}
}

func (p *RunPublisher) Publish(ctx context.Context, run *model.AiRun) error {
	return p.producer.Enqueue(ctx, RunMessage{
		Run:     run,
		TraceID: logger.TraceID(ctx),
	})
}

func runValues(runID, ticketID int64, payload []byte, attempt int, traceID string) map[string]any {
	values := map[string]any{
		"ai_run_id": runID,
		"ticket_id": ticketID,
		"run":       string(payload),
		"attempt":   attempt,
	}
	if traceID != "" {
		values["trace_id"] = traceID
	}
	return values
}
