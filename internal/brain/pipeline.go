package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"supporttriage.app/backend/common/id"
	"supporttriage.app/backend/common/llm"
	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/internal/model"
)

const maxLoggedOutput = 500

// task describes one kind of model call. The pipeline owns everything that is
// shared: ticket lookup, the run record, the model call, and persistence.
type task[R any] struct {
	taskType      model.TaskType
	promptVersion string
	system        string
	schema        string
	prompt        func(t *model.Ticket, schema string) string
	// decorate adds task-specific fields to the recorded input.
	decorate func(in *runInput)
	// extract turns the parsed output into a result, or rejects it.
	extract func(output json.RawMessage) (*R, error)
	// persist runs inside the transaction that records the successful run.
	persist func(ctx context.Context, stores StoreProvider, t *model.Ticket, result *R) error
}

type runInput struct {
	System         string           `json:"system"`
	Prompt         string           `json:"prompt"`
	Schema         json.RawMessage  `json:"schema"`
	TicketSnapshot ticketSnapshot   `json:"ticketSnapshot"`
	Tone           *model.ReplyTone `json:"tone,omitempty"`
	SaveAsNote     *bool            `json:"saveAsNote,omitempty"`
}

type ticketSnapshot struct {
	ID             int64    `json:"id"`
	Subject        string   `json:"subject"`
	RequesterEmail string   `json:"requesterEmail"`
	Body           string   `json:"body"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Category       *string  `json:"category"`
	Tags           []string `json:"tags"`
}

func snapshotOf(t *model.Ticket) ticketSnapshot {
	return ticketSnapshot{
		ID:             t.ID,
		Subject:        t.Subject,
		RequesterEmail: t.RequesterEmail,
		Body:           t.Body,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		Category:       t.Category,
		Tags:           t.Tags,
	}
}

// runTask executes tk for a ticket and returns the result with the recorded run.
func runTask[R any](ctx context.Context, a *assistant, ticketID int64, tk task[R]) (*R, *model.AiRun, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TicketID:  &ticketID,
		TaskType:  logger.Ptr(string(tk.taskType)),
		Component: "triage.brain.pipeline",
	})

	ticket, err := a.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading ticket: %w", err)
	}

	prompt := tk.prompt(ticket, tk.schema)
	input := runInput{
		System:         tk.system,
		Prompt:         prompt,
		Schema:         json.RawMessage(tk.schema),
		TicketSnapshot: snapshotOf(ticket),
	}
	if tk.decorate != nil {
		tk.decorate(&input)
	}
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding run input: %w", err)
	}

	run := &model.AiRun{
		ID:            id.New(),
		TicketID:      ticket.ID,
		Type:          tk.taskType,
		Provider:      a.generator.Provider(),
		Model:         a.model,
		PromptVersion: tk.promptVersion,
		Input:         inputJSON,
		CreatedAt:     time.Now().UTC(),
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{AiRunID: &run.ID})

	sc := logger.StartSpan(ctx, "brain."+strings.ToLower(string(tk.taskType)))
	defer sc.End()
	ctx = sc.Context()
	sc.SetAttributes(
		attribute.Int64("ticket.id", ticket.ID),
		attribute.Int64("ai_run.id", run.ID),
		attribute.String("ai_run.model", run.Model),
		attribute.String("ai_run.prompt_version", run.PromptVersion),
	)

	start := time.Now()
	env, err := a.generator.Generate(ctx, llm.GenerateRequest{
		Model:  a.model,
		System: tk.system,
		Prompt: prompt,
	})
	if err != nil {
		sc.RecordError(err)
		return nil, run, a.fail(ctx, run, err)
	}

	output, err := parseOutput(llm.ResponseText(env))
	if err != nil {
		sc.RecordError(err)
		return nil, run, a.fail(ctx, run, err)
	}

	run.MarkSucceeded(output, time.Since(start))
	run.PromptTokens = env.PromptTokens
	run.CompletionTokens = env.CompletionTokens

	result, err := tk.extract(output)
	if err != nil {
		// The model call itself succeeded; the run keeps its output.
		sc.RecordError(err)
		slog.WarnContext(ctx, "ai output rejected", "error", err, "latency_ms", *run.LatencyMs)
		recorded := a.ledger.Record(ctx, run)
		return nil, run, invocationError(run, describeError(err), err, recorded)
	}

	err = a.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if tk.persist != nil {
			if err := tk.persist(ctx, stores, ticket, result); err != nil {
				return err
			}
		}
		_, err := stores.AiRuns().Create(ctx, run)
		return err
	})
	if err != nil {
		sc.RecordError(err)
		return nil, run, a.fail(ctx, run, fmt.Errorf("saving ai run: %w", err))
	}

	slog.InfoContext(ctx, "ai task completed",
		"latency_ms", *run.LatencyMs,
		"model", run.Model)

	return result, run, nil
}

// fail moves run to ERROR, records it through the ledger, and builds the caller's error.
func (a *assistant) fail(ctx context.Context, run *model.AiRun, cause error) error {
	msg := describeError(cause)
	run.MarkFailed(msg)

	slog.ErrorContext(ctx, "ai task failed", "error", cause)

	recorded := a.ledger.Record(ctx, run)
	return invocationError(run, msg, cause, recorded)
}

func invocationError(run *model.AiRun, msg string, cause error, recorded bool) *InvocationError {
	e := &InvocationError{Task: run.Type, Message: msg, Err: cause}
	if recorded {
		e.RunID = &run.ID
	}
	return e
}

// parseOutput validates the generated text and returns it as compact JSON.
func parseOutput(text *string) (json.RawMessage, error) {
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil, errEmptyResponse
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(*text)); err != nil {
		return nil, fmt.Errorf("model response was not valid JSON: %s: %w", logger.Truncate(*text, maxLoggedOutput), err)
	}
	return buf.Bytes(), nil
}
