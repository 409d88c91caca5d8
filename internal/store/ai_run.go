package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"supporttriage.app/backend/core/db/sqlc"
	"supporttriage.app/backend/internal/model"
)

type aiRunStore struct {
	queries *sqlc.Queries
}

func newAiRunStore(queries *sqlc.Queries) AiRunStore {
	return &aiRunStore{queries: queries}
}

func (s *aiRunStore) Create(ctx context.Context, run *model.AiRun) (*model.AiRun, error) {
	params := sqlc.InsertAiRunParams{
		ID:               run.ID,
		TicketID:         run.TicketID,
		Type:             string(run.Type),
		Provider:         run.Provider,
		Model:            run.Model,
		PromptVersion:    run.PromptVersion,
		InputJson:        run.Input,
		Status:           string(run.Status),
		ErrorMessage:     run.ErrorMessage,
		LatencyMs:        toInt32Ptr(run.LatencyMs),
		PromptTokens:     toInt32Ptr(run.PromptTokens),
		CompletionTokens: toInt32Ptr(run.CompletionTokens),
	}
	if len(run.Output) > 0 {
		params.OutputJson = run.Output
	}

	row, err := s.queries.InsertAiRun(ctx, params)
	if err != nil {
		return nil, err
	}
	return toAiRunModel(row), nil
}

func (s *aiRunStore) GetByID(ctx context.Context, id int64) (*model.AiRun, error) {
	row, err := s.queries.GetAiRun(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "ai run", ID: id}
		}
		return nil, err
	}
	return toAiRunModel(row), nil
}

func (s *aiRunStore) ListByTicket(ctx context.Context, ticketID int64) ([]model.AiRun, error) {
	rows, err := s.queries.ListAiRunsByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	runs := make([]model.AiRun, len(rows))
	for i, row := range rows {
		runs[i] = *toAiRunModel(row)
	}
	return runs, nil
}

func toAiRunModel(row sqlc.AiRun) *model.AiRun {
	return &model.AiRun{
		ID:               row.ID,
		TicketID:         row.TicketID,
		Type:             model.TaskType(row.Type),
		Provider:         row.Provider,
		Model:            row.Model,
		PromptVersion:    row.PromptVersion,
		Input:            row.InputJson,
		Output:           row.OutputJson,
		LatencyMs:        toIntPtr(row.LatencyMs),
		Status:           model.RunStatus(row.Status),
		ErrorMessage:     row.ErrorMessage,
		PromptTokens:     toIntPtr(row.PromptTokens),
		CompletionTokens: toIntPtr(row.CompletionTokens),
		CreatedAt:        row.CreatedAt.Time,
	}
}

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}

func toIntPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
