package service

import (
	"context"
	"fmt"

	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/store"
)

// AiRunService exposes the run ledger for auditing.
type AiRunService interface {
	ListByTicket(ctx context.Context, ticketID int64) ([]model.AiRun, error)
}

type aiRunService struct {
	tickets store.TicketStore
	runs    store.AiRunStore
}

func NewAiRunService(tickets store.TicketStore, runs store.AiRunStore) AiRunService {
	return &aiRunService{tickets: tickets, runs: runs}
}

func (s *aiRunService) ListByTicket(ctx context.Context, ticketID int64) ([]model.AiRun, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	runs, err := s.runs.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("listing ai runs: %w", err)
	}
	return runs, nil
}
