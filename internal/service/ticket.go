package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"supporttriage.app/backend/common/id"
	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/store"
)

// CreateTicketParams holds the fields of a new ticket. Nil status and
// priority fall back to OPEN and MEDIUM.
type CreateTicketParams struct {
	Subject        string
	RequesterEmail string
	Body           string
	Status         *model.TicketStatus
	Priority       *model.TicketPriority
	Category       *string
	Tags           []string
}

type TicketService interface {
	List(ctx context.Context, status *model.TicketStatus, query string) ([]model.Ticket, error)
	Get(ctx context.Context, id int64) (*model.Ticket, error)
	Create(ctx context.Context, params CreateTicketParams) (*model.Ticket, error)
	Update(ctx context.Context, id int64, update model.TicketUpdate) (*model.Ticket, error)
}

type ticketService struct {
	tickets store.TicketStore
}

func NewTicketService(tickets store.TicketStore) TicketService {
	return &ticketService{tickets: tickets}
}

func (s *ticketService) List(ctx context.Context, status *model.TicketStatus, query string) ([]model.Ticket, error) {
	tickets, err := s.tickets.Search(ctx, store.TicketSearch{
		Status: status,
		Query:  strings.TrimSpace(query),
	})
	if err != nil {
		return nil, fmt.Errorf("searching tickets: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) Get(ctx context.Context, id int64) (*model.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return ticket, nil
}

func (s *ticketService) Create(ctx context.Context, params CreateTicketParams) (*model.Ticket, error) {
	ticket := &model.Ticket{
		ID:             id.New(),
		Subject:        strings.TrimSpace(params.Subject),
		RequesterEmail: strings.TrimSpace(params.RequesterEmail),
		Body:           strings.TrimSpace(params.Body),
		Status:         model.TicketStatusOpen,
		Priority:       model.TicketPriorityMedium,
		Category:       trimOptional(params.Category),
		Tags:           normalizeTags(params.Tags),
	}
	if params.Status != nil {
		ticket.Status = *params.Status
	}
	if params.Priority != nil {
		ticket.Priority = *params.Priority
	}

	if err := validateTicket(ticket); err != nil {
		return nil, err
	}

	created, err := s.tickets.Create(ctx, ticket)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create ticket",
			"error", err,
			"requester_email", ticket.RequesterEmail)
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TicketID: &created.ID})
	slog.InfoContext(ctx, "ticket created",
		"status", created.Status,
		"priority", created.Priority)
	return created, nil
}

func (s *ticketService) Update(ctx context.Context, id int64, update model.TicketUpdate) (*model.Ticket, error) {
	update.Subject = trimPtr(update.Subject)
	update.RequesterEmail = trimPtr(update.RequesterEmail)
	update.Body = trimPtr(update.Body)
	update.Category = trimPtr(update.Category)
	if update.Tags != nil {
		update.Tags = normalizeTags(update.Tags)
	}

	if update.Subject != nil && *update.Subject == "" {
		return nil, &InputError{Field: "subject", Message: "must not be blank"}
	}
	if update.RequesterEmail != nil && *update.RequesterEmail == "" {
		return nil, &InputError{Field: "requesterEmail", Message: "must not be blank"}
	}
	if update.Body != nil && *update.Body == "" {
		return nil, &InputError{Field: "body", Message: "must not be blank"}
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, &InputError{Field: "status", Message: fmt.Sprintf("unknown status %q", *update.Status)}
	}
	if update.Priority != nil && !update.Priority.IsValid() {
		return nil, &InputError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *update.Priority)}
	}

	ticket, err := s.tickets.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("updating ticket: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TicketID: &ticket.ID})
	slog.InfoContext(ctx, "ticket updated", "status", ticket.Status, "priority", ticket.Priority)
	return ticket, nil
}

func validateTicket(t *model.Ticket) error {
	switch {
	case t.Subject == "":
		return &InputError{Field: "subject", Message: "must not be blank"}
	case t.RequesterEmail == "":
		return &InputError{Field: "requesterEmail", Message: "must not be blank"}
	case t.Body == "":
		return &InputError{Field: "body", Message: "must not be blank"}
	case !t.Status.IsValid():
		return &InputError{Field: "status", Message: fmt.Sprintf("unknown status %q", t.Status)}
	case !t.Priority.IsValid():
		return &InputError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", t.Priority)}
	}
	return nil
}

// trimOptional trims s and maps blank to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
