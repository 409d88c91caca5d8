package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"supporttriage.app/backend/core/db/sqlc"
	"supporttriage.app/backend/internal/model"
)

const defaultSearchLimit = 200

type ticketStore struct {
	queries *sqlc.Queries
}

func newTicketStore(queries *sqlc.Queries) TicketStore {
	return &ticketStore{queries: queries}
}

func (s *ticketStore) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	row, err := s.queries.GetTicket(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "ticket", ID: id}
		}
		return nil, err
	}
	return toTicketModel(row), nil
}

func (s *ticketStore) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}

	row, err := s.queries.CreateTicket(ctx, sqlc.CreateTicketParams{
		ID:             ticket.ID,
		Subject:        ticket.Subject,
		RequesterEmail: ticket.RequesterEmail,
		Body:           ticket.Body,
		Status:         string(ticket.Status),
		Priority:       string(ticket.Priority),
		Category:       ticket.Category,
		Tags:           tags,
	})
	if err != nil {
		return nil, err
	}
	return toTicketModel(row), nil
}

func (s *ticketStore) Update(ctx context.Context, id int64, update model.TicketUpdate) (*model.Ticket, error) {
	params := sqlc.UpdateTicketParams{
		ID:             id,
		Subject:        update.Subject,
		RequesterEmail: update.RequesterEmail,
		Body:           update.Body,
		Category:       update.Category,
		Tags:           update.Tags,
	}
	if update.Status != nil {
		v := string(*update.Status)
		params.Status = &v
	}
	if update.Priority != nil {
		v := string(*update.Priority)
		params.Priority = &v
	}

	row, err := s.queries.UpdateTicket(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "ticket", ID: id}
		}
		return nil, err
	}
	return toTicketModel(row), nil
}

func (s *ticketStore) Search(ctx context.Context, search TicketSearch) ([]model.Ticket, error) {
	params := sqlc.SearchTicketsParams{Limit: search.Limit}
	if params.Limit <= 0 {
		params.Limit = defaultSearchLimit
	}
	if search.Status != nil {
		v := string(*search.Status)
		params.Status = &v
	}
	if q := strings.TrimSpace(search.Query); q != "" {
		params.Query = &q
	}

	rows, err := s.queries.SearchTickets(ctx, params)
	if err != nil {
		return nil, err
	}

	tickets := make([]model.Ticket, len(rows))
	for i, row := range rows {
		tickets[i] = *toTicketModel(row)
	}
	return tickets, nil
}

func toTicketModel(row sqlc.Ticket) *model.Ticket {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return &model.Ticket{
		ID:             row.ID,
		Subject:        row.Subject,
		RequesterEmail: row.RequesterEmail,
		Body:           row.Body,
		Status:         model.TicketStatus(row.Status),
		Priority:       model.TicketPriority(row.Priority),
		Category:       row.Category,
		Tags:           tags,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
