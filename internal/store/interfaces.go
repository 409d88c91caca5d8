package store

import (
	"context"
	"errors"
	"fmt"

	"supporttriage.app/backend/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing entity. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TicketSearch filters ticket listings. Zero values match everything.
type TicketSearch struct {
	Status *model.TicketStatus
	Query  string
	Limit  int32
}

// TicketStore defines the contract for ticket data access
type TicketStore interface {
	GetByID(ctx context.Context, id int64) (*model.Ticket, error)
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	Update(ctx context.Context, id int64, update model.TicketUpdate) (*model.Ticket, error)
	Search(ctx context.Context, search TicketSearch) ([]model.Ticket, error)
}

// TicketNoteStore defines the contract for ticket note data access
type TicketNoteStore interface {
	Create(ctx context.Context, note *model.TicketNote) (*model.TicketNote, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]model.TicketNote, error)
}

// AiRunStore is append-only: runs are never updated or deleted.
type AiRunStore interface {
	Create(ctx context.Context, run *model.AiRun) (*model.AiRun, error)
	GetByID(ctx context.Context, id int64) (*model.AiRun, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]model.AiRun, error)
}
