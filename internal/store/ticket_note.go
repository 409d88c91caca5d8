package store

import (
	"context"

	"supporttriage.app/backend/core/db/sqlc"
	"supporttriage.app/backend/internal/model"
)

type ticketNoteStore struct {
	queries *sqlc.Queries
}

func newTicketNoteStore(queries *sqlc.Queries) TicketNoteStore {
	return &ticketNoteStore{queries: queries}
}

func (s *ticketNoteStore) Create(ctx context.Context, note *model.TicketNote) (*model.TicketNote, error) {
	row, err := s.queries.CreateTicketNote(ctx, sqlc.CreateTicketNoteParams{
		ID:       note.ID,
		TicketID: note.TicketID,
		Type:     note.Type,
		Body:     note.Body,
	})
	if err != nil {
		return nil, err
	}
	return toTicketNoteModel(row), nil
}

func (s *ticketNoteStore) ListByTicket(ctx context.Context, ticketID int64) ([]model.TicketNote, error) {
	rows, err := s.queries.ListTicketNotesByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	notes := make([]model.TicketNote, len(rows))
	for i, row := range rows {
		notes[i] = *toTicketNoteModel(row)
	}
	return notes, nil
}

func toTicketNoteModel(row sqlc.TicketNote) *model.TicketNote {
	return &model.TicketNote{
		ID:        row.ID,
		TicketID:  row.TicketID,
		Type:      row.Type,
		Body:      row.Body,
		CreatedAt: row.CreatedAt.Time,
	}
}
