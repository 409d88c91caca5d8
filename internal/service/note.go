package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"supporttriage.app/backend/common/id"
	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/store"
)

type NoteService interface {
	List(ctx context.Context, ticketID int64) ([]model.TicketNote, error)
	Create(ctx context.Context, ticketID int64, noteType, body string) (*model.TicketNote, error)
}

type noteService struct {
	notes    store.TicketNoteStore
	txRunner TxRunner
}

func NewNoteService(notes store.TicketNoteStore, txRunner TxRunner) NoteService {
	return &noteService{notes: notes, txRunner: txRunner}
}

// List returns the ticket's notes, newest first.
func (s *noteService) List(ctx context.Context, ticketID int64) ([]model.TicketNote, error) {
	notes, err := s.notes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

func (s *noteService) Create(ctx context.Context, ticketID int64, noteType, body string) (*model.TicketNote, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &InputError{Field: "body", Message: "must not be blank"}
	}

	noteType = strings.ToLower(strings.TrimSpace(noteType))
	if noteType == "" {
		noteType = model.NoteTypeDefault
	}
	if utf8.RuneCountInString(noteType) > model.NoteTypeMaxLength {
		return nil, &InputError{Field: "type", Message: fmt.Sprintf("must be at most %d characters", model.NoteTypeMaxLength)}
	}

	note := &model.TicketNote{
		ID:       id.New(),
		TicketID: ticketID,
		Type:     noteType,
		Body:     body,
	}

	var created *model.TicketNote
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if _, err := sp.Tickets().GetByID(ctx, ticketID); err != nil {
			return err
		}
		var err error
		created, err = sp.TicketNotes().Create(ctx, note)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TicketID: &ticketID})
	slog.InfoContext(ctx, "note created", "note_id", created.ID, "type", created.Type)
	return created, nil
}
