package store

import (
	"supporttriage.app/backend/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Tickets() TicketStore {
	return newTicketStore(s.queries)
}

func (s *Stores) TicketNotes() TicketNoteStore {
	return newTicketNoteStore(s.queries)
}

func (s *Stores) AiRuns() AiRunStore {
	return newAiRunStore(s.queries)
}
