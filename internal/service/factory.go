package service

import (
	"supporttriage.app/backend/internal/store"
)

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
}

func NewServices(stores *store.Stores, txRunner TxRunner) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
	}
}

func (s *Services) Tickets() TicketService {
	return NewTicketService(s.stores.Tickets())
}

func (s *Services) Notes() NoteService {
	return NewNoteService(s.stores.TicketNotes(), s.txRunner)
}

func (s *Services) AiRuns() AiRunService {
	return NewAiRunService(s.stores.Tickets(), s.stores.AiRuns())
}
