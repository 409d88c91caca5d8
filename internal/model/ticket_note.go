package model

import "time"

const (
	NoteTypeDefault   = "note"
	NoteTypeAISummary = "ai_summary"
	NoteTypeMaxLength = 32
)

type TicketNote struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	Type      string    `json:"type"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
