package dto

import (
	"time"

	"supporttriage.app/backend/internal/model"
)

type CreateNoteRequest struct {
	Type string `json:"type"`
	Body string `json:"body" binding:"required,max=20000"`
}

type NoteResponse struct {
	ID        ID        `json:"id"`
	TicketID  ID        `json:"ticketId"`
	Type      string    `json:"type"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToNoteResponse(n *model.TicketNote) NoteResponse {
	return NoteResponse{
		ID:        ID(n.ID),
		TicketID:  ID(n.TicketID),
		Type:      n.Type,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}

func ToNoteResponses(notes []model.TicketNote) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for i := range notes {
		out[i] = ToNoteResponse(&notes[i])
	}
	return out
}
