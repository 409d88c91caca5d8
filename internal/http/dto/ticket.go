package dto

import (
	"time"

	"supporttriage.app/backend/internal/model"
)

type CreateTicketRequest struct {
	Subject        string   `json:"subject" binding:"required,max=500"`
	RequesterEmail string   `json:"requesterEmail" binding:"required,email,max=320"`
	Body           string   `json:"body" binding:"required,max=20000"`
	Status         *string  `json:"status,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	Category       *string  `json:"category,omitempty" binding:"omitempty,max=100"`
	Tags           []string `json:"tags,omitempty" binding:"omitempty,max=20,dive,max=50"`
}

type UpdateTicketRequest struct {
	Subject        *string  `json:"subject,omitempty" binding:"omitempty,max=500"`
	RequesterEmail *string  `json:"requesterEmail,omitempty" binding:"omitempty,email,max=320"`
	Body           *string  `json:"body,omitempty" binding:"omitempty,max=20000"`
	Status         *string  `json:"status,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	Category       *string  `json:"category,omitempty" binding:"omitempty,max=100"`
	Tags           []string `json:"tags,omitempty" binding:"omitempty,max=20,dive,max=50"`
}

type TicketResponse struct {
	ID             ID        `json:"id"`
	Subject        string    `json:"subject"`
	RequesterEmail string    `json:"requesterEmail"`
	Body           string    `json:"body"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	Category       *string   `json:"category"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func ToTicketResponse(t *model.Ticket) TicketResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:             ID(t.ID),
		Subject:        t.Subject,
		RequesterEmail: t.RequesterEmail,
		Body:           t.Body,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		Category:       t.Category,
		Tags:           tags,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func ToTicketResponses(tickets []model.Ticket) []TicketResponse {
	out := make([]TicketResponse, len(tickets))
	for i := range tickets {
		out[i] = ToTicketResponse(&tickets[i])
	}
	return out
}
