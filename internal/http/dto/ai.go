package dto

import (
	"encoding/json"
	"time"

	"supporttriage.app/backend/internal/brain"
	"supporttriage.app/backend/internal/model"
)

type TriageRequest struct {
	TicketID ID `json:"ticketId" binding:"required"`
}

type SummaryRequest struct {
	TicketID   ID   `json:"ticketId" binding:"required"`
	SaveAsNote bool `json:"saveAsNote"`
}

type ReplyDraftRequest struct {
	TicketID ID     `json:"ticketId" binding:"required"`
	Tone     string `json:"tone" binding:"required"`
}

type TriageEntities struct {
	RequesterEmail string `json:"requesterEmail"`
	OrderID        string `json:"orderId"`
	Product        string `json:"product"`
	ErrorCode      string `json:"errorCode"`
}

type TriageResponse struct {
	Category  string         `json:"category"`
	Priority  string         `json:"priority"`
	Tags      []string       `json:"tags"`
	Rationale string         `json:"rationale"`
	Entities  TriageEntities `json:"entities"`
	AiRunID   ID             `json:"aiRunId"`
}

func ToTriageResponse(s *brain.TriageSuggestion) TriageResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return TriageResponse{
		Category:  s.Category,
		Priority:  string(s.Priority),
		Tags:      tags,
		Rationale: s.Rationale,
		Entities: TriageEntities{
			RequesterEmail: s.Entities.RequesterEmail,
			OrderID:        s.Entities.OrderID,
			Product:        s.Entities.Product,
			ErrorCode:      s.Entities.ErrorCode,
		},
		AiRunID: ID(s.AiRunID),
	}
}

type SummaryResponse struct {
	TicketID    ID       `json:"ticketId"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	SavedNoteID *ID      `json:"savedNoteId,omitempty"`
	AiRunID     ID       `json:"aiRunId"`
}

func ToSummaryResponse(r *brain.SummaryResult) SummaryResponse {
	keyPoints := r.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return SummaryResponse{
		TicketID:    ID(r.TicketID),
		Summary:     r.Summary,
		KeyPoints:   keyPoints,
		SavedNoteID: idPtr(r.SavedNoteID),
		AiRunID:     ID(r.AiRunID),
	}
}

type ReplyDraftResponse struct {
	TicketID ID     `json:"ticketId"`
	Tone     string `json:"tone"`
	Draft    string `json:"draft"`
	AiRunID  ID     `json:"aiRunId"`
}

func ToReplyDraftResponse(d *brain.ReplyDraft) ReplyDraftResponse {
	return ReplyDraftResponse{
		TicketID: ID(d.TicketID),
		Tone:     string(d.Tone),
		Draft:    d.Draft,
		AiRunID:  ID(d.AiRunID),
	}
}

type AiRunResponse struct {
	ID               ID              `json:"id"`
	TicketID         ID              `json:"ticketId"`
	Type             string          `json:"type"`
	Provider         string          `json:"provider"`
	Model            string          `json:"model"`
	PromptVersion    string          `json:"promptVersion"`
	Input            json.RawMessage `json:"inputJson"`
	Output           json.RawMessage `json:"outputJson"`
	LatencyMs        *int            `json:"latencyMs"`
	Status           string          `json:"status"`
	ErrorMessage     *string         `json:"errorMessage"`
	PromptTokens     *int            `json:"promptTokens,omitempty"`
	CompletionTokens *int            `json:"completionTokens,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func ToAiRunResponses(runs []model.AiRun) []AiRunResponse {
	out := make([]AiRunResponse, len(runs))
	for i, r := range runs {
		output := r.Output
		if len(output) == 0 {
			output = json.RawMessage("null")
		}
		out[i] = AiRunResponse{
			ID:               ID(r.ID),
			TicketID:         ID(r.TicketID),
			Type:             string(r.Type),
			Provider:         r.Provider,
			Model:            r.Model,
			PromptVersion:    r.PromptVersion,
			Input:            r.Input,
			Output:           output,
			LatencyMs:        r.LatencyMs,
			Status:           string(r.Status),
			ErrorMessage:     r.ErrorMessage,
			PromptTokens:     r.PromptTokens,
			CompletionTokens: r.CompletionTokens,
			CreatedAt:        r.CreatedAt,
		}
	}
	return out
}
