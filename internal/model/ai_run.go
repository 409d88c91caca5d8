package model

import (
	"encoding/json"
	"strings"
	"time"
)

type TaskType string

type RunStatus string

const (
	TaskTypeTriage     TaskType = "TRIAGE"
	TaskTypeSummary    TaskType = "SUMMARY"
	TaskTypeReplyDraft TaskType = "REPLY_DRAFT"
)

const (
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusError   RunStatus = "ERROR"
)

type ReplyTone string

const (
	ReplyToneEmpathetic   ReplyTone = "EMPATHETIC"
	ReplyToneProfessional ReplyTone = "PROFESSIONAL"
	ReplyToneConcise      ReplyTone = "CONCISE"
)

func (t ReplyTone) IsValid() bool {
	switch t {
	case ReplyToneEmpathetic, ReplyToneProfessional, ReplyToneConcise:
		return true
	}
	return false
}

// AiRun is the ledger record of one attempt to call the generation endpoint.
// Input is set before the call; exactly one of Output or ErrorMessage is set
// once the attempt ends. Records are written once and never updated.
type AiRun struct {
	ID            int64    `json:"id"`
	TicketID      int64    `json:"ticket_id"`
	Type          TaskType `json:"type"`
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	PromptVersion string   `json:"prompt_version"`

	Input  json.RawMessage `json:"input_json"`
	Output json.RawMessage `json:"output_json,omitempty"`

	LatencyMs    *int      `json:"latency_ms,omitempty"`
	Status       RunStatus `json:"status"`
	ErrorMessage *string   `json:"error_message,omitempty"`

	PromptTokens     *int `json:"prompt_tokens,omitempty"`
	CompletionTokens *int `json:"completion_tokens,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *AiRun) MarkSucceeded(output json.RawMessage, latency time.Duration) {
	ms := int(latency.Milliseconds())
	r.Status = RunStatusSuccess
	r.Output = output
	r.LatencyMs = &ms
	r.ErrorMessage = nil
}

// MarkFailed moves the run to ERROR. The message is stored in a TEXT column,
// so invalid UTF-8 is replaced.
func (r *AiRun) MarkFailed(message string) {
	message = strings.ToValidUTF8(message, "\uFFFD")
	r.Status = RunStatusError
	r.ErrorMessage = &message
	r.Output = nil
	r.LatencyMs = nil
}

func (r *AiRun) Succeeded() bool {
	return r.Status == RunStatusSuccess
}
