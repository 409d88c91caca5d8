package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"supporttriage.app/backend/internal/model"
)

type ReplyOutput struct {
	Draft string `json:"draft" jsonschema:"minLength=20,maxLength=2500" jsonschema_description:"Reply text addressed to the customer"`
}

type ReplyDraft struct {
	TicketID int64           `json:"ticketId"`
	Tone     model.ReplyTone `json:"tone"`
	Draft    string          `json:"draft"`
	AiRunID  int64           `json:"aiRunId"`
}

var replySchema = mustSchema[ReplyOutput]()

func (a *assistant) DraftReply(ctx context.Context, ticketID int64, tone model.ReplyTone) (*ReplyDraft, error) {
	if !tone.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTone, tone)
	}

	result, run, err := runTask(ctx, a, ticketID, task[ReplyDraft]{
		taskType:      model.TaskTypeReplyDraft,
		promptVersion: replyPromptVersion,
		system:        replySystem(tone),
		schema:        replySchema,
		prompt: func(t *model.Ticket, schema string) string {
			return replyPrompt(t, tone, schema)
		},
		decorate: func(in *runInput) {
			in.Tone = &tone
		},
		extract: extractReply,
	})
	if err != nil {
		return nil, err
	}
	result.TicketID = ticketID
	result.Tone = tone
	result.AiRunID = run.ID
	return result, nil
}

func extractReply(output json.RawMessage) (*ReplyDraft, error) {
	draft := strings.TrimSpace(asText(decodeObject(output)["draft"]))
	if draft == "" {
		return nil, missingField("draft")
	}
	return &ReplyDraft{Draft: SanitizeDraft(draft)}, nil
}
