package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"supporttriage.app/backend/common/id"
	"supporttriage.app/backend/internal/model"
)

type SummaryOutput struct {
	Summary   string   `json:"summary" jsonschema_description:"2-4 sentence summary of the ticket"`
	KeyPoints []string `json:"keyPoints" jsonschema_description:"Short factual bullet points"`
}

type SummaryResult struct {
	TicketID    int64    `json:"ticketId"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	SavedNoteID *int64   `json:"savedNoteId,omitempty"`
	AiRunID     int64    `json:"aiRunId"`
}

var summarySchema = mustSchema[SummaryOutput]()

func (a *assistant) Summarize(ctx context.Context, ticketID int64, saveAsNote bool) (*SummaryResult, error) {
	tk := task[SummaryResult]{
		taskType:      model.TaskTypeSummary,
		promptVersion: summaryPromptVersion,
		system:        summarySystemPrompt,
		schema:        summarySchema,
		prompt:        summaryPrompt,
		decorate: func(in *runInput) {
			in.SaveAsNote = &saveAsNote
		},
		extract: extractSummary,
	}
	if saveAsNote {
		tk.persist = saveSummaryNote
	}

	result, run, err := runTask(ctx, a, ticketID, tk)
	if err != nil {
		return nil, err
	}
	result.TicketID = ticketID
	result.AiRunID = run.ID
	return result, nil
}

func extractSummary(output json.RawMessage) (*SummaryResult, error) {
	obj := decodeObject(output)

	summary := strings.TrimSpace(asText(obj["summary"]))
	if summary == "" {
		return nil, missingField("summary")
	}

	keyPoints := []string{}
	if items, ok := obj["keyPoints"].([]any); ok {
		for _, item := range items {
			s := strings.TrimSpace(asText(item))
			if s == "" || isPlaceholder(s) {
				continue
			}
			keyPoints = append(keyPoints, s)
		}
	}

	return &SummaryResult{Summary: summary, KeyPoints: keyPoints}, nil
}

func saveSummaryNote(ctx context.Context, stores StoreProvider, t *model.Ticket, result *SummaryResult) error {
	note, err := stores.TicketNotes().Create(ctx, &model.TicketNote{
		ID:       id.New(),
		TicketID: t.ID,
		Type:     model.NoteTypeAISummary,
		Body:     FormatSummaryNote(t.Subject, result.Summary, result.KeyPoints),
	})
	if err != nil {
		return fmt.Errorf("saving summary note: %w", err)
	}
	result.SavedNoteID = &note.ID
	return nil
}

// FormatSummaryNote renders the body of an ai_summary note. The subject segment
// is omitted for a blank subject and the key points section for an empty list.
func FormatSummaryNote(subject, summary string, keyPoints []string) string {
	var sb strings.Builder

	sb.WriteString("AI Summary")
	if s := strings.TrimSpace(subject); s != "" {
		sb.WriteString(" — ")
		sb.WriteString(s)
	}
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(summary))
	sb.WriteString("\n")

	if len(keyPoints) > 0 {
		sb.WriteString("\nKey points:\n")
		for _, kp := range keyPoints {
			if kp = strings.TrimSpace(kp); kp != "" {
				sb.WriteString("- ")
				sb.WriteString(kp)
				sb.WriteString("\n")
			}
		}
	}

	return strings.TrimSpace(sb.String())
}

// asText renders scalar JSON values as text; objects, arrays and null become "".
func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
