package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"supporttriage.app/backend/internal/model"
)

// TriageOutput is the shape the model is asked to return.
type TriageOutput struct {
	Category  string               `json:"category" jsonschema:"enum=billing,enum=bug,enum=feature,enum=account,enum=incident,enum=question,enum=other" jsonschema_description:"Best-fit ticket category"`
	Priority  model.TicketPriority `json:"priority" jsonschema_description:"Suggested ticket priority"`
	Tags      []string             `json:"tags" jsonschema:"minItems=2,maxItems=6" jsonschema_description:"2-6 short lowercase tags"`
	Rationale string               `json:"rationale" jsonschema:"minLength=1" jsonschema_description:"1-2 sentences explaining the suggestion"`
	Entities  TriageEntities       `json:"entities"`
}

type TriageEntities struct {
	RequesterEmail string `json:"requesterEmail" jsonschema_description:"Email of the requester, or empty string"`
	OrderID        string `json:"orderId" jsonschema_description:"Order identifier, or empty string"`
	Product        string `json:"product" jsonschema_description:"Product or feature name, or empty string"`
	ErrorCode      string `json:"errorCode" jsonschema_description:"Error code quoted in the ticket, or empty string"`
}

func (TriageOutput) JSONSchemaExtend(s *jsonschema.Schema) {
	priority, ok := s.Properties.Get("priority")
	if !ok {
		return
	}
	priority.Enum = make([]any, len(model.TicketPriorities))
	for i, p := range model.TicketPriorities {
		priority.Enum[i] = string(p)
	}
}

// TriageSuggestion is advisory; the ticket itself is not changed.
type TriageSuggestion struct {
	TriageOutput
	AiRunID int64 `json:"aiRunId"`
}

var triageSchema = mustSchema[TriageOutput]()

func (a *assistant) Triage(ctx context.Context, ticketID int64) (*TriageSuggestion, error) {
	result, run, err := runTask(ctx, a, ticketID, task[TriageOutput]{
		taskType:      model.TaskTypeTriage,
		promptVersion: triagePromptVersion,
		system:        triageSystemPrompt,
		schema:        triageSchema,
		prompt:        triagePrompt,
		extract:       extractTriage,
	})
	if err != nil {
		return nil, err
	}
	return &TriageSuggestion{TriageOutput: *result, AiRunID: run.ID}, nil
}

// extractTriage ignores unknown fields and tolerates missing ones, but rejects
// output that is not an object and a priority outside the ticket priority
// enumeration.
func extractTriage(output json.RawMessage) (*TriageOutput, error) {
	if len(output) == 0 || output[0] != '{' {
		return nil, &OutputError{Field: "output", Reason: "expected a JSON object"}
	}

	var out TriageOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, fmt.Errorf("unexpected triage output: %w", err)
	}

	if out.Priority != "" {
		p, err := model.ParseTicketPriority(string(out.Priority))
		if err != nil {
			return nil, &OutputError{Field: "priority", Reason: fmt.Sprintf("invalid value %q for field", out.Priority)}
		}
		out.Priority = p
	}

	out.Category = strings.TrimSpace(out.Category)
	out.Rationale = strings.TrimSpace(out.Rationale)
	tags := make([]string, 0, len(out.Tags))
	for _, tag := range out.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	out.Tags = tags

	return &out, nil
}
