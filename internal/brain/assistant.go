package brain

import (
	"context"
	"encoding/json"

	"supporttriage.app/backend/common/llm"
	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/store"
)

// Assistant runs the model-backed ticket tasks. Every call that reaches the
// model leaves exactly one AiRun in the ledger, successful or not.
type Assistant interface {
	Triage(ctx context.Context, ticketID int64) (*TriageSuggestion, error)
	Summarize(ctx context.Context, ticketID int64, saveAsNote bool) (*SummaryResult, error)
	DraftReply(ctx context.Context, ticketID int64, tone model.ReplyTone) (*ReplyDraft, error)
}

type assistant struct {
	generator llm.Generator
	tickets   store.TicketStore
	txRunner  TxRunner
	ledger    *Ledger
	model     string
}

// NewAssistant wires the generation client to the ticket store and the ledger.
// model is the configured model name sent with, and recorded for, every call.
func NewAssistant(generator llm.Generator, tickets store.TicketStore, txRunner TxRunner, ledger *Ledger, model string) Assistant {
	if model == "" {
		model = generator.Model()
	}
	return &assistant{
		generator: generator,
		tickets:   tickets,
		txRunner:  txRunner,
		ledger:    ledger,
		model:     model,
	}
}

func mustSchema[T any]() string {
	s, err := llm.SchemaJSON[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// decodeObject reads output as a JSON object. Anything else yields an empty map.
func decodeObject(output json.RawMessage) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(output, &obj); err != nil || obj == nil {
		return map[string]any{}
	}
	return obj
}
