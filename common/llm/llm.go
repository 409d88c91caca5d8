package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider constants for generation endpoint selection.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds generation client configuration.
type Config struct {
	Provider string        // "ollama", "openai" or "anthropic"
	BaseURL  string        // Endpoint root, e.g. http://localhost:11434
	Model    string        // Default model when a request does not name one
	APIKey   string        // Required for hosted providers
	Timeout  time.Duration // Connect and read timeout of a single call
}

// Generator issues one synchronous, non-streamed, JSON-formatted generation call.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Envelope, error)
	Provider() string
	Model() string
}

type GenerateRequest struct {
	Model  string
	System string
	Prompt string
}

// Envelope is the provider-neutral response of a generation call. Response is
// nil when the provider returned no text at all.
type Envelope struct {
	Model            string
	Response         *string
	Done             bool
	DoneReason       string
	PromptTokens     *int
	CompletionTokens *int
}

// ResponseText returns the generated text, or nil when the envelope or the text is absent.
func ResponseText(e *Envelope) *string {
	if e == nil {
		return nil
	}
	return e.Response
}

// ClientError is returned when the transport call fails or the response body
// cannot be decoded.
type ClientError struct {
	Provider string
	Err      error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s generate failed: %v", e.Provider, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err stems from the call exceeding its deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// New creates a Generator for cfg.Provider. Defaults to Ollama if no provider is specified.
func New(cfg Config) (Generator, error) {
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOllama
	}

	switch provider {
	case ProviderOllama:
		return newOllamaClient(cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", provider)
	}
}

func intPtr(v int64) *int {
	i := int(v)
	return &i
}
