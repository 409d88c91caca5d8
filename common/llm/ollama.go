package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3.2"
)

// ollamaClient talks to the native /api/generate endpoint of an Ollama server.
type ollamaClient struct {
	client *api.Client
	model  string
}

var _ Generator = (*ollamaClient)(nil)

func newOllamaClient(cfg Config) (Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}

	return &ollamaClient{
		client: api.NewClient(base, newHTTPClient(cfg.Timeout)),
		model:  model,
	}, nil
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*Envelope, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	stream := false
	genReq := &api.GenerateRequest{
		Model:  model,
		System: req.System,
		Prompt: req.Prompt,
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var (
		resp     api.GenerateResponse
		received bool
	)
	start := time.Now()
	err := c.client.Generate(ctx, genReq, func(r api.GenerateResponse) error {
		resp = r
		received = true
		return nil
	})
	if err != nil {
		return nil, &ClientError{Provider: ProviderOllama, Err: err}
	}

	slog.DebugContext(ctx, "ollama generate completed",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.PromptEvalCount,
		"completion_tokens", resp.EvalCount,
		"done_reason", resp.DoneReason)

	env := &Envelope{
		Model:      resp.Model,
		Done:       resp.Done,
		DoneReason: resp.DoneReason,
	}
	if received {
		text := resp.Response
		env.Response = &text
	}
	if resp.PromptEvalCount > 0 {
		env.PromptTokens = intPtr(int64(resp.PromptEvalCount))
	}
	if resp.EvalCount > 0 {
		env.CompletionTokens = intPtr(int64(resp.EvalCount))
	}
	return env, nil
}

func (c *ollamaClient) Provider() string {
	return ProviderOllama
}

func (c *ollamaClient) Model() string {
	return c.model
}

// newHTTPClient applies the same bound to connecting and to waiting for the response.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout}).DialContext
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
