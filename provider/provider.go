package provider

import (
	"context"
	"errors"
	"time"

	openai_provider "cryptoscout/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Provider is the generation collaborator the pipeline depends on. Two modes
// share the one method: query expansion (numbered-JSON or the fixed
// rejection sentence) and final synthesis (free-form structured prose over
// an assembled context document). No streaming, no function calling.
type Provider interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// NewProvider creates a new LLM client for the given provider.
func NewProvider(client Client, apiKey, model string, temperature float64, maxTokens int, timeout time.Duration) (Provider, error) {
	switch client {
	case OpenAI:
		if apiKey == "" {
			return nil, errors.New("openai api key not set")
		}
		if model == "" {
			model = "gpt-4o-mini"
		}
		if maxTokens <= 0 {
			maxTokens = 4096
		}
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		return openai_provider.NewClient(apiKey, model, temperature, maxTokens, timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
