package web_search

import (
	"context"

	"cryptoscout/tools/web_search/brave"
	"cryptoscout/tools/web_search/models"
	"cryptoscout/tools/web_search/serper"
)

// WebSearcher issues one query against a hosted search API. Implementations
// must surface throttling as a returned error (the batch executor classifies
// and retries 429s); they never return partial results alongside an error.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

var ErrUnsupportedProvider = &Error{"unsupported provider"}

func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
