package web_fetch

import (
	"context"
	"time"

	"cryptoscout/tools/web_fetch/chromedp"
	"cryptoscout/tools/web_fetch/models"
	"cryptoscout/tools/web_fetch/static"
)

const (
	DefaultStaticTimeout  = 12 * time.Second
	DefaultBrowserTimeout = 15 * time.Second
)

// WebFetcher retrieves the HTML of a page. Implementations must treat the
// context deadline as the overall budget for the fetch.
type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	StaticFetcherType   FetcherType = "static"
	ChromedpFetcherType FetcherType = "chromedp"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func NewWebFetcher(fetcherType FetcherType, timeout time.Duration) (WebFetcher, error) {
	switch fetcherType {
	case StaticFetcherType:
		if timeout <= 0 {
			timeout = DefaultStaticTimeout
		}
		return static.Fetch{Timeout: timeout}, nil
	case ChromedpFetcherType:
		if timeout <= 0 {
			timeout = DefaultBrowserTimeout
		}
		return chromedp.Fetch{Timeout: timeout}, nil
	default:
		return nil, &Error{"unsupported fetcher type"}
	}
}
