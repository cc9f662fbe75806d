// Package batch provides a throttled batch runner for outbound API fan-out.
// Every component that issues many calls against a rate-limited collaborator
// (web search, scraping) goes through Run rather than rolling its own retry
// loop.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"
)

// BaseRetryDelay is the first backoff step for a rate-limited item; it
// doubles on every subsequent attempt.
const BaseRetryDelay = 500 * time.Millisecond

var rateLimitPattern = regexp.MustCompile(`(?i)(rate.?limit|too many requests|quota exceeded|\b429\b)`)

// RateLimitError marks a failure as retryable throttling. Collaborators that
// surface HTTP 429 explicitly should wrap it; anything else is classified by
// message pattern.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// IsRateLimit reports whether err should be retried with backoff.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	return rateLimitPattern.MatchString(err.Error())
}

// Run partitions items into consecutive chunks of batchSize and executes
// action concurrently within each chunk, sleeping interBatchDelay between
// chunks (but not after the last) to hold a global requests-per-second
// ceiling.
//
// A failure classified as rate limiting is retried for that single item with
// exponential backoff, up to maxRetries attempts beyond the first; any other
// failure records the item immediately. The returned slice preserves input
// order 1:1 with nil in place of failed items, so callers must filter.
func Run[T, R any](ctx context.Context, logger *log.Logger, items []T, batchSize int, interBatchDelay time.Duration, maxRetries int, action func(context.Context, T) (R, error)) []*R {
	if batchSize <= 0 {
		batchSize = 1
	}
	results := make([]*R, len(items))

	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = runOne(ctx, logger, items[idx], maxRetries, action)
			}(i)
		}
		wg.Wait()

		if end < len(items) {
			if !sleep(ctx, interBatchDelay) {
				return results
			}
		}
	}
	return results
}

func runOne[T, R any](ctx context.Context, logger *log.Logger, item T, maxRetries int, action func(context.Context, T) (R, error)) *R {
	delay := BaseRetryDelay
	for attempt := 0; ; attempt++ {
		out, err := action(ctx, item)
		if err == nil {
			return &out
		}
		if !IsRateLimit(err) {
			if logger != nil {
				logger.Printf("item failed: %v", err)
			}
			return nil
		}
		if attempt >= maxRetries {
			if logger != nil {
				logger.Printf("item dropped after %d rate-limit retries: %v", maxRetries, err)
			}
			return nil
		}
		if logger != nil {
			logger.Printf("rate limited, retrying in %s: %v", delay, err)
		}
		if !sleep(ctx, delay) {
			return nil
		}
		delay *= 2
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
