package market

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

type httpClient struct {
	client  *http.Client
	retries int
	backoff time.Duration
}

func newHTTPClient(timeout time.Duration, retries int, backoff time.Duration) *httpClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	if backoff <= 0 {
		backoff = 300 * time.Millisecond
	}
	return &httpClient{client: &http.Client{Timeout: timeout}, retries: retries, backoff: backoff}
}

// getJSON fetches url and decodes the body into out, retrying transient
// failures with exponential backoff.
func (c *httpClient) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	var lastErr error
	tries := c.retries + 1
	for attempt := 0; attempt < tries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			func() {
				defer resp.Body.Close()
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					lastErr = json.NewDecoder(resp.Body).Decode(out)
					return
				}
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
				lastErr = errors.New(resp.Status + ": " + string(b))
			}()
			if lastErr == nil {
				return nil
			}
		}

		if attempt < tries-1 {
			select {
			case <-time.After(c.backoff * time.Duration(1<<attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
