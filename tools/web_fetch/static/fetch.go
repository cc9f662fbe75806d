package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cryptoscout/tools/web_fetch/models"
)

const maxBodyBytes = 2 << 20 // 2MB of HTML is plenty for article pages

type Fetch struct {
	Timeout   time.Duration
	UserAgent string
}

func (f Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, errors.New("invalid url")
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return models.Result{}, err
	}
	ua := f.UserAgent
	if ua == "" {
		ua = "cryptoscout/1.0 (research pipeline)"
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Result{URL: url, Status: resp.StatusCode}, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.Result{}, err
	}

	return models.Result{
		URL:      url,
		HTML:     string(body),
		Status:   resp.StatusCode,
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}
