package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/araddon/dateparse"

	"cryptoscout/tools/web_search/models"
	"cryptoscout/utils"
)

const defaultEndpoint = "https://google.serper.dev/search"

type Search struct {
	ApiKey   string
	Endpoint string // overridable for tests
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://serper.dev/ docs
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	body, _ := json.Marshal(map[string]any{"q": q, "num": k})
	req, _ := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(string(body)))
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper search: %s", resp.Status)
	}
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	if items, ok := raw["organic"].([]any); ok {
		for i, it := range items {
			if i >= k {
				break
			}
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			res := models.Result{
				Title: utils.Str(m["title"]), URL: utils.Str(m["link"]), Snippet: utils.Str(m["snippet"]),
			}
			// "date" is freeform ("Mar 5, 2026", "2 hours ago"); keep what parses.
			if d := utils.Str(m["date"]); d != "" {
				if ts, err := dateparse.ParseAny(d); err == nil {
					res.PublishedDate = ts
				}
			}
			out = append(out, res)
		}
	}
	return out, nil
}
