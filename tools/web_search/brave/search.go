package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/araddon/dateparse"

	"cryptoscout/tools/web_search/models"
	"cryptoscout/utils"
)

const defaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

type Search struct {
	ApiKey   string
	Endpoint string // overridable for tests
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://api.search.brave.com/app/documentation/web-search
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	url := fmt.Sprintf("%s?q=%s&count=%d", endpoint, utils.UrlQuery(q), k)
	req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.ApiKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// 429 text is what the batch executor keys its retry classification on.
		return nil, fmt.Errorf("brave search: %s", resp.Status)
	}
	var raw struct {
		Web struct {
			Results []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Snippet string `json:"description"`
				PageAge string `json:"page_age"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.Web.Results {
		if i >= k {
			break
		}
		res := models.Result{Title: r.Title, URL: r.URL, Snippet: r.Snippet}
		if r.PageAge != "" {
			if ts, err := dateparse.ParseAny(r.PageAge); err == nil {
				res.PublishedDate = ts
			}
		}
		out = append(out, res)
	}
	return out, nil
}
