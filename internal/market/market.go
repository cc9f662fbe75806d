// Package market is the optional market-data collaborator: a ground-truth
// asset catalog plus decorative price context. When it is not configured the
// asset detector degrades to its pattern table instead of failing.
package market

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Asset is one canonical catalog entry.
type Asset struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Quote is a point-in-time price snapshot for one asset.
type Quote struct {
	ID             string  `json:"id"`
	CurrentPrice   float64 `json:"current_price"`
	MarketCap      float64 `json:"market_cap"`
	PriceChange24h float64 `json:"price_change_percentage_24h"`
	High24h        float64 `json:"high_24h"`
	Low24h         float64 `json:"low_24h"`
}

type Client interface {
	ListAssets(ctx context.Context) ([]Asset, error)
	GetQuotes(ctx context.Context, ids []string) ([]Quote, error)
}

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko implements Client against the CoinGecko public API.
type CoinGecko struct {
	baseURL string
	apiKey  string
	http    *httpClient
}

func NewCoinGecko(baseURL, apiKey string, timeout time.Duration) *CoinGecko {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &CoinGecko{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    newHTTPClient(timeout, 2, 500*time.Millisecond),
	}
}

func (c *CoinGecko) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		h["x-cg-demo-api-key"] = c.apiKey
	}
	return h
}

// ListAssets downloads the full coin catalog: ~15k entries of {id, symbol,
// name}. Callers are expected to cache the result for the run.
func (c *CoinGecko) ListAssets(ctx context.Context) ([]Asset, error) {
	var out []Asset
	if err := c.http.getJSON(ctx, c.baseURL+"/coins/list", c.headers(), &out); err != nil {
		return nil, fmt.Errorf("coingecko list assets: %w", err)
	}
	return out, nil
}

func (c *CoinGecko) GetQuotes(ctx context.Context, ids []string) ([]Quote, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s", c.baseURL, strings.Join(ids, ","))
	var out []Quote
	if err := c.http.getJSON(ctx, url, c.headers(), &out); err != nil {
		return nil, fmt.Errorf("coingecko quotes: %w", err)
	}
	return out, nil
}
