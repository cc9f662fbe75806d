package assets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cryptoscout/internal/market"
)

// Catalog is an explicit, lazily-populated cache over the market-data
// catalog. One instance is injected per pipeline run so the full asset list
// is downloaded at most once per run; a fetch error is not cached, the next
// call retries.
type Catalog struct {
	client market.Client

	mu     sync.Mutex
	loaded bool
	assets []market.Asset
}

func NewCatalog(client market.Client) *Catalog {
	return &Catalog{client: client}
}

func (c *Catalog) Assets(ctx context.Context) ([]market.Asset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.assets, nil
	}
	assets, err := c.client.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	c.assets = assets
	c.loaded = true
	return c.assets, nil
}

// CatalogResolver resolves query tokens against the ground-truth catalog.
// Resolution order per candidate token: first exact case-insensitive match
// on symbol or name, else first substring match of the candidate inside a
// catalog name ("bitcoin" also matching "Bitcoin Cash" is accepted — first
// match wins). Duplicates collapse on canonical id. Candidates that resolve
// to nothing are reported as unrecognized.
type CatalogResolver struct {
	Catalog *Catalog
}

func (r CatalogResolver) Resolve(ctx context.Context, query string) (Resolution, error) {
	catalog, err := r.Catalog.Assets(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("asset catalog unavailable: %w", err)
	}

	var res Resolution
	seen := map[string]struct{}{}
	for _, tok := range Tokenize(query) {
		asset, ok := resolveOne(catalog, tok)
		if !ok {
			res.Unrecognized = append(res.Unrecognized, tok)
			continue
		}
		if _, dup := seen[asset.ID]; dup {
			continue
		}
		seen[asset.ID] = struct{}{}
		res.Tokens = append(res.Tokens, Token{
			Name:        asset.Name,
			Symbol:      strings.ToUpper(asset.Symbol),
			CanonicalID: asset.ID,
			Known:       true,
		})
	}
	return res, nil
}

func resolveOne(catalog []market.Asset, token string) (market.Asset, bool) {
	for _, a := range catalog {
		if strings.EqualFold(a.Symbol, token) || strings.EqualFold(a.Name, token) {
			return a, true
		}
	}
	for _, a := range catalog {
		if strings.Contains(strings.ToLower(a.Name), token) {
			return a, true
		}
	}
	return market.Asset{}, false
}
