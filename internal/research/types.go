// Package research wires the pipeline together: query expansion, batched
// search, multi-strategy scraping, coverage reconciliation and final
// synthesis.
package research

import (
	"context"
	"time"

	"cryptoscout/internal/expand"
	"cryptoscout/internal/scrape"
)

// OriginOriginal tags the user's own query; synonym queries carry the name
// of the asset they target.
const OriginOriginal = "original"

// SearchQuery is one query headed for the search provider, tagged with its
// origin so the segmentation invariant stays checkable.
type SearchQuery struct {
	Text   string
	Origin string
}

// SearchHit is one deduplicated search result. Identity is the canonical
// URL; PublishedDate zero means the provider gave none.
type SearchHit struct {
	URL           string
	Title         string
	PublishedDate time.Time
	SourceQuery   string
}

// Report is the end state of a pipeline run: either the rejection sentence
// or a synthesized analysis, never silent empty output.
type Report struct {
	Query        string
	Text         string
	Rejected     bool
	Coverage     map[string]int
	Unrecognized []string
	SourceURLs   []string
	Elapsed      time.Duration
}

// ContentScraper is the scraping dependency of the pipeline, satisfied by
// *scrape.Scraper and by fakes in tests.
type ContentScraper interface {
	Scrape(ctx context.Context, url string) (scrape.Content, error)
	ScrapeMany(ctx context.Context, urls []string) []scrape.Content
}

// QueryExpander is the expansion dependency, satisfied by *expand.Expander.
type QueryExpander interface {
	Expand(ctx context.Context, query string) (expand.Expansion, error)
}
