package research

import (
	"context"
	"log"
	"sort"
	"time"

	"cryptoscout/internal/batch"
	"cryptoscout/internal/helpers"
	"cryptoscout/internal/telemetry"
	"cryptoscout/tools/web_search"
)

const (
	// Per-query and merged result caps keep the scrape fan-out small.
	perQueryResults  = 3
	maxMergedResults = 15

	// Hardcoded courtesy limits for the search provider: bursts of 5,
	// one second apart. Not tunable per call.
	searchBatchSize   = 5
	searchBatchDelay  = time.Second
	searchMaxRetries  = 3
	backfillResultCap = 2
)

// dateFloor is where hits without a parseable publish date sort: as if
// published in 1900, i.e. last after the descending date sort.
var dateFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Orchestrator fans queries out to the search provider through the batch
// executor and merges the hits.
type Orchestrator struct {
	Searcher  web_search.WebSearcher
	Logger    *log.Logger
	Telemetry *telemetry.Telemetry
}

// Search issues every query, tolerating individual failures: a query that
// fails (even after rate-limit retries) contributes an empty result list,
// never an error for the whole search.
func (o *Orchestrator) Search(ctx context.Context, queries []SearchQuery) []SearchHit {
	perQuery := batch.Run(ctx, o.Logger, queries, searchBatchSize, searchBatchDelay, searchMaxRetries,
		func(ctx context.Context, q SearchQuery) ([]SearchHit, error) {
			o.Telemetry.CountSearch()
			results, err := o.Searcher.Discover(ctx, q.Text, perQueryResults)
			if err != nil {
				o.Telemetry.CountSearchFailure()
				return nil, err
			}
			hits := make([]SearchHit, 0, len(results))
			for _, r := range results {
				hits = append(hits, SearchHit{
					URL:           r.URL,
					Title:         r.Title,
					PublishedDate: r.PublishedDate,
					SourceQuery:   q.Text,
				})
			}
			return hits, nil
		})

	var flat []SearchHit
	for _, hits := range perQuery {
		if hits != nil {
			flat = append(flat, *hits...)
		}
	}
	return MergeHits(flat)
}

// MergeHits deduplicates by canonical URL (first occurrence wins), truncates
// to the overall cap, then sorts by publish date descending with undated
// hits last. The operation is idempotent.
func MergeHits(hits []SearchHit) []SearchHit {
	seen := map[string]struct{}{}
	merged := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		key := CanonicalKey(h.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, h)
	}

	if len(merged) > maxMergedResults {
		merged = merged[:maxMergedResults]
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return effectiveDate(merged[i]).After(effectiveDate(merged[j]))
	})
	return merged
}

func effectiveDate(h SearchHit) time.Time {
	if h.PublishedDate.IsZero() {
		return dateFloor
	}
	return h.PublishedDate
}

// CanonicalKey is the dedup identity for a URL, falling back to the raw
// string when it cannot be parsed.
func CanonicalKey(raw string) string {
	if canonical, err := helpers.CanonicalURL(raw); err == nil {
		return canonical
	}
	return raw
}
