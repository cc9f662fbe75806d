package research

import (
	"context"

	"cryptoscout/internal/assets"
	"cryptoscout/internal/scrape"
)

// backfillTemplates are the focused queries tried, in order, for an asset
// with zero coverage.
func backfillTemplates(name, monthYear string) []string {
	return []string{
		name + " cryptocurrency price analysis " + monthYear,
		name + " blockchain token analysis",
		name + " crypto market news",
		name + " coin price prediction",
		name + " token fundamentals overview",
	}
}

// Backfill runs focused search+scrape passes for assets the main pass left
// uncovered. It is deliberately sequential — across assets and across an
// asset's templates — so it can stop fetching the moment one grounded source
// is confirmed. seen is mutated: accepted URLs join the set.
func (p *Pipeline) Backfill(ctx context.Context, missing []assets.Token, seen map[string]struct{}) []scrape.Content {
	var out []scrape.Content
	monthYear := p.now().Format("January 2006")

	for _, token := range missing {
		p.Telemetry.CountBackfill()
		found := false
		for _, query := range backfillTemplates(token.Name, monthYear) {
			if found {
				break
			}
			p.Telemetry.CountSearch()
			hits, err := p.Searcher.Discover(ctx, query, backfillResultCap)
			if err != nil {
				p.Telemetry.CountSearchFailure()
				p.logf("backfill search %q failed: %v", query, err)
				continue
			}
			for _, hit := range hits {
				key := CanonicalKey(hit.URL)
				if _, dup := seen[key]; dup {
					continue
				}
				content, err := p.Scraper.Scrape(ctx, hit.URL)
				if err != nil {
					p.Telemetry.CountScrapeFailure()
					p.logf("backfill scrape %s failed: %v", hit.URL, err)
					continue
				}
				if !token.Matches(content.Title + " " + content.CleanedText) {
					// Scraped fine but does not mention the asset; discard.
					continue
				}
				seen[key] = struct{}{}
				out = append(out, content)
				found = true
				break
			}
		}
		if !found {
			p.logf("backfill found no grounded source for %q", token.Name)
		}
	}
	return out
}
