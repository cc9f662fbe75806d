package research

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"cryptoscout/internal/assets"
	"cryptoscout/internal/contextstore"
	"cryptoscout/internal/expand"
	"cryptoscout/internal/market"
	"cryptoscout/internal/scrape"
	"cryptoscout/internal/telemetry"
	"cryptoscout/provider"
	"cryptoscout/tools/web_search"
)

// Pipeline holds the collaborators for one research run. All data produced
// during Run is local to that run; a Pipeline itself is safe to reuse.
type Pipeline struct {
	LLM      provider.Provider
	Searcher web_search.WebSearcher
	Scraper  ContentScraper
	Expander QueryExpander
	Resolver assets.Resolver

	// Optional collaborators; nil degrades gracefully.
	Market market.Client
	Store  contextstore.Store

	Telemetry *telemetry.Telemetry
	Logger    *log.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// Run executes the full pipeline for one question. The outcome is always
// one of: the rejection sentence (Report.Rejected), a synthesized report, or
// an error for a genuinely fatal setup problem.
func (p *Pipeline) Run(ctx context.Context, query string) (Report, error) {
	start := p.now()

	// 1. Expansion. Rejection is an expected outcome, not an error.
	p.Telemetry.CountLLMRequest()
	expansion, err := p.Expander.Expand(ctx, query)
	if err != nil {
		return Report{}, fmt.Errorf("query expansion: %w", err)
	}
	if expansion.Rejected {
		p.logf("query rejected as non-crypto: %q", query)
		return Report{Query: query, Text: expand.RejectionSentence, Rejected: true, Elapsed: time.Since(start)}, nil
	}

	// 2. Asset resolution. A configured catalog that cannot be fetched is
	// the one fatal setup error of the run.
	resolution, err := p.Resolver.Resolve(ctx, query)
	if err != nil {
		return Report{}, err
	}
	if len(resolution.Unrecognized) > 0 {
		p.logf("unrecognized tokens: %v", resolution.Unrecognized)
	}

	// 3. Batched search over the original plus synonym queries.
	queries := p.tagQueries(query, expansion.Synonyms, resolution.Tokens)
	orchestrator := &Orchestrator{Searcher: p.Searcher, Logger: p.Logger, Telemetry: p.Telemetry}
	hits := orchestrator.Search(ctx, queries)
	p.logf("search produced %d urls from %d queries", len(hits), len(queries))

	// 4. Scrape the candidate set.
	urls := make([]string, 0, len(hits))
	seen := map[string]struct{}{}
	for _, h := range hits {
		urls = append(urls, h.URL)
		seen[CanonicalKey(h.URL)] = struct{}{}
	}
	contents := p.Scraper.ScrapeMany(ctx, urls)
	if n := len(urls) - len(contents); n > 0 {
		p.logf("%d of %d urls failed to scrape", n, len(urls))
		for i := 0; i < n; i++ {
			p.Telemetry.CountScrapeFailure()
		}
	}
	for range contents {
		p.Telemetry.CountScrape()
	}

	// 5. Coverage, then a backfill pass for assets with none.
	coverage := coverageOf(resolution.Tokens, contents)
	if missing := assets.Missing(resolution.Tokens, coverage); len(missing) > 0 {
		p.logf("backfilling %d uncovered assets", len(missing))
		contents = append(contents, p.Backfill(ctx, missing, seen)...)
		coverage = coverageOf(resolution.Tokens, contents)
	}

	// 6. Recall prior runs' documents for secondary grounding, then persist
	// this run's. Both are best-effort; the store is optional by contract.
	prior := p.recallPrior(ctx, query, seen)
	p.persist(ctx, contents)

	// 7. Decorative market snapshot for catalog-resolved assets.
	quotes := p.fetchQuotes(ctx, resolution.Tokens)

	// 8. Synthesis.
	doc := BuildContext(query, contents, quotes, coverage, resolution.Unrecognized, prior)
	p.Telemetry.CountLLMRequest()
	text, err := p.LLM.Generate(ctx, synthesisSystemPrompt, doc)
	if err != nil {
		return Report{}, fmt.Errorf("report synthesis: %w", err)
	}

	sourceURLs := make([]string, 0, len(contents))
	for _, c := range contents {
		sourceURLs = append(sourceURLs, c.URL)
	}
	return Report{
		Query:        query,
		Text:         text,
		Coverage:     coverage,
		Unrecognized: resolution.Unrecognized,
		SourceURLs:   sourceURLs,
		Elapsed:      time.Since(start),
	}, nil
}

// tagQueries attaches origins: the user's query is "original"; each synonym
// is tagged with the single asset whose predicate it matches. A synonym
// matching two or more asset predicates violates the one-asset-per-query
// contract and is dropped.
func (p *Pipeline) tagQueries(original string, synonyms []string, tokens []assets.Token) []SearchQuery {
	out := make([]SearchQuery, 0, len(synonyms)+1)
	out = append(out, SearchQuery{Text: original, Origin: OriginOriginal})
	for _, s := range synonyms {
		origin := OriginOriginal
		matched := 0
		for _, t := range tokens {
			if t.Matches(s) {
				matched++
				if matched == 1 {
					origin = t.Name
				}
			}
		}
		if matched > 1 {
			p.logf("dropping synonym naming %d assets: %q", matched, s)
			continue
		}
		out = append(out, SearchQuery{Text: s, Origin: origin})
	}
	return out
}

func coverageOf(tokens []assets.Token, contents []scrape.Content) map[string]int {
	docs := make([]string, 0, len(contents))
	for _, c := range contents {
		docs = append(docs, c.Title+" "+c.CleanedText)
	}
	return assets.Coverage(tokens, docs)
}

// priorContextDocs caps how many stored documents join the synthesis
// context as secondary grounding.
const priorContextDocs = 3

// recallPrior queries the context store for documents from earlier runs
// relevant to the question, excluding anything already scraped this run.
func (p *Pipeline) recallPrior(ctx context.Context, query string, seen map[string]struct{}) []contextstore.Scored {
	if p.Store == nil {
		return nil
	}
	scored, err := p.Store.QueryRelevant(ctx, query, priorContextDocs)
	if err != nil {
		p.logf("context store query failed: %v", err)
		return nil
	}
	var out []contextstore.Scored
	for _, s := range scored {
		if _, dup := seen[CanonicalKey(s.Doc.URL)]; dup {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (p *Pipeline) persist(ctx context.Context, contents []scrape.Content) {
	if p.Store == nil {
		return
	}
	for _, c := range contents {
		err := p.Store.Save(ctx, contextstore.Document{
			ID:        uuid.NewString(),
			URL:       c.URL,
			Title:     c.Title,
			Text:      c.CleanedText,
			Tags:      c.Tags,
			CreatedAt: p.now(),
		})
		if err != nil {
			// Optional collaborator: tolerate, never abort.
			p.logf("context store save failed for %s: %v", c.URL, err)
		}
	}
}

func (p *Pipeline) fetchQuotes(ctx context.Context, tokens []assets.Token) []market.Quote {
	if p.Market == nil {
		return nil
	}
	var ids []string
	for _, t := range tokens {
		if t.CanonicalID != "" {
			ids = append(ids, t.CanonicalID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	quotes, err := p.Market.GetQuotes(ctx, ids)
	if err != nil {
		p.logf("quote fetch failed (continuing without snapshot): %v", err)
		return nil
	}
	return quotes
}
