// Package scrape extracts article text from web pages. Four strategies run
// concurrently per URL — {static, browser-rendered} fetch crossed with
// {structural-selector, readability} extraction — and the longest non-empty
// result wins.
package scrape

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"cryptoscout/internal/batch"
	"cryptoscout/internal/helpers"
	"cryptoscout/tools/web_fetch"
	"cryptoscout/utils"
)

const (
	// MaxCleanedChars bounds CleanedText, and with it memory use and the
	// size of the synthesis prompt downstream.
	MaxCleanedChars = 8000

	// A document of ~800 words earns the relevance ceiling; shorter
	// documents score proportionally down to the floor.
	wordsPerFullScore = 800
	relevanceFloor    = 0.3
	relevanceCeiling  = 0.9
)

// ErrAllStrategiesFailed reports that no strategy produced any content for a
// URL. Callers treat it exactly like any other per-item failure.
var ErrAllStrategiesFailed = errors.New("all extraction strategies failed")

// Metadata describes one scraped document.
type Metadata struct {
	RelevanceScore   float64    `json:"relevance_score"`
	WordCount        int        `json:"word_count"`
	SourceDomain     string     `json:"source_domain"`
	ExtractionMethod string     `json:"extraction_method"`
	PublishDate      *time.Time `json:"publish_date,omitempty"`
}

// Content is the immutable product of one successful scrape. A re-scrape
// produces a new instance; nothing updates a Content in place.
type Content struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	RawText     string   `json:"raw_text"`
	CleanedText string   `json:"cleaned_text"`
	Metadata    Metadata `json:"metadata"`
	Tags        []string `json:"tags"`
}

// Scraper runs the multi-strategy extraction. The fetchers are injected so
// tests can substitute canned fetches for the network and the browser.
type Scraper struct {
	Static  web_fetch.WebFetcher
	Browser web_fetch.WebFetcher
	Logger  *log.Logger

	// Fan-out throttling for ScrapeMany. Search is the only call path the
	// upstream design throttled; bounding scraping the same way is the
	// hardening adopted here.
	BatchSize       int
	InterBatchDelay time.Duration
}

func New(static, browser web_fetch.WebFetcher, logger *log.Logger) *Scraper {
	return &Scraper{
		Static:          static,
		Browser:         browser,
		Logger:          logger,
		BatchSize:       4,
		InterBatchDelay: 500 * time.Millisecond,
	}
}

type strategyResult struct {
	method string
	html   string
	text   string
	err    error
}

// Scrape fetches url with every strategy concurrently and returns the
// winning extraction. Selection is longest-character-count among non-empty
// results: a deliberate simplicity-over-precision policy that treats length
// as a noisy proxy for extraction completeness, not content quality.
func (s *Scraper) Scrape(ctx context.Context, url string) (Content, error) {
	strategies := []struct {
		method  string
		fetcher web_fetch.WebFetcher
		extract func(html, pageURL string) (string, error)
	}{
		{"static+selector", s.Static, extractBySelectors},
		{"browser+selector", s.Browser, extractBySelectors},
		{"static+readability", s.Static, extractReadable},
		{"browser+readability", s.Browser, extractReadable},
	}

	results := make([]strategyResult, len(strategies))
	var wg sync.WaitGroup
	for i, st := range strategies {
		wg.Add(1)
		go func(idx int, method string, fetcher web_fetch.WebFetcher, extract func(string, string) (string, error)) {
			defer wg.Done()
			results[idx] = runStrategy(ctx, method, fetcher, extract, url)
		}(i, st.method, st.fetcher, st.extract)
	}
	wg.Wait()

	winner := strategyResult{}
	for _, r := range results {
		if r.err != nil {
			if s.Logger != nil {
				s.Logger.Printf("strategy %s failed for %s: %v", r.method, url, r.err)
			}
			continue
		}
		if len(r.text) > len(winner.text) {
			winner = r
		}
	}
	if winner.text == "" {
		return Content{}, ErrAllStrategiesFailed
	}

	cleaned := CleanText(winner.text)
	words := len(strings.Fields(cleaned))

	return Content{
		URL:         url,
		Title:       extractTitle(winner.html),
		RawText:     winner.text,
		CleanedText: cleaned,
		Metadata: Metadata{
			RelevanceScore:   utils.Clamp(float64(words)/wordsPerFullScore, relevanceFloor, relevanceCeiling),
			WordCount:        words,
			SourceDomain:     helpers.Hostname(url),
			ExtractionMethod: winner.method,
			PublishDate:      extractPublishDate(winner.html, cleaned),
		},
		Tags: []string{"scraped", winner.method},
	}, nil
}

// runStrategy isolates a single fetch+extract attempt; it never panics the
// scrape and reports failure through the result value.
func runStrategy(ctx context.Context, method string, fetcher web_fetch.WebFetcher, extract func(string, string) (string, error), url string) strategyResult {
	res := strategyResult{method: method}
	if fetcher == nil {
		res.err = errors.New("fetcher not configured")
		return res
	}
	fetched, err := fetcher.Exec(ctx, url)
	if err != nil {
		res.err = err
		return res
	}
	text, err := extract(fetched.HTML, url)
	if err != nil {
		res.err = err
		return res
	}
	res.html = fetched.HTML
	res.text = strings.TrimSpace(text)
	return res
}

// ScrapeMany scrapes all URLs through the batch executor and silently drops
// failures; callers compare output length to input length to detect partial
// failure, never assume 1:1.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string) []Content {
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = 4
	}
	results := batch.Run(ctx, s.Logger, urls, batchSize, s.InterBatchDelay, 1, func(ctx context.Context, url string) (Content, error) {
		return s.Scrape(ctx, url)
	})

	out := make([]Content, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// CleanText collapses all whitespace runs to single spaces and truncates to
// MaxCleanedChars on a rune boundary.
func CleanText(raw string) string {
	cleaned := strings.TrimSpace(whitespacePattern.ReplaceAllString(raw, " "))
	if len(cleaned) <= MaxCleanedChars {
		return cleaned
	}
	cut := MaxCleanedChars
	for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
		cut--
	}
	return strings.TrimSpace(cleaned[:cut])
}
