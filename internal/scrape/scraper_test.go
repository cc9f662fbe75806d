package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cryptoscout/tools/web_fetch/models"
)

// fakeFetcher returns canned HTML per URL, or an error.
type fakeFetcher struct {
	html map[string]string
	err  error
}

func (f fakeFetcher) Exec(_ context.Context, url string) (models.Result, error) {
	if f.err != nil {
		return models.Result{}, f.err
	}
	return models.Result{URL: url, HTML: f.html[url], Status: 200}, nil
}

func articleHTML(title, body string) string {
	return "<html><head><title>head title</title></head><body><h1>" + title +
		"</h1><nav>menu menu</nav><article>" + body + "</article></body></html>"
}

func TestScrapePicksLongestStrategy(t *testing.T) {
	t.Parallel()
	longBody := strings.Repeat("solana network throughput improved again this quarter. ", 30)
	static := fakeFetcher{html: map[string]string{
		"https://example.com/a": articleHTML("Solana Quarterly", longBody),
	}}
	// Browser strategies fail outright; static ones must still win.
	browser := fakeFetcher{err: errors.New("browser unavailable")}

	s := New(static, browser, nil)
	got, err := s.Scrape(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if !strings.Contains(got.CleanedText, "solana network throughput") {
		t.Fatalf("unexpected content %q", got.CleanedText[:80])
	}
	if got.Title != "Solana Quarterly" {
		t.Fatalf("title got %q, want h1 text", got.Title)
	}
	if !strings.HasPrefix(got.Metadata.ExtractionMethod, "static+") {
		t.Fatalf("winner should be a static strategy, got %q", got.Metadata.ExtractionMethod)
	}
	if got.Metadata.SourceDomain != "example.com" {
		t.Fatalf("source domain got %q", got.Metadata.SourceDomain)
	}
}

func TestScrapeSingleSurvivingStrategy(t *testing.T) {
	t.Parallel()
	// Static fetch returns an empty page; only the browser render has content.
	static := fakeFetcher{html: map[string]string{"https://example.com/js": "<html><body></body></html>"}}
	browser := fakeFetcher{html: map[string]string{
		"https://example.com/js": articleHTML("Rendered", strings.Repeat("client side rendered paragraph. ", 20)),
	}}

	s := New(static, browser, nil)
	got, err := s.Scrape(context.Background(), "https://example.com/js")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if !strings.HasPrefix(got.Metadata.ExtractionMethod, "browser+") {
		t.Fatalf("expected a browser strategy to win, got %q", got.Metadata.ExtractionMethod)
	}
}

func TestScrapeAllStrategiesFail(t *testing.T) {
	t.Parallel()
	static := fakeFetcher{err: errors.New("connection refused")}
	browser := fakeFetcher{err: errors.New("browser crashed")}

	s := New(static, browser, nil)
	_, err := s.Scrape(context.Background(), "https://example.com/dead")
	if !errors.Is(err, ErrAllStrategiesFailed) {
		t.Fatalf("got %v, want ErrAllStrategiesFailed", err)
	}
}

func TestScrapeEmptyContentCountsAsFailure(t *testing.T) {
	t.Parallel()
	empty := fakeFetcher{html: map[string]string{"https://example.com/blank": "<html><body>  </body></html>"}}
	s := New(empty, empty, nil)
	_, err := s.Scrape(context.Background(), "https://example.com/blank")
	if !errors.Is(err, ErrAllStrategiesFailed) {
		t.Fatalf("got %v, want ErrAllStrategiesFailed for empty extractions", err)
	}
}

func TestScrapeTruncationAndRelevanceBounds(t *testing.T) {
	t.Parallel()
	huge := strings.Repeat("word ", 10000)
	static := fakeFetcher{html: map[string]string{
		"https://example.com/huge": articleHTML("Huge", huge),
	}}
	s := New(static, fakeFetcher{err: errors.New("skip")}, nil)

	got, err := s.Scrape(context.Background(), "https://example.com/huge")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if len(got.CleanedText) > MaxCleanedChars {
		t.Fatalf("cleaned text %d chars exceeds cap %d", len(got.CleanedText), MaxCleanedChars)
	}
	if sc := got.Metadata.RelevanceScore; sc < 0.3 || sc > 0.9 {
		t.Fatalf("relevance %v outside [0.3, 0.9]", sc)
	}
	if got.Metadata.WordCount == 0 {
		t.Fatal("word count must reflect the truncated text")
	}
}

func TestScrapeRelevanceFloor(t *testing.T) {
	t.Parallel()
	tiny := strings.Repeat("short content sentence here. ", 8) // >200 chars, few words
	static := fakeFetcher{html: map[string]string{
		"https://example.com/tiny": articleHTML("Tiny", tiny),
	}}
	s := New(static, fakeFetcher{err: errors.New("skip")}, nil)

	got, err := s.Scrape(context.Background(), "https://example.com/tiny")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if got.Metadata.RelevanceScore != 0.3 {
		t.Fatalf("short doc should hit the floor, got %v", got.Metadata.RelevanceScore)
	}
}

func TestScrapeManyDropsFailures(t *testing.T) {
	t.Parallel()
	body := strings.Repeat("bitcoin difficulty adjustment analysis. ", 20)
	static := fakeFetcher{html: map[string]string{
		"https://example.com/ok": articleHTML("OK", body),
		// /missing has no entry: empty HTML, every strategy extracts nothing.
	}}
	s := New(static, fakeFetcher{err: errors.New("down")}, nil)
	s.InterBatchDelay = 0

	got := s.ScrapeMany(context.Background(), []string{"https://example.com/ok", "https://example.com/missing"})
	if len(got) != 1 {
		t.Fatalf("got %d contents, want 1 (failures dropped)", len(got))
	}
	if got[0].URL != "https://example.com/ok" {
		t.Fatalf("unexpected survivor %q", got[0].URL)
	}
}

func TestCleanTextBound(t *testing.T) {
	t.Parallel()
	in := strings.Repeat("a\n\t  b ", 5000)
	out := CleanText(in)
	if len(out) > MaxCleanedChars {
		t.Fatalf("cleaned length %d exceeds %d", len(out), MaxCleanedChars)
	}
	if strings.Contains(out, "\n") || strings.Contains(out, "  ") {
		t.Fatal("whitespace not normalised")
	}
}
