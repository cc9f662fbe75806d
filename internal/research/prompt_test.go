package research

import (
	"strings"
	"testing"

	"cryptoscout/internal/contextstore"
	"cryptoscout/internal/market"
	"cryptoscout/internal/scrape"
)

func TestBuildContextRanksByRelevance(t *testing.T) {
	t.Parallel()
	contents := []scrape.Content{
		{URL: "https://example.com/low", Title: "Low", CleanedText: "short note", Metadata: scrape.Metadata{RelevanceScore: 0.3}},
		{URL: "https://example.com/high", Title: "High", CleanedText: "long analysis", Metadata: scrape.Metadata{RelevanceScore: 0.9}},
	}
	doc := BuildContext("bitcoin outlook", contents, nil, map[string]int{"bitcoin": 2}, nil, nil)

	high := strings.Index(doc, "[S1] High")
	low := strings.Index(doc, "[S2] Low")
	if high < 0 || low < 0 || high > low {
		t.Fatalf("sources must be ranked by relevance descending:\n%s", doc)
	}
	if !strings.Contains(doc, "bitcoin outlook") {
		t.Fatal("context must carry the user question")
	}
	if !strings.Contains(doc, "- bitcoin: 2") {
		t.Fatal("context must list coverage counts")
	}
}

func TestBuildContextOptionalSections(t *testing.T) {
	t.Parallel()
	doc := BuildContext("q", nil, nil, nil, nil, nil)
	if strings.Contains(doc, "MARKET SNAPSHOT") || strings.Contains(doc, "COVERAGE") ||
		strings.Contains(doc, "UNRECOGNIZED") || strings.Contains(doc, "PRIOR CONTEXT") {
		t.Fatalf("empty inputs must omit their sections:\n%s", doc)
	}

	doc = BuildContext("q", nil,
		[]market.Quote{{ID: "bitcoin", CurrentPrice: 60000, PriceChange24h: -1.5}},
		nil, []string{"frobulon"}, nil)
	if !strings.Contains(doc, "MARKET SNAPSHOT") || !strings.Contains(doc, "bitcoin") {
		t.Fatal("quotes must render the market snapshot")
	}
	if !strings.Contains(doc, "- frobulon") {
		t.Fatal("unrecognized tokens must be surfaced")
	}
}

func TestBuildContextPriorDocuments(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 2*priorSnippetChars)
	doc := BuildContext("q", nil, nil, nil, nil, []contextstore.Scored{
		{Doc: contextstore.Document{Title: "Earlier bitcoin note", URL: "https://example.com/prior", Text: long}, Score: 0.8},
	})
	if !strings.Contains(doc, "PRIOR CONTEXT") || !strings.Contains(doc, "Earlier bitcoin note") {
		t.Fatalf("recalled documents must render a prior-context section:\n%s", doc)
	}
	if strings.Contains(doc, long) {
		t.Fatal("prior snippets must be truncated")
	}
}
