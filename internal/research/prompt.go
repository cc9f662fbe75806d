package research

import (
	"fmt"
	"sort"
	"strings"

	"cryptoscout/internal/contextstore"
	"cryptoscout/internal/market"
	"cryptoscout/internal/scrape"
)

const synthesisSystemPrompt = `You are a cryptocurrency research analyst. Write a structured narrative report answering the user's question using ONLY the sources provided in the context document.

RULES:
1. Ground every claim in the provided sources; cite them as [S1], [S2], ...
2. Cover each asset listed under COVERAGE in its own section.
3. If an asset has no covering sources, say so explicitly instead of inventing facts.
4. Mention unrecognized tokens from the context document as possibly misspelled or non-existent assets.
5. Market snapshot numbers are context, not computed signals; do not give trading advice.
6. PRIOR CONTEXT entries are background from earlier research runs; prefer the numbered sources for claims.
7. Respond in Markdown with a short summary first, then per-asset sections, then a sources list.`

// priorSnippetChars bounds how much of a recalled document's text enters
// the context.
const priorSnippetChars = 400

// BuildContext assembles the synthesis context document: ranked sources,
// the market snapshot, recalled prior documents, coverage counts and
// unrecognized tokens.
func BuildContext(query string, contents []scrape.Content, quotes []market.Quote, coverage map[string]int, unrecognized []string, prior []contextstore.Scored) string {
	ranked := make([]scrape.Content, len(contents))
	copy(ranked, contents)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metadata.RelevanceScore > ranked[j].Metadata.RelevanceScore
	})

	var b strings.Builder
	b.WriteString("USER QUESTION:\n")
	b.WriteString(query)
	b.WriteString("\n\n")

	if len(quotes) > 0 {
		b.WriteString("MARKET SNAPSHOT (context only):\n")
		for _, q := range quotes {
			fmt.Fprintf(&b, "- %s: price %.4f USD, 24h change %.2f%%, 24h range %.4f-%.4f, market cap %.0f\n",
				q.ID, q.CurrentPrice, q.PriceChange24h, q.Low24h, q.High24h, q.MarketCap)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "SOURCES (%d, ranked by relevance):\n", len(ranked))
	for i, c := range ranked {
		fmt.Fprintf(&b, "[S%d] %s\n", i+1, c.Title)
		fmt.Fprintf(&b, "URL: %s | domain: %s | relevance: %.2f | words: %d",
			c.URL, c.Metadata.SourceDomain, c.Metadata.RelevanceScore, c.Metadata.WordCount)
		if c.Metadata.PublishDate != nil {
			fmt.Fprintf(&b, " | published: %s", c.Metadata.PublishDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
		b.WriteString(c.CleanedText)
		b.WriteString("\n\n")
	}

	if len(prior) > 0 {
		b.WriteString("PRIOR CONTEXT (stored from earlier runs; secondary grounding):\n")
		for _, s := range prior {
			snippet := s.Doc.Text
			if r := []rune(snippet); len(r) > priorSnippetChars {
				snippet = string(r[:priorSnippetChars])
			}
			fmt.Fprintf(&b, "- %s (%s, score %.2f): %s\n", s.Doc.Title, s.Doc.URL, s.Score, snippet)
		}
		b.WriteString("\n")
	}

	if len(coverage) > 0 {
		b.WriteString("COVERAGE (documents mentioning each asset):\n")
		names := make([]string, 0, len(coverage))
		for name := range coverage {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %d\n", name, coverage[name])
		}
		b.WriteString("\n")
	}

	if len(unrecognized) > 0 {
		b.WriteString("UNRECOGNIZED TOKENS (no catalog entry; possibly fake or misspelled):\n")
		for _, tok := range unrecognized {
			fmt.Fprintf(&b, "- %s\n", tok)
		}
	}

	return b.String()
}
