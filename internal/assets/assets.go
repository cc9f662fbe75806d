// Package assets detects cryptocurrency assets in free text and checks which
// of them the scraped content actually covers. Two interchangeable resolvers
// exist: a static pattern table (no external dependency) and a catalog-backed
// resolver grounded in a market-data provider.
package assets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Token is one detected asset. Catalog-resolved tokens carry CanonicalID and
// Symbol; pattern-table tokens carry regexes; speculative tokens from the
// tokenizer fallback carry an auto-built regex and Known=false.
type Token struct {
	Name        string
	Symbol      string
	CanonicalID string
	Patterns    []*regexp.Regexp
	Known       bool
}

// Matches tests the asset's detection predicate against text: any regex for
// pattern tokens, otherwise a case-insensitive substring test on the name
// plus a word-bounded test on the symbol.
func (t Token) Matches(text string) bool {
	for _, p := range t.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	if len(t.Patterns) > 0 {
		return false
	}
	lower := strings.ToLower(text)
	if t.Name != "" && strings.Contains(lower, strings.ToLower(t.Name)) {
		return true
	}
	if t.Symbol != "" {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t.Symbol) + `\b`)
		return re.MatchString(text)
	}
	return false
}

// Resolution separates real assets from tokens that resolved to nothing.
// Unrecognized tokens must be surfaced to the user, never silently dropped.
type Resolution struct {
	Tokens       []Token
	Unrecognized []string
}

type Resolver interface {
	Resolve(ctx context.Context, query string) (Resolution, error)
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "what": {}, "whats": {},
	"how": {}, "why": {}, "is": {}, "are": {}, "was": {}, "were": {}, "will": {},
	"of": {}, "in": {}, "on": {}, "to": {}, "a": {}, "an": {}, "about": {},
	"price": {}, "prices": {}, "analysis": {}, "market": {}, "crypto": {},
	"cryptocurrency": {}, "coin": {}, "coins": {}, "token": {}, "tokens": {},
	"news": {}, "trend": {}, "trends": {}, "today": {}, "latest": {},
	"should": {}, "buy": {}, "sell": {}, "vs": {}, "versus": {}, "compare": {},
	"between": {}, "this": {}, "that": {}, "year": {}, "week": {}, "month": {},
}

var wordPattern = regexp.MustCompile(`[A-Za-z]+`)

// Tokenize extracts candidate asset tokens: lowercase alphabetic words of
// length 2-20 minus the stopword list, deduplicated in order of appearance.
func Tokenize(query string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, w := range wordPattern.FindAllString(query, -1) {
		w = strings.ToLower(w)
		if len(w) < 2 || len(w) > 20 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// speculativePattern builds the heuristic predicate used for tokens that no
// table or catalog recognises: the bare word, exchange-pair spellings, or the
// word near "crypto".
func speculativePattern(token string) *regexp.Regexp {
	q := regexp.QuoteMeta(strings.ToLower(token))
	return regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\b|%susdt|%susd|%s.*crypto`, q, q, q, q))
}

// Coverage counts, per token, how many documents match the token's
// predicate. It is a full O(assets x documents) sweep by design; callers
// recompute it whenever the document set changes size rather than updating
// it incrementally.
func Coverage(tokens []Token, docs []string) map[string]int {
	out := make(map[string]int, len(tokens))
	for _, t := range tokens {
		n := 0
		for _, d := range docs {
			if t.Matches(d) {
				n++
			}
		}
		out[t.Name] = n
	}
	return out
}

// Missing returns the tokens with zero coverage, preserving order.
func Missing(tokens []Token, coverage map[string]int) []Token {
	var out []Token
	for _, t := range tokens {
		if coverage[t.Name] == 0 {
			out = append(out, t)
		}
	}
	return out
}
