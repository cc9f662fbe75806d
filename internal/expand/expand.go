// Package expand turns one user question into a small set of
// asset-segmented search queries via the generation collaborator, with a
// deterministic fallback so expansion can never stall the pipeline.
package expand

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strconv"
	"strings"

	"cryptoscout/internal/helpers"
	"cryptoscout/provider"
)

// RejectionSentence is the fixed sentinel the model must return verbatim for
// questions that are not about cryptocurrency. The pipeline short-circuits
// on it and surfaces it to the user instead of searching.
const RejectionSentence = "I can only research cryptocurrency-related questions."

const systemPrompt = `You are a cryptocurrency search query generator.

RULES:
1. First decide whether the user's question is about cryptocurrency (coins, tokens, blockchains, crypto markets). If it is NOT, respond with exactly this sentence and nothing else:
` + RejectionSentence + `
2. If it is, identify every distinct cryptocurrency asset named in the question.
3. Produce 2-3 focused search queries per asset. Each query must name exactly one asset. Never combine two assets in one query.
4. Respond ONLY with a flat JSON object whose keys are numbers as strings and whose values are the query strings, for example:
{"1": "bitcoin price analysis this week", "2": "bitcoin mining difficulty news"}
Do not include any other text or explanation.`

// Expansion is the result of expanding one user query.
type Expansion struct {
	Original string
	Synonyms []string
	Rejected bool
}

type Expander struct {
	LLM    provider.Provider
	Logger *log.Logger
}

// Expand asks the model for segmented synonym queries. Every failure mode —
// transport error, malformed output, empty output — degrades to the fixed
// suffix variants; only an explicit rejection stops the pipeline.
func (e *Expander) Expand(ctx context.Context, query string) (Expansion, error) {
	out, err := e.LLM.Generate(ctx, systemPrompt, "USER QUESTION: "+query)
	if err != nil {
		if e.Logger != nil {
			e.Logger.Printf("expansion call failed, using fallback synonyms: %v", err)
		}
		return Expansion{Original: query, Synonyms: FallbackSynonyms(query)}, nil
	}

	if strings.Contains(out, RejectionSentence) {
		return Expansion{Original: query, Rejected: true}, nil
	}

	synonyms := parseNumberedQueries(out, query)
	if len(synonyms) == 0 {
		if e.Logger != nil {
			e.Logger.Printf("expansion output unparseable, using fallback synonyms")
		}
		synonyms = FallbackSynonyms(query)
	}
	return Expansion{Original: query, Synonyms: synonyms}, nil
}

// parseNumberedQueries defensively extracts the numbered-JSON contract:
// first balanced JSON substring, values iterated in numeric key order,
// keeping non-empty strings that differ from the original query.
func parseNumberedQueries(out, original string) []string {
	jsonStr, err := helpers.ExtractJSON(out)
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr != nil || berr != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	seen := map[string]struct{}{}
	var out2 []string
	for _, k := range keys {
		s, ok := raw[k].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, original) {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out2 = append(out2, s)
	}
	return out2
}

// FallbackSynonyms is the deterministic expansion used when the model's
// output cannot be parsed.
func FallbackSynonyms(query string) []string {
	return []string{
		query + " analysis",
		query + " trends",
		query + " news",
	}
}
