package assets

import (
	"context"
	"regexp"
)

// patternTable is the static knowledge base: per asset, case-insensitive
// regexes covering the name, ticker and common spelling variants. It is the
// fallback when no market-data catalog is configured.
var patternTable = []struct {
	name     string
	patterns []string
}{
	{"bitcoin", []string{`(?i)\bbitcoin\b`, `(?i)\bbtc\b`, `(?i)\bxbt\b`}},
	{"ethereum", []string{`(?i)\bethereum\b`, `(?i)\beth\b`, `(?i)\bether\b`}},
	{"solana", []string{`(?i)\bsolana\b`, `(?i)\bsol\b`}},
	{"cardano", []string{`(?i)\bcardano\b`, `(?i)\bada\b`}},
	{"dogecoin", []string{`(?i)\bdogecoin\b`, `(?i)\bdoge\b`}},
	{"ripple", []string{`(?i)\bripple\b`, `(?i)\bxrp\b`}},
	{"polkadot", []string{`(?i)\bpolkadot\b`, `(?i)\bdot\b`}},
	{"litecoin", []string{`(?i)\blitecoin\b`, `(?i)\bltc\b`}},
	{"chainlink", []string{`(?i)\bchainlink\b`, `(?i)\blink\b`}},
	{"avalanche", []string{`(?i)\bavalanche\b`, `(?i)\bavax\b`}},
	{"polygon", []string{`(?i)\bpolygon\b`, `(?i)\bmatic\b`}},
	{"tether", []string{`(?i)\btether\b`, `(?i)\busdt\b`}},
	{"binance coin", []string{`(?i)\bbinance coin\b`, `(?i)\bbnb\b`}},
	{"tron", []string{`(?i)\btron\b`, `(?i)\btrx\b`}},
	{"shiba inu", []string{`(?i)\bshiba inu\b`, `(?i)\bshib\b`}},
}

// PatternResolver detects assets with the static table; when nothing in the
// table matches it degrades to tokenizer output, treating each candidate as
// a speculative unknown asset.
type PatternResolver struct{}

func (PatternResolver) Resolve(_ context.Context, query string) (Resolution, error) {
	var res Resolution
	for _, entry := range patternTable {
		compiled := make([]*regexp.Regexp, len(entry.patterns))
		matched := false
		for i, p := range entry.patterns {
			compiled[i] = regexp.MustCompile(p)
			if compiled[i].MatchString(query) {
				matched = true
			}
		}
		if matched {
			res.Tokens = append(res.Tokens, Token{
				Name:     entry.name,
				Patterns: compiled,
				Known:    true,
			})
		}
	}
	if len(res.Tokens) > 0 {
		return res, nil
	}

	for _, tok := range Tokenize(query) {
		res.Tokens = append(res.Tokens, Token{
			Name:     tok,
			Patterns: []*regexp.Regexp{speculativePattern(tok)},
			Known:    false,
		})
	}
	return res, nil
}
