package assets

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cryptoscout/internal/market"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "filters stopwords and short tokens",
			in:   "What is the Bitcoin price analysis for 2026?",
			want: []string{"bitcoin"},
		},
		{
			name: "dedupes preserving order",
			in:   "solana solana versus Cardano",
			want: []string{"solana", "cardano"},
		},
		{
			name: "drops numerics entirely",
			in:   "top 10 2026",
			want: []string{"top"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q) got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPatternResolverKnownAssets(t *testing.T) {
	t.Parallel()
	res, err := PatternResolver{}.Resolve(context.Background(), "Bitcoin and Ethereum price analysis")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(res.Tokens), res.Tokens)
	}
	names := []string{res.Tokens[0].Name, res.Tokens[1].Name}
	if names[0] != "bitcoin" || names[1] != "ethereum" {
		t.Fatalf("unexpected names %v", names)
	}
	for _, tok := range res.Tokens {
		if !tok.Known {
			t.Fatalf("table match %q must be Known", tok.Name)
		}
	}
}

func TestPatternResolverTickerVariant(t *testing.T) {
	t.Parallel()
	res, _ := PatternResolver{}.Resolve(context.Background(), "is BTC going up")
	if len(res.Tokens) != 1 || res.Tokens[0].Name != "bitcoin" {
		t.Fatalf("ticker should resolve to bitcoin, got %+v", res.Tokens)
	}
}

func TestPatternResolverSpeculativeFallback(t *testing.T) {
	t.Parallel()
	res, _ := PatternResolver{}.Resolve(context.Background(), "frobulon price analysis")
	if len(res.Tokens) != 1 {
		t.Fatalf("got %d tokens, want 1 speculative token", len(res.Tokens))
	}
	tok := res.Tokens[0]
	if tok.Known {
		t.Fatal("speculative token must not be Known")
	}
	if !tok.Matches("the frobulon ledger") {
		t.Fatal("speculative predicate should match bare word")
	}
	if !tok.Matches("trading FROBULONUSDT pairs") {
		t.Fatal("speculative predicate should match exchange pair spelling")
	}
	if tok.Matches("nothing related here") {
		t.Fatal("speculative predicate should not match unrelated text")
	}
}

type fakeMarket struct {
	assets []market.Asset
	err    error
	calls  int
}

func (f *fakeMarket) ListAssets(context.Context) ([]market.Asset, error) {
	f.calls++
	return f.assets, f.err
}

func (f *fakeMarket) GetQuotes(context.Context, []string) ([]market.Quote, error) {
	return nil, nil
}

var testCatalog = []market.Asset{
	{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
	{ID: "bitcoin-cash", Symbol: "bch", Name: "Bitcoin Cash"},
	{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	{ID: "dogwifhat", Symbol: "wif", Name: "dogwifhat"},
}

func TestCatalogResolverExactAndPartial(t *testing.T) {
	t.Parallel()
	r := CatalogResolver{Catalog: NewCatalog(&fakeMarket{assets: testCatalog})}

	res, err := r.Resolve(context.Background(), "bitcoin versus ETH outlook")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(res.Tokens), res.Tokens)
	}
	if res.Tokens[0].CanonicalID != "bitcoin" {
		t.Fatalf("exact name match must win over partial, got %q", res.Tokens[0].CanonicalID)
	}
	if res.Tokens[1].CanonicalID != "ethereum" || res.Tokens[1].Symbol != "ETH" {
		t.Fatalf("symbol match failed: %+v", res.Tokens[1])
	}
	if len(res.Unrecognized) != 1 || res.Unrecognized[0] != "outlook" {
		t.Fatalf("expected outlook unrecognized, got %v", res.Unrecognized)
	}
}

func TestCatalogResolverReportsFakes(t *testing.T) {
	t.Parallel()
	r := CatalogResolver{Catalog: NewCatalog(&fakeMarket{assets: testCatalog})}
	res, err := r.Resolve(context.Background(), "moonscamcoin going up")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Tokens) != 0 {
		t.Fatalf("expected no real tokens, got %+v", res.Tokens)
	}
	if len(res.Unrecognized) == 0 {
		t.Fatal("fake token must be surfaced as unrecognized")
	}
}

func TestCatalogFetchedOncePerRun(t *testing.T) {
	t.Parallel()
	fm := &fakeMarket{assets: testCatalog}
	r := CatalogResolver{Catalog: NewCatalog(fm)}
	ctx := context.Background()
	if _, err := r.Resolve(ctx, "bitcoin"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(ctx, "ethereum"); err != nil {
		t.Fatal(err)
	}
	if fm.calls != 1 {
		t.Fatalf("catalog fetched %d times, want 1", fm.calls)
	}
}

func TestCatalogResolverPropagatesFetchFailure(t *testing.T) {
	t.Parallel()
	r := CatalogResolver{Catalog: NewCatalog(&fakeMarket{err: errors.New("network down")})}
	if _, err := r.Resolve(context.Background(), "bitcoin"); err == nil {
		t.Fatal("catalog failure must surface as an error")
	}
}

func TestCoverage(t *testing.T) {
	t.Parallel()
	res, _ := PatternResolver{}.Resolve(context.Background(), "bitcoin and ethereum")
	docs := []string{
		"Bitcoin climbed above resistance on Tuesday",
		"BTC miners expand capacity",
		"Completely unrelated gardening article",
	}
	cov := Coverage(res.Tokens, docs)
	if cov["bitcoin"] != 2 {
		t.Fatalf("bitcoin coverage got %d, want 2", cov["bitcoin"])
	}
	if cov["ethereum"] != 0 {
		t.Fatalf("ethereum coverage got %d, want 0", cov["ethereum"])
	}

	missing := Missing(res.Tokens, cov)
	if len(missing) != 1 || missing[0].Name != "ethereum" {
		t.Fatalf("Missing() got %+v, want just ethereum", missing)
	}
}

func TestCatalogTokenMatchesSymbolWordBounded(t *testing.T) {
	t.Parallel()
	tok := Token{Name: "Ethereum", Symbol: "ETH", CanonicalID: "ethereum", Known: true}
	if !tok.Matches("ETH gas fees dropped this week") {
		t.Fatal("symbol as a word should match")
	}
	if tok.Matches("they worked together on the plan") {
		t.Fatal("symbol inside another word must not match")
	}
}
