package contextstore

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryStoreSaveAndQuery(t *testing.T) {
	t.Parallel()
	s, err := NewInMemoryStore()
	if err != nil {
		t.Fatalf("NewInMemoryStore() error = %v", err)
	}
	ctx := context.Background()

	docs := []Document{
		{URL: "https://example.com/btc", Title: "Bitcoin mining economics", Text: "hashrate difficulty and miner revenue", CreatedAt: time.Now()},
		{URL: "https://example.com/sol", Title: "Solana validators", Text: "stake distribution across validators", CreatedAt: time.Now()},
	}
	for _, d := range docs {
		if err := s.Save(ctx, d); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := s.QueryRelevant(ctx, "bitcoin miner revenue", 5)
	if err != nil {
		t.Fatalf("QueryRelevant() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one hit")
	}
	if got[0].Doc.URL != "https://example.com/btc" {
		t.Fatalf("top hit got %q, want the bitcoin doc", got[0].Doc.URL)
	}
	if got[0].Score <= 0 {
		t.Fatalf("score should be positive, got %v", got[0].Score)
	}
}

func TestNewStoreDefaultsToNoop(t *testing.T) {
	t.Parallel()
	s := NewStore("", "", "", 0)
	if err := s.Save(context.Background(), Document{Title: "x"}); err != nil {
		t.Fatalf("noop Save must never fail, got %v", err)
	}
	got, err := s.QueryRelevant(context.Background(), "anything", 3)
	if err != nil || got != nil {
		t.Fatalf("noop query must be empty and error-free, got %v, %v", got, err)
	}
}
