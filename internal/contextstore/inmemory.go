package contextstore

import (
	"context"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/google/uuid"
)

// InMemoryStore keeps documents in a bleve memory-only full-text index for
// the lifetime of the process.
type InMemoryStore struct {
	index bleve.Index

	mu   sync.RWMutex
	meta map[string]Document
}

func NewInMemoryStore() (*InMemoryStore, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &InMemoryStore{index: index, meta: make(map[string]Document)}, nil
}

func (s *InMemoryStore) Save(_ context.Context, doc Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.meta[doc.ID] = doc
	s.mu.Unlock()
	return s.index.Index(doc.ID, doc)
}

func (s *InMemoryStore) QueryRelevant(_ context.Context, text string, k int) ([]Scored, error) {
	if k <= 0 {
		k = 5
	}
	query := bleve.NewMatchQuery(text)
	req := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Scored, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, ok := s.meta[hit.ID]
		if !ok {
			continue
		}
		out = append(out, Scored{Doc: doc, Score: hit.Score})
	}
	return out, nil
}
