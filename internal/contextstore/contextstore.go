// Package contextstore is the optional persistence collaborator. The
// pipeline calls it best-effort: any failure or absence must be tolerated
// silently, so a no-op implementation is always a valid configuration.
package contextstore

import (
	"context"
	"time"
)

// Document is one stored research artifact.
type Document struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Scored pairs a document with a relevance score from the backing index.
type Scored struct {
	Doc   Document
	Score float64
}

type Store interface {
	Save(ctx context.Context, doc Document) error
	QueryRelevant(ctx context.Context, text string, k int) ([]Scored, error)
}

type StoreType string

const (
	NoopStoreType     StoreType = "noop"
	InMemoryStoreType StoreType = "inmemory"
	RedisStoreType    StoreType = "redis"
)

// NewStore builds the configured store, defaulting to the no-op one for
// unknown or empty types so a missing collaborator never aborts a run.
func NewStore(storeType StoreType, redisAddr, redisPassword string, redisDB int) Store {
	switch storeType {
	case InMemoryStoreType:
		if s, err := NewInMemoryStore(); err == nil {
			return s
		}
		return Noop{}
	case RedisStoreType:
		return NewRedisStore(redisAddr, redisPassword, redisDB)
	default:
		return Noop{}
	}
}

// Noop silently accepts writes and answers every query with nothing.
type Noop struct{}

func (Noop) Save(context.Context, Document) error { return nil }

func (Noop) QueryRelevant(context.Context, string, int) ([]Scored, error) { return nil, nil }
