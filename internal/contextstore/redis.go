package contextstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cryptoscout:doc:"

// RedisStore persists documents as JSON values in redis. Relevance here is a
// naive term-overlap score over the stored set; redis has no full-text
// scoring of its own and the collaborator contract only asks for best-effort
// recall.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *RedisStore) Save(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+doc.ID, data, 0).Err()
}

func (s *RedisStore) QueryRelevant(ctx context.Context, text string, k int) ([]Scored, error) {
	if k <= 0 {
		k = 5
	}
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 {
		return nil, nil
	}

	var out []Scored
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		val, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}
		var doc Document
		if err := json.Unmarshal([]byte(val), &doc); err != nil {
			continue
		}
		haystack := strings.ToLower(doc.Title + " " + doc.Text)
		score := 0.0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				score++
			}
		}
		if score > 0 {
			out = append(out, Scored{Doc: doc, Score: score / float64(len(terms))})
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return topK(out, k), nil
}

// topK orders by score descending before truncating; SCAN yields keys in
// arbitrary order, so truncating first would return an arbitrary subset.
func topK(out []Scored, k int) []Scored {
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}
