package suggestion

import (
	"context"
	"time"

	"songframe/internal/cache/memory"
)

type MemoryStore struct {
	cache *memory.LRUTTL[string, Record]
}

// NewMemoryStore evicts least recently used records once either maxEntries
// or maxBytes is exceeded. maxBytes <= 0 means no byte budget.
func NewMemoryStore(maxEntries, maxBytes int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: memory.NewLRUTTL[string, Record](maxEntries, maxBytes, ttl)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	rec, ok := s.cache.Get(key)
	return rec, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, rec Record) error {
	s.cache.Set(key, rec, recordSize(key, rec))
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func recordSize(key string, rec Record) int {
	return len(key) + len(rec.Link) + len(rec.Genre)
}
