package cache

import (
	"context"
	"time"

	ttlcache "github.com/smallbiznis/taxengine/internal/cache"
)

type MemoryStore struct {
	entries ttlcache.Cache[string, *Entry]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: ttlcache.NewTTLCache[string, *Entry]()}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	entry, ok := s.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return entry.Clone(), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, entry *Entry, ttl time.Duration) error {
	s.entries.Set(key, entry.Clone(), ttl)
	return nil
}

func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
