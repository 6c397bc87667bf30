package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type entry struct {
	payload []byte
	expires time.Time
	stored  time.Time
}

// MemoryCache is a concurrency-safe in-memory implementation of weather.Cache.
type MemoryCache struct {
	mu sync.RWMutex

	// key: cache key, value: raw payload with expiry
	data map[string]entry

	// retention configuration
	maxEntries int // max number of entries kept (0 = unlimited)
	now        func() time.Time
}

// NewMemoryCache creates a new MemoryCache.
// If maxEntries is <= 0, it is treated as unlimited.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the payload stored under key if it has not expired.
func (s *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.mu.Lock()
		if cur, still := s.data[key]; still && cur.expires.Equal(e.expires) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out, true, nil
}

// Set stores payload under key and enforces retention. A ttl <= 0 never expires.
func (s *MemoryCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	now := s.now()

	e := entry{
		payload: append([]byte(nil), payload...),
		stored:  now,
	}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = e

	// Enforce retention by age first, then by count (oldest first).
	for k, v := range s.data {
		if !v.expires.IsZero() && !now.Before(v.expires) {
			delete(s.data, k)
		}
	}
	for s.maxEntries > 0 && len(s.data) > s.maxEntries {
		var (
			oldestKey string
			oldest    time.Time
		)
		for k, v := range s.data {
			if oldestKey == "" || v.stored.Before(oldest) {
				oldestKey, oldest = k, v.stored
			}
		}
		delete(s.data, oldestKey)
	}
	return nil
}

// Len returns the number of entries currently held, expired or not.
func (s *MemoryCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ weather.Cache = (*MemoryCache)(nil)
