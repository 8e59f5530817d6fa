package source

import (
	"errors"
	"sync"
	"time"
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
)

// CacheEntry is one cached query result.
type CacheEntry struct {
	// Key is the query key the result was stored under.
	Key string

	// Records is the decoded collection. Treated as immutable once stored.
	Records []Record

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time
}

// Age returns how long ago the entry was stored.
func (e *CacheEntry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// MemoryStore keeps query results in memory until they are deleted.
// Entries never expire on their own; callers invalidate explicitly.
// Thread-safe for concurrent access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*CacheEntry)}
}

// Get retrieves a cache entry by key.
// Returns ErrCacheNotFound if the entry doesn't exist.
func (s *MemoryStore) Get(key string) (*CacheEntry, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrCacheNotFound
	}
	return entry, nil
}

// Set stores records under key, replacing any existing entry.
func (s *MemoryStore) Set(key string, records []Record) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &CacheEntry{
		Key:       key,
		Records:   records,
		CreatedAt: time.Now(),
	}
	return nil
}

// Delete removes a cache entry by key. Idempotent.
func (s *MemoryStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*CacheEntry)
}

// Count returns the number of stored entries.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
