package jwks

import (
	"context"
	"sync"
	"time"
)

// Entry is a cached key set together with its expiry. Entries are never
// modified after they are handed to a Store.
type Entry struct {
	Set       KeySet    `json:"set"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the entry may still be served at now.
func (e *Entry) Valid(now time.Time) bool {
	return e != nil && now.Before(e.ExpiresAt)
}

// Store holds cache entries keyed by source URL. Get returns (nil, nil) for
// a missing key. Put replaces any existing entry as a single unit.
type Store interface {
	Get(ctx context.Context, url string) (*Entry, error)
	Put(ctx context.Context, url string, e *Entry) error
	Clear(ctx context.Context) error
}

// DefaultMaxEntries bounds the number of source URLs held in memory.
const DefaultMaxEntries = 5

// MemoryStore is a process-local Store. It is the store a warm execution
// context shares across invocations.
type MemoryStore struct {
	mu         sync.RWMutex
	maxEntries int
	entries    map[string]*Entry
}

// NewMemoryStore returns a store holding at most maxEntries URLs. Values <= 0
// select DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{maxEntries: maxEntries, entries: make(map[string]*Entry)}
}

func (s *MemoryStore) Get(_ context.Context, url string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[url], nil
}

func (s *MemoryStore) Put(_ context.Context, url string, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[url]; !ok && len(s.entries) >= s.maxEntries {
		s.evictLocked()
	}
	s.entries[url] = e
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictLocked drops the entry closest to expiry. Caller holds s.mu.
func (s *MemoryStore) evictLocked() {
	var victim string
	var soonest time.Time
	for url, e := range s.entries {
		if victim == "" || e.ExpiresAt.Before(soonest) {
			victim, soonest = url, e.ExpiresAt
		}
	}
	delete(s.entries, victim)
}
