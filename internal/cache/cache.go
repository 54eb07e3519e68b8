package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a stored analysis is honoured.
	DefaultTTL = time.Hour
	// KeyPrefixRunes bounds how much content contributes to the key.
	KeyPrefixRunes = 1000
)

// Entry is a cached analysis result.
type Entry struct {
	Result    string
	Timestamp time.Time
}

// Stats describes the store for status panels.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Store is an in-memory result cache with lazy expiry.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
	hits    int64
	misses  int64
}

// New creates a Store. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{entries: make(map[string]Entry), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Key derives the cache key for content analysed under category.
// Only the first KeyPrefixRunes characters of content take part.
func Key(content, category string) string {
	prefix := content
	n := 0
	for i := range content {
		if n == KeyPrefixRunes {
			prefix = content[:i]
			break
		}
		n++
	}
	h := sha256.Sum256([]byte(prefix + ":" + category))
	return fmt.Sprintf("%x", h)
}

// Lookup returns the stored result while it is younger than the TTL.
func (s *Store) Lookup(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !s.fresh(e) {
		s.misses++
		return "", false
	}
	s.hits++
	return e.Result, true
}

// Store saves result under key with a fresh timestamp.
func (s *Store) Store(key, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Result: result, Timestamp: s.now()}
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}

// Len counts stored entries, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep deletes expired entries and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, e := range s.entries {
		if !s.fresh(e) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Entries: len(s.entries), Hits: s.hits, Misses: s.misses}
}

func (s *Store) fresh(e Entry) bool {
	return s.now().Sub(e.Timestamp) < s.ttl
}
