package analysis

import (
	"strings"
	"sync"
	"time"

	"ai-analyst/internal/cache"
	"ai-analyst/internal/history"
)

// Session owns the state of one interactive user: credential, result
// cache, history and the analysis currently on screen.
type Session struct {
	ID      string
	Cache   *cache.Store
	History *history.Log

	mu       sync.Mutex
	apiKey   string
	category string
	current  *Result
	lastSeen time.Time
}

// Status summarises a session for status panels.
type Status struct {
	CacheEntries int  `json:"cache_entries"`
	HistoryCount int  `json:"history_count"`
	HasAPIKey    bool `json:"has_api_key"`
}

func NewSession(id string, cacheTTL time.Duration, maxHistory int) *Session {
	return &Session{
		ID:       id,
		Cache:    cache.New(cacheTTL),
		History:  history.NewLog(maxHistory),
		lastSeen: time.Now(),
	}
}

func (s *Session) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = strings.TrimSpace(key)
}

func (s *Session) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

func (s *Session) HasAPIKey() bool { return s.APIKey() != "" }

// SetCategory remembers the category picked by the user.
func (s *Session) SetCategory(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = c
}

func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Current returns the analysis on screen, if any.
func (s *Session) Current() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Result{}, false
	}
	return *s.current, true
}

func (s *Session) setCurrent(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &r
}

// Reset clears the analysis on screen so the user can start over.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// ShowHistory makes a stored record the analysis on screen.
func (s *Session) ShowHistory(id string) bool {
	rec, ok := s.History.Get(id)
	if !ok {
		return false
	}
	s.setCurrent(Result{Kind: KindOK, Text: rec.Result, Category: rec.Category})
	return true
}

func (s *Session) DeleteHistory(id string) bool {
	return s.History.Delete(id)
}

func (s *Session) ClearCache() {
	s.Cache.Clear()
}

func (s *Session) Status() Status {
	return Status{
		CacheEntries: s.Cache.Len(),
		HistoryCount: s.History.Len(),
		HasAPIKey:    s.HasAPIKey(),
	}
}

// Touch marks the session as used at t.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = t
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
