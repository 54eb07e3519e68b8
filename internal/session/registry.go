package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/config"
)

// Registry maps session IDs to their state. Sessions live in memory only.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*analysis.Session
	cacheTTL   time.Duration
	maxHistory int
	idle       time.Duration
	defaultKey string
	now        func() time.Time
}

type Options struct {
	CacheTTL   time.Duration
	MaxHistory int
	// IdleTimeout of zero keeps sessions forever.
	IdleTimeout time.Duration
	// DefaultAPIKey seeds the credential of new sessions.
	DefaultAPIKey string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CacheTTL:      cfg.CacheTTL,
		MaxHistory:    cfg.MaxHistory,
		IdleTimeout:   cfg.SessionIdleTimeout,
		DefaultAPIKey: cfg.OpenAIAPIKey,
	}
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		sessions:   make(map[string]*analysis.Session),
		cacheTTL:   opts.CacheTTL,
		maxHistory: opts.MaxHistory,
		idle:       opts.IdleTimeout,
		defaultKey: opts.DefaultAPIKey,
		now:        time.Now,
	}
}

func (r *Registry) Get(id string) (*analysis.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating it when missing.
// An empty id gets a freshly generated one.
func (r *Registry) GetOrCreate(id string) *analysis.Session {
	if id != "" {
		if s, ok := r.Get(id); ok {
			s.Touch(r.now())
			return s
		}
	} else {
		id = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := analysis.NewSession(id, r.cacheTTL, r.maxHistory)
	s.Touch(r.now())
	if r.defaultKey != "" {
		s.SetAPIKey(r.defaultKey)
	}
	r.sessions[id] = s
	return s
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepIdle drops sessions not used within the idle timeout.
func (r *Registry) SweepIdle() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// SweepCaches evicts expired cache entries in every session.
func (r *Registry) SweepCaches() int {
	r.mu.RLock()
	list := make([]*analysis.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()
	removed := 0
	for _, s := range list {
		removed += s.Cache.Sweep()
	}
	return removed
}
