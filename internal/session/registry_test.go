package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry(Options{CacheTTL: time.Hour, MaxHistory: 10, DefaultAPIKey: "sk-env"})

	a := r.GetOrCreate("")
	require.NotEmpty(t, a.ID)
	assert.Equal(t, "sk-env", a.APIKey())

	again := r.GetOrCreate(a.ID)
	assert.Same(t, a, again)

	b := r.GetOrCreate("chat-42")
	assert.Equal(t, "chat-42", b.ID)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())

	_, ok := r.Get("unknown")
	assert.False(t, ok)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := NewRegistry(Options{CacheTTL: time.Hour, MaxHistory: 10})
	a := r.GetOrCreate("a")
	b := r.GetOrCreate("b")
	a.Cache.Store("k", "v")
	a.History.Add("p", "c", "r")
	assert.Equal(t, 0, b.Cache.Len())
	assert.Equal(t, 0, b.History.Len())
	assert.False(t, b.HasAPIKey())
}

func TestRegistry_SweepIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(Options{CacheTTL: time.Hour, MaxHistory: 10, IdleTimeout: time.Hour})
	r.now = func() time.Time { return now }

	r.GetOrCreate("old")
	now = now.Add(90 * time.Minute)
	r.GetOrCreate("fresh")

	assert.Equal(t, 1, r.SweepIdle())
	_, ok := r.Get("old")
	assert.False(t, ok)
	_, ok = r.Get("fresh")
	assert.True(t, ok)
}

func TestRegistry_SweepCaches(t *testing.T) {
	r := NewRegistry(Options{CacheTTL: time.Hour, MaxHistory: 10})
	s := r.GetOrCreate("a")
	base := time.Now()
	clock := base
	s.Cache.WithClock(func() time.Time { return clock })
	s.Cache.Store("k", "v")
	clock = base.Add(2 * time.Hour)
	assert.Equal(t, 1, r.SweepCaches())
	assert.Equal(t, 0, s.Cache.Len())
}
