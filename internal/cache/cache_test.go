package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(time.Hour).WithClock(clk.Now), clk
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("I led a 5-person team", "career planning")
	b := Key("I led a 5-person team", "career planning")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Key("I led a 5-person team", "data analyst"))
}

func TestKey_OnlyFirstThousandCharacters(t *testing.T) {
	base := strings.Repeat("я", KeyPrefixRunes)
	assert.Equal(t, Key(base+"tail one", "x"), Key(base+"different tail", "x"))
	assert.NotEqual(t, Key(base[:len(base)-2]+"a", "x"), Key(base, "x"))
}

func TestStore_HitWithinTTL(t *testing.T) {
	s, clk := newTestStore()
	k := Key("content", "marketing plan")

	_, ok := s.Lookup(k)
	assert.False(t, ok, "miss before store")

	s.Store(k, "analysis")
	clk.Advance(59 * time.Minute)
	got, ok := s.Lookup(k)
	require.True(t, ok)
	assert.Equal(t, "analysis", got)
}

func TestStore_ExpiresAtTTL(t *testing.T) {
	s, clk := newTestStore()
	s.Store("k", "v")

	clk.Advance(time.Hour - time.Nanosecond)
	_, ok := s.Lookup("k")
	assert.True(t, ok)

	clk.Advance(time.Nanosecond)
	_, ok = s.Lookup("k")
	assert.False(t, ok, "entry must be absent once age reaches the ttl")
	assert.Equal(t, 1, s.Len(), "lazy expiry keeps the entry until swept")
}

func TestStore_StoreRefreshesTimestamp(t *testing.T) {
	s, clk := newTestStore()
	s.Store("k", "old")
	clk.Advance(50 * time.Minute)
	s.Store("k", "new")
	clk.Advance(50 * time.Minute)
	got, ok := s.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestStore_ClearAndSweep(t *testing.T) {
	s, clk := newTestStore()
	s.Store("a", "1")
	clk.Advance(2 * time.Hour)
	s.Store("b", "2")

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	_, ok := s.Lookup("b")
	assert.True(t, ok)

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStore_Stats(t *testing.T) {
	s, _ := newTestStore()
	s.Store("a", "1")
	s.Lookup("a")
	s.Lookup("missing")
	st := s.Stats()
	assert.Equal(t, Stats{Entries: 1, Hits: 1, Misses: 1}, st)
}

func TestNew_DefaultTTL(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New(0).WithClock(clk.Now)
	s.Store("k", "v")

	clk.Advance(DefaultTTL - time.Minute)
	_, ok := s.Lookup("k")
	assert.True(t, ok)

	clk.Advance(2 * time.Minute)
	_, ok = s.Lookup("k")
	assert.False(t, ok)
}
