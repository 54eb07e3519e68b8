package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxRecords = 10
	PreviewRunes      = 50
	TimestampLayout   = "2006-01-02 15:04:05"
)

// Record is one past analysis kept for the session.
type Record struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	Category       string `json:"category"`
	ContentPreview string `json:"content_preview"`
	Result         string `json:"result"`
}

// Log keeps the newest records first and never grows past its cap.
type Log struct {
	mu      sync.RWMutex
	records []Record
	max     int
	now     func() time.Time
}

func NewLog(max int) *Log {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &Log{max: max, now: time.Now}
}

// WithClock replaces the time source, used by tests.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Preview shortens content to PreviewRunes characters, appending "..." when cut.
func Preview(content string) string {
	n := 0
	for i := range content {
		if n == PreviewRunes {
			return content[:i] + "..."
		}
		n++
	}
	return content
}

// Add prepends a record built from an analysis and evicts the oldest past the cap.
func (l *Log) Add(category, content, result string) Record {
	ts := l.now()
	rec := Record{
		ID:             uuid.NewString(),
		Timestamp:      ts.Format(TimestampLayout),
		Category:       category,
		ContentPreview: Preview(content),
		Result:         result,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]Record{rec}, l.records...)
	if len(l.records) > l.max {
		l.records = l.records[:l.max]
	}
	return rec
}

// List returns a copy, newest first.
func (l *Log) List() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Get(id string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// At returns the record at a zero-based position in newest-first order.
func (l *Log) At(i int) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.records) {
		return Record{}, false
	}
	return l.records[i], true
}

func (l *Log) Delete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.records {
		if r.ID == id {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}
