package storage

import "time"

// Event is one analysis invocation. It carries metadata only: submitted
// content and analysis results are never persisted.
type Event struct {
	Timestamp        time.Time `json:"timestamp"`
	SessionID        string    `json:"session_id"`
	Category         string    `json:"category"`
	Outcome          string    `json:"outcome"`
	FromCache        bool      `json:"from_cache"`
	Source           string    `json:"source,omitempty"`
	Model            string    `json:"model,omitempty"`
	PromptTokens     int       `json:"prompt_tokens,omitempty"`
	CompletionTokens int       `json:"completion_tokens,omitempty"`
	TotalTokens      int       `json:"total_tokens,omitempty"`
	DurationMS       int64     `json:"duration_ms"`
}

// Recorder abstracts persistence of usage events.
// LoadEvents should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
