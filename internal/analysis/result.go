package analysis

import (
	"fmt"
	"net/http"
)

// Kind tags the outcome of one analysis.
type Kind string

const (
	KindOK            Kind = "ok"
	KindConfigError   Kind = "config_error"
	KindContentError  Kind = "content_error"
	KindRemoteFailure Kind = "remote_failure"
)

// User-facing messages for the non-OK kinds.
const (
	MsgNoContent     = "Please enter content or upload a file."
	MsgTooShort      = "Content is too short, please provide enough information for analysis."
	MsgNoAPIKey      = "Please configure the API key first."
	MsgFailurePrefix = "AI analysis failed: "
)

// Result is what every analysis returns instead of raising.
type Result struct {
	Kind      Kind   `json:"kind"`
	Text      string `json:"text"`
	Detail    string `json:"detail,omitempty"`
	FromCache bool   `json:"from_cache"`
	Category  string `json:"category"`
	Source    string `json:"source,omitempty"`

	Model            string `json:"model,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
	TotalTokens      int    `json:"total_tokens,omitempty"`
}

func (r Result) OK() bool { return r.Kind == KindOK }

// Err converts a non-OK result into an *Error, nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Kind: r.Kind, Message: r.Text}
}

// Error is the Go error form of a failed analysis, for adapters that need one.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindContentError:
		return http.StatusBadRequest
	case KindConfigError:
		return http.StatusUnauthorized
	case KindRemoteFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
