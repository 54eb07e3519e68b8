package llm

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// Request is a single chat completion call. Zero sampling values leave the
// provider defaults in place.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
	TopP        float32
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, req Request) (Response, error)
}
