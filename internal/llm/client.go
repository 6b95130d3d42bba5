package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is the external completion call: role-tagged turns in, text out.
// Implementations return an error for transport failures and for
// structurally empty responses so callers can retry both the same way.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
