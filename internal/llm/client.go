package llm

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

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

// Client sends an ordered conversation to a chat-completion backend and
// returns the generated reply. Implementations must be safe for concurrent
// use and must report an unusable response (including empty content) as an
// error rather than a partial Response.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
