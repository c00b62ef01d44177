package chat

import (
	"context"
	"sync"

	"github.com/franciscosbf/groqtgbot/internal/llm"
)

// Interaction is one completed user/assistant exchange. It is never
// modified after being appended to a session's history.
type Interaction struct {
	UserText      string
	AssistantText string
}

// Session is one user's bounded conversational memory plus the client used
// to continue it. The whole of Send runs under the session mutex: reading
// the history, calling the backend and appending the new interaction form a
// single critical section, so overlapping sends from the same user cannot
// interleave and build requests missing each other's exchange.
type Session struct {
	mu      sync.Mutex
	client  llm.Client
	history ring
}

func newSession(client llm.Client, historySize int) *Session {
	return &Session{
		client:  client,
		history: newRing(historySize),
	}
}

// Send forwards the history plus content to the backend and records the
// exchange. On any backend error the history is left untouched. When the
// history is at capacity the oldest interaction is evicted first.
func (s *Session) Send(ctx context.Context, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]llm.Message, 0, 2*s.history.len()+1)
	s.history.each(func(it Interaction) {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: it.UserText},
			llm.Message{Role: llm.RoleAssistant, Content: it.AssistantText},
		)
	})
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: content})

	resp, err := s.client.Generate(ctx, messages)
	if err != nil {
		return "", err
	}

	s.history.push(Interaction{UserText: content, AssistantText: resp.Content})

	return resp.Content, nil
}

// UndoLast removes the most recent interaction. Callers use it to roll back
// an exchange whose reply was never delivered to the user; keeping it would
// make the next request reference an answer the user never saw. Calling it
// on an empty history is a no-op.
func (s *Session) UndoLast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.popNewest()
}

// Interactions returns a snapshot of the history, oldest first.
func (s *Session) Interactions() []Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Interaction, 0, s.history.len())
	s.history.each(func(it Interaction) {
		out = append(out, it)
	})
	return out
}
