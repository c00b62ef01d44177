package chat

import "github.com/franciscosbf/groqtgbot/internal/llm"

// Factory builds sessions bound to one backend client and history capacity.
// It holds no other state; concurrent calls are fine and every call yields
// an independent session.
type Factory struct {
	client      llm.Client
	historySize int
}

func NewFactory(client llm.Client, historySize int) *Factory {
	return &Factory{client: client, historySize: historySize}
}

func (f *Factory) NewSession() *Session {
	return newSession(f.client, f.historySize)
}
