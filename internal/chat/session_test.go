package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/franciscosbf/groqtgbot/internal/llm"
)

// echoClient answers every prompt with its uppercase form and records each
// request it receives.
type echoClient struct {
	mu    sync.Mutex
	calls [][]llm.Message
}

func (c *echoClient) Generate(_ context.Context, messages []llm.Message) (llm.Response, error) {
	cp := make([]llm.Message, len(messages))
	copy(cp, messages)
	c.mu.Lock()
	c.calls = append(c.calls, cp)
	c.mu.Unlock()
	last := messages[len(messages)-1]
	return llm.Response{Content: strings.ToUpper(last.Content)}, nil
}

type failingClient struct{ err error }

func (c failingClient) Generate(context.Context, []llm.Message) (llm.Response, error) {
	return llm.Response{}, c.err
}

func mustSend(t *testing.T, s *Session, content string) string {
	t.Helper()
	resp, err := s.Send(context.Background(), content)
	if err != nil {
		t.Fatalf("send %q: %v", content, err)
	}
	return resp
}

func TestSendBoundedHistory(t *testing.T) {
	s := newSession(&echoClient{}, 3)

	for _, content := range []string{"a", "b", "c", "d", "e"} {
		mustSend(t, s, content)
	}

	got := s.Interactions()
	if len(got) != 3 {
		t.Fatalf("expected 3 interactions, got %d", len(got))
	}
	want := []Interaction{
		{UserText: "c", AssistantText: "C"},
		{UserText: "d", AssistantText: "D"},
		{UserText: "e", AssistantText: "E"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interaction %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSendKeepsShortHistoryWhole(t *testing.T) {
	s := newSession(&echoClient{}, 5)

	mustSend(t, s, "a")
	mustSend(t, s, "b")

	got := s.Interactions()
	if len(got) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(got))
	}
	if got[0].UserText != "a" || got[1].UserText != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestSendBuildsRequestFromHistory(t *testing.T) {
	client := &echoClient{}
	s := newSession(client, 2)

	mustSend(t, s, "a")
	mustSend(t, s, "b")
	mustSend(t, s, "c")

	// Third request sees "a" already evicted: two history pairs at most.
	req := client.calls[2]
	want := []llm.Message{
		{Role: llm.RoleUser, Content: "a"},
		{Role: llm.RoleAssistant, Content: "A"},
		{Role: llm.RoleUser, Content: "b"},
		{Role: llm.RoleAssistant, Content: "B"},
		{Role: llm.RoleUser, Content: "c"},
	}
	if len(req) != len(want) {
		t.Fatalf("expected %d messages, got %d: %+v", len(want), len(req), req)
	}
	for i := range want {
		if req[i] != want[i] {
			t.Fatalf("message %d: got %+v, want %+v", i, req[i], want[i])
		}
	}

	mustSend(t, s, "d")
	req = client.calls[3]
	if len(req) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(req))
	}
	if req[0].Content != "b" || req[2].Content != "c" || req[4].Content != "d" {
		t.Fatalf("eviction not reflected in request: %+v", req)
	}
}

func TestUndoLastRestoresPreSendState(t *testing.T) {
	s := newSession(&echoClient{}, 3)

	mustSend(t, s, "a")
	before := s.Interactions()

	mustSend(t, s, "b")
	s.UndoLast()

	after := s.Interactions()
	if len(after) != len(before) {
		t.Fatalf("expected %d interactions, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("interaction %d: got %+v, want %+v", i, after[i], before[i])
		}
	}
}

func TestUndoLastOnEmptyHistory(t *testing.T) {
	s := newSession(&echoClient{}, 3)

	s.UndoLast()
	s.UndoLast()

	if got := s.Interactions(); len(got) != 0 {
		t.Fatalf("expected empty history, got %+v", got)
	}
}

func TestFailedSendLeavesHistoryUntouched(t *testing.T) {
	client := &echoClient{}
	s := newSession(client, 3)
	mustSend(t, s, "a")

	s.client = failingClient{err: errors.New("backend down")}
	if _, err := s.Send(context.Background(), "b"); err == nil {
		t.Fatalf("expected error from failing backend")
	}

	got := s.Interactions()
	if len(got) != 1 || got[0].UserText != "a" {
		t.Fatalf("history changed on failed send: %+v", got)
	}
}

func TestCancelledSendLeavesHistoryUntouched(t *testing.T) {
	blocked := blockingClient{}
	s := newSession(blocked, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Send(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := s.Interactions(); len(got) != 0 {
		t.Fatalf("history changed on cancelled send: %+v", got)
	}
}

// blockingClient waits for cancellation, standing in for a backend that
// never answers.
type blockingClient struct{}

func (blockingClient) Generate(ctx context.Context, _ []llm.Message) (llm.Response, error) {
	<-ctx.Done()
	return llm.Response{}, ctx.Err()
}

func TestScenarioCapacityTwo(t *testing.T) {
	s := newSession(&echoClient{}, 2)

	mustSend(t, s, "a")
	mustSend(t, s, "b")
	mustSend(t, s, "c")

	got := s.Interactions()
	if len(got) != 2 || got[0] != (Interaction{"b", "B"}) || got[1] != (Interaction{"c", "C"}) {
		t.Fatalf("unexpected history after three sends: %+v", got)
	}

	s.UndoLast()
	got = s.Interactions()
	if len(got) != 1 || got[0] != (Interaction{"b", "B"}) {
		t.Fatalf("unexpected history after undo: %+v", got)
	}

	s.client = failingClient{err: errors.New("backend down")}
	if _, err := s.Send(context.Background(), "d"); err == nil {
		t.Fatalf("expected error from failing backend")
	}
	got = s.Interactions()
	if len(got) != 1 || got[0] != (Interaction{"b", "B"}) {
		t.Fatalf("unexpected history after failed send: %+v", got)
	}
}
