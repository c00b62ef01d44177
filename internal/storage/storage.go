package storage

import "time"

// Event records one completed exchange after its reply was delivered.
// It is an operational transcript only; sessions are never rebuilt from it.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	TenantID          uint64    `json:"tenant_id"`
	UserID            uint64    `json:"user_id"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
}

// Recorder abstracts transcript persistence. Implementations must be safe
// for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
}
