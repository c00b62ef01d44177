package scheduler

import (
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu      sync.Mutex
	cleared int
	onClear func()
}

func (s *fakeStore) Clear() {
	s.mu.Lock()
	s.cleared++
	s.mu.Unlock()
	if s.onClear != nil {
		s.onClear()
	}
}

func (s *fakeStore) clearedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

func TestStartPublishesNextFlush(t *testing.T) {
	st := &fakeStore{}
	f := NewFlusher(st, time.Hour)
	if err := f.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer f.Stop()

	next := f.NextFlush()
	lo := time.Now().Add(59 * time.Minute)
	hi := time.Now().Add(61 * time.Minute)
	if next.Before(lo) || next.After(hi) {
		t.Fatalf("next flush %v not about an hour away", next)
	}
	if f.Flushing() {
		t.Fatalf("flushing flag set outside a flush")
	}
	if st.clearedCount() != 0 {
		t.Fatalf("store cleared before the interval elapsed")
	}
}

func TestFlushClearsStoreAndAdvancesSchedule(t *testing.T) {
	st := &fakeStore{}
	f := NewFlusher(st, time.Hour)

	st.onClear = func() {
		if !f.Flushing() {
			t.Errorf("flushing flag not set during clear")
		}
	}

	before := time.Now()
	f.flush()

	if st.clearedCount() != 1 {
		t.Fatalf("expected 1 clear, got %d", st.clearedCount())
	}
	if f.Flushing() {
		t.Fatalf("flushing flag still set after flush")
	}
	if next := f.NextFlush(); next.Before(before.Add(59 * time.Minute)) {
		t.Fatalf("next flush %v not rescheduled", next)
	}
}

func TestPeriodicFlush(t *testing.T) {
	st := &fakeStore{}
	f := NewFlusher(st, time.Second)
	if err := f.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(2500 * time.Millisecond)
	f.Stop()

	if st.clearedCount() == 0 {
		t.Fatalf("expected at least one flush cycle")
	}
}
