package chat

import "sync"

// Store holds every live session, keyed by tenant (group chat) and then by
// user. Lookups take shared locks so unrelated traffic never serializes;
// only inserting a new tenant map or wiping the store needs the top-level
// write lock, and one user's session mutex never blocks another key.
type Store struct {
	factory *Factory

	mu      sync.RWMutex
	tenants map[uint64]*tenantSessions
}

type tenantSessions struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
}

func NewStore(factory *Factory) *Store {
	return &Store{
		factory: factory,
		tenants: make(map[uint64]*tenantSessions),
	}
}

// GetOrCreate returns the session for (tenantID, userID), creating it on
// first access. Concurrent first accesses for the same key all get the same
// session: creation re-checks under the write lock, so a losing creator
// discards nothing but a map lookup.
func (s *Store) GetOrCreate(tenantID, userID uint64) *Session {
	s.mu.RLock()
	t := s.tenants[tenantID]
	s.mu.RUnlock()

	if t == nil {
		s.mu.Lock()
		t = s.tenants[tenantID]
		if t == nil {
			t = &tenantSessions{sessions: make(map[uint64]*Session)}
			s.tenants[tenantID] = t
		}
		s.mu.Unlock()
	}

	t.mu.RLock()
	sess := t.sessions[userID]
	t.mu.RUnlock()

	if sess == nil {
		t.mu.Lock()
		sess = t.sessions[userID]
		if sess == nil {
			sess = s.factory.NewSession()
			t.sessions[userID] = sess
		}
		t.mu.Unlock()
	}

	return sess
}

// Clear drops every tenant and every session beneath it. A send already
// holding its session pointer may still finish against it; the result is
// simply no longer reachable through the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.tenants = make(map[uint64]*tenantSessions)
	s.mu.Unlock()
}

// Len reports the number of live sessions across all tenants.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.tenants {
		t.mu.RLock()
		n += len(t.sessions)
		t.mu.RUnlock()
	}
	return n
}
