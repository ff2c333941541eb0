package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sandevgo/querybot/internal/service/intent"
	"github.com/sandevgo/querybot/internal/service/memory"
)

// Session is the per-conversation state threaded through message handling.
// Callers hold the session lock while touching Memory or Target.
type Session struct {
	sync.Mutex

	ID     string
	Memory *memory.Manager
	Target intent.Target
}

// Store keeps the sessions of one process. Sessions are not persisted.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	newMemory func() *memory.Manager
}

func NewStore(newMemory func() *memory.Manager) *Store {
	return &Store{
		sessions:  make(map[string]*Session),
		newMemory: newMemory,
	}
}

// Start replaces any existing session under id with a fresh one.
func (s *Store) Start(id string) *Session {
	sess := &Session{
		ID:     id,
		Memory: s.newMemory(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for id, starting one if none exists. The second
// result reports whether the session was just created.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, false
	}

	sess := &Session{
		ID:     id,
		Memory: s.newMemory(),
	}
	s.sessions[id] = sess
	return sess, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// NewID returns a random session identifier.
func NewID() string {
	return uuid.NewString()
}
