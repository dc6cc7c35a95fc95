package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps one Session per browser, keyed by a random id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxIdle  time.Duration
}

// NewStore creates a Store. Sessions untouched for longer than maxIdle are
// dropped when new ones are created; zero keeps them forever.
func NewStore(maxIdle time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		maxIdle:  maxIdle,
	}
}

// Create registers a new empty Session.
func (st *Store) Create() *Session {
	s := New(uuid.NewString())

	st.mu.Lock()
	defer st.mu.Unlock()
	st.pruneLocked(time.Now().UTC())
	st.sessions[s.ID] = s
	return s
}

// Get returns the Session with id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// GetOrCreate returns the Session with id, or a new one when id is unknown.
// The second result reports whether a Session was created.
func (st *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			s.touch()
			return s, false
		}
	}
	return st.Create(), true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) pruneLocked(now time.Time) {
	if st.maxIdle <= 0 {
		return
	}
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.updatedAt)
		s.mu.Unlock()
		if idle > st.maxIdle {
			delete(st.sessions, id)
		}
	}
}
