package linking

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds link-flow sessions in memory, scoped per user. Expired
// sessions are pruned lazily on the next write; there is no background
// sweeper.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (st *Store) Create(userID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked(time.Now())

	sess := newSession(uuid.NewString(), userID)
	st.sessions[sess.ID] = sess
	return sess
}

// Get returns the session only to its owner.
func (st *Store) Get(id string, userID int64) (*Session, bool) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok || sess.UserID != userID {
		return nil, false
	}
	if sess.expired(st.ttl, time.Now()) {
		st.Delete(id)
		return nil, false
	}
	return sess, true
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) pruneLocked(now time.Time) {
	for id, sess := range st.sessions {
		if sess.expired(st.ttl, now) {
			delete(st.sessions, id)
		}
	}
}
