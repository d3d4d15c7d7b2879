package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/tripveda/flightdesk/internal/models"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrBadIndex = errors.New("flight index out of range")
)

// Store keeps live sessions in memory. A background sweep drops sessions
// idle past the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *logrus.Logger
}

func NewStore(ttl time.Duration, log *logrus.Logger) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
	}
}

// Create makes a new session for a validated search request.
func (st *Store) Create(req models.SearchRequest) (*Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	sess, err := newSession(id.String(), req)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts idle sessions until ctx is done.
func (st *Store) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.evictIdle()
		}
	}
}

func (st *Store) evictIdle() {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	for id, sess := range st.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			st.log.WithField("session_id", id).Debug("evicted idle session")
		}
	}
}
