package chat

import (
	"context"
	"errors"
	"sync"
	"time"
)

type storeEntry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps one session per client id in memory.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*storeEntry
	factory  func() *Session
	now      func() time.Time
}

func NewStore(factory func() *Session) *Store {
	return &Store{
		sessions: make(map[string]*storeEntry),
		factory:  factory,
		now:      time.Now,
	}
}

// Get returns the session for id and marks it as recently used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = st.now()
	return e.session, true
}

func (st *Store) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok := st.sessions[id]; ok {
		e.lastSeen = st.now()
		return e.session
	}
	s := st.factory()
	st.sessions[id] = &storeEntry{session: s, lastSeen: st.now()}
	return s
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// EvictIdle closes and forgets sessions unused for longer than ttl.
// Sessions with a turn in flight or a subscribed front-end are kept.
func (st *Store) EvictIdle(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)

	st.mu.Lock()
	var evicted []*Session
	for id, e := range st.sessions {
		if e.lastSeen.After(cutoff) || e.session.InUse() {
			continue
		}
		delete(st.sessions, id)
		evicted = append(evicted, e.session)
	}
	st.mu.Unlock()

	for _, s := range evicted {
		_ = s.Close(context.Background())
	}
	return len(evicted)
}

// RunEviction calls EvictIdle every interval until ctx is done.
func (st *Store) RunEviction(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.EvictIdle(ttl)
		}
	}
}

// Close closes every session and empties the store. Turns still running
// when ctx is done are abandoned and reported in the returned error.
func (st *Store) Close(ctx context.Context) error {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*storeEntry)
	st.mu.Unlock()

	var errs []error
	for _, e := range sessions {
		if err := e.session.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
