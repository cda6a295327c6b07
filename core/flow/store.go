package flow

import "sync"

type sessionEntry struct {
	mu      sync.Mutex
	session Session
}

// Store keeps one Session per user and serializes access to it. All
// handling for a user's update runs inside Do, so two updates from the
// same user can never interleave while updates from different users
// proceed in parallel.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*sessionEntry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*sessionEntry)}
}

func (st *Store) entry(userID int64) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.entries[userID]
	if !ok {
		e = &sessionEntry{}
		st.entries[userID] = e
	}
	return e
}

// Do runs fn with exclusive access to the user's session. The session
// is created on first use. Mutations made by fn persist.
func (st *Store) Do(userID int64, fn func(*Session) error) error {
	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.session)
}

// Drop discards the user's session entirely.
func (st *Store) Drop(userID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.entries, userID)
}
