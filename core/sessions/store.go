// Package sessions owns the append-only session store and attendance file ingestion.
package sessions

import "github.com/seamosgenios/panel/schema"

// Store is an append-only ordered sequence of sessions.
// IDs are assigned on append as the store length plus one and are never reused.
// A Store is not safe for concurrent use.
type Store struct {
	sessions []schema.Session
}

// NewStore creates a store pre-populated with seed sessions in order.
func NewStore(seed ...schema.Session) *Store {
	s := &Store{sessions: make([]schema.Session, 0, len(seed))}
	for _, session := range seed {
		s.Append(session)
	}
	return s
}

// Append stores a copy of session with a freshly assigned ID and returns it.
func (s *Store) Append(session schema.Session) schema.Session {
	session.ID = len(s.sessions) + 1
	session.Rows = append([]schema.AttendeeRow(nil), session.Rows...)
	s.sessions = append(s.sessions, session)
	return session
}

// Sessions returns the stored sessions in append order.
// The returned slice is a copy; the sessions themselves must be treated as read-only.
func (s *Store) Sessions() []schema.Session {
	return append([]schema.Session(nil), s.sessions...)
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

// Get returns the session with the given ID.
func (s *Store) Get(id int) (schema.Session, bool) {
	if id < 1 || id > len(s.sessions) {
		return schema.Session{}, false
	}
	return s.sessions[id-1], true
}
