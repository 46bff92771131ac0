// Package session holds the in-memory admin session table. Sessions are
// process-lifetime only: a restart invalidates every token.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// Lifetime is a fixed window measured from creation. Activity does not
// extend it; LastActivity is recorded for diagnostics only.
const Lifetime = 24 * time.Hour

var (
	ErrNoSession = errors.New("no session for token")
	ErrExpired   = errors.New("session expired")
)

type Session struct {
	Token        string
	Username     string
	Created      time.Time
	LastActivity time.Time
}

// Registry maps opaque bearer tokens to admin sessions. Safe for concurrent
// use from request handlers.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create mints a session for username and returns it. Expired sessions are
// swept here: logins are rare relative to table size, so sweeping on create
// bounds the table without a background timer.
func (r *Registry) Create(username string) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for token, s := range r.sessions {
		if now.Sub(s.Created) > Lifetime {
			delete(r.sessions, token)
		}
	}

	s := Session{
		Token:        newToken(),
		Username:     username,
		Created:      now,
		LastActivity: now,
	}
	r.sessions[s.Token] = s
	return s
}

// Validate returns the session for token. An expired session is evicted and
// reported as ErrExpired; an unknown token as ErrNoSession.
func (r *Registry) Validate(token string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return Session{}, ErrNoSession
	}
	if r.now().Sub(s.Created) > Lifetime {
		delete(r.sessions, token)
		return Session{}, ErrExpired
	}
	return s, nil
}

// Destroy removes the session for token. Destroying an absent token is a
// no-op.
func (r *Registry) Destroy(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// newToken returns 256 bits of entropy, hex encoded.
func newToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
