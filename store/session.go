package store

import "sync"

// Session holds the auth flags and bearer token consulted by the
// transport and request layers. An empty token means absent.
type Session struct {
	mu            sync.RWMutex
	authenticated bool
	validated     bool
	token         string
}

// NewSession creates a logged-out session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Session) SetAuthenticated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = v
}

func (s *Session) IsValidated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validated
}

func (s *Session) SetValidated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validated = v
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// ClearAuth handles a hard auth failure: the credential was rejected
// outright, so the session restarts from login.
func (s *Session) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.validated = false
	s.token = ""
}

// Invalidate handles a soft auth failure: authenticated but pending
// verification. The token is kept so the verify step can use it.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.validated = false
}

// Reset returns the session to its logged-out zero state.
func (s *Session) Reset() {
	s.ClearAuth()
}
