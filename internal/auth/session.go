package auth

import (
	"context"
	"sync"
)

// Session is the in-memory logged-in flag
type Session struct {
	mu       sync.RWMutex
	loggedIn bool
	username string
}

func (s *Session) set(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.username = username
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.username = ""
}

// LoggedIn reports whether the flag is set
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Username returns the user that opened the session
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Gate guards the chat behind an Authenticator
type Gate struct {
	auth    Authenticator
	session Session
}

// NewGate creates a Gate using auth
func NewGate(auth Authenticator) *Gate {
	if auth == nil {
		auth = MockAuthenticator{}
	}
	return &Gate{auth: auth}
}

// Login checks creds and opens the session on success
func (g *Gate) Login(ctx context.Context, creds Credentials) Result {
	result := g.auth.Check(ctx, creds)
	if result.Authenticated() {
		g.session.set(creds.Username)
	}
	return result
}

// Logout clears the session
func (g *Gate) Logout() {
	g.session.clear()
}

// Authorized reports whether the chat may be shown
func (g *Gate) Authorized() bool {
	return g.session.LoggedIn()
}

// Username returns the logged-in user, or "" when logged out
func (g *Gate) Username() string {
	return g.session.Username()
}
