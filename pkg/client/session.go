package client

import "sync"

// Session is an authenticated identity. It is created by Client.Login or
// Client.Register and is unusable after Logout.
type Session struct {
	User User

	mu     sync.RWMutex
	value  string
	closed bool
}

func newSession(token string, user User) *Session {
	return &Session{User: user, value: token}
}

// Token returns the bearer token, or "" once logged out.
func (s *Session) Token() string {
	t, _ := s.token()
	return t
}

func (s *Session) token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false
	}
	return s.value, true
}

// Logout forgets the token. Tokens are stateless on the server, so there is
// nothing to revoke remotely.
func (s *Session) Logout() {
	s.mu.Lock()
	s.value = ""
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) LoggedIn() bool {
	_, ok := s.token()
	return ok
}
