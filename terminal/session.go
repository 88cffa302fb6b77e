package terminal

import "errors"

// Guest is the identity of a session nobody has logged into.
const Guest = "guest"

var (
	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrNotLoggedIn     = errors.New("not logged in")
)

// Session holds the current display identity. Login is cosmetic: it only
// changes the name shown in the prompt and messages.
type Session struct {
	user string
}

// NewSession returns a guest session.
func NewSession() *Session {
	return &Session{user: Guest}
}

// User returns the current identity.
func (s *Session) User() string { return s.user }

// IsGuest reports whether nobody is logged in.
func (s *Session) IsGuest() bool { return s.user == Guest }

// Login switches a guest session to name. The name is taken verbatim.
func (s *Session) Login(name string) error {
	if !s.IsGuest() {
		return ErrAlreadyLoggedIn
	}
	if name == "" {
		return errors.New("empty user name")
	}
	s.user = name
	return nil
}

// Logout resets the session to guest and returns the departing identity.
func (s *Session) Logout() (string, error) {
	if s.IsGuest() {
		return "", ErrNotLoggedIn
	}
	prev := s.user
	s.user = Guest
	return prev, nil
}

// Prompt renders the shell prompt for the current identity.
func (s *Session) Prompt() string {
	return s.user + "@blog:~$"
}
