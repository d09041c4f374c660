package services

import "kemstore/internal/domain"

// Session is one client's view of the store: its id and, once logged in,
// the sanitized profile of the current user.
type Session struct {
	ID   string
	User *domain.UserProfile
}

func (s *Session) Authenticated() bool { return s != nil && s.User != nil }

func (s *Session) UserID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.User.ID
}

func (s *Session) requireUser() (string, error) {
	if !s.Authenticated() {
		return "", ErrNotAuthenticated
	}
	return s.User.ID, nil
}
