// Package auth resolves the current user for the task manager.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sadopc/goalify/internal/store"
)

// User is the opaque identity the rest of the app is scoped by.
type User struct {
	ID   string
	Name string
}

// Provider returns the signed-in user, or nil when nobody is signed in.
type Provider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// Static always reports the same user. A nil user means signed out.
type Static struct {
	User *User
}

func (s Static) CurrentUser(context.Context) (*User, error) {
	if s.User == nil {
		return nil, nil
	}
	u := *s.User
	return &u, nil
}

// UserStore is the part of the store a Session needs.
type UserStore interface {
	EnsureUser(ctx context.Context, name string) (*store.User, error)
}

var ErrEmptyUsername = errors.New("username is empty")

// Session holds the signed-in user between SignIn and SignOut.
type Session struct {
	users UserStore

	mu   sync.RWMutex
	user *User
}

func NewSession(users UserStore) *Session {
	return &Session{users: users}
}

// SignIn resolves name to a user, creating it on first sign-in.
func (s *Session) SignIn(ctx context.Context, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyUsername
	}
	u, err := s.users.EnsureUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("sign in %q: %w", name, err)
	}

	s.mu.Lock()
	s.user = &User{ID: u.ID, Name: u.Name}
	s.mu.Unlock()

	return s.CurrentUser(ctx)
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *Session) CurrentUser(context.Context) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}
