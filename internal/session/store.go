// File: internal/session/store.go
package session

import (
	"errors"
	"sync"
)

// ErrIncompleteSession is returned when only one of the two tokens is supplied.
var ErrIncompleteSession = errors.New("session requires both an access token and a refresh token")

// Session is an authenticated admin's token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store owns the current session. A session is either fully present or absent.
type Store interface {
	Get() (Session, bool)
	Set(accessToken, refreshToken string) error
	Clear() error
	IsAuthenticated() bool
}

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *MemoryStore) Set(accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return ErrIncompleteSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Session{AccessToken: accessToken, RefreshToken: refreshToken}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}

func (s *MemoryStore) IsAuthenticated() bool {
	sess, ok := s.Get()
	return ok && sess.AccessToken != ""
}

var _ Store = (*MemoryStore)(nil)
