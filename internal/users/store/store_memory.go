package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cruddur/internal/users/models"
	"cruddur/pkg/platform/sentinel"
)

// InMemoryStore keeps users in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User // by lower-cased handle
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]*models.User)}
}

func (s *InMemoryStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Handle)
	for k, existing := range s.users {
		if k != key && user.CognitoUserID != "" && existing.CognitoUserID == user.CognitoUserID {
			return fmt.Errorf("cognito user %q already linked to @%s: %w", user.CognitoUserID, existing.Handle, sentinel.ErrConflict)
		}
	}
	clone := *user
	s.users[key] = &clone
	return nil
}

func (s *InMemoryStore) FindByCognitoUserID(_ context.Context, cognitoUserID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.CognitoUserID == cognitoUserID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user with cognito id %q: %w", cognitoUserID, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByHandle(_ context.Context, handle string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(handle)]
	if !ok {
		return nil, fmt.Errorf("user @%s: %w", handle, sentinel.ErrNotFound)
	}
	clone := *u
	return &clone, nil
}
