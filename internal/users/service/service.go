package service

import (
	"context"
	"errors"
	"fmt"

	"cruddur/internal/users/models"
	"cruddur/pkg/platform/sentinel"
)

type Store interface {
	FindByCognitoUserID(ctx context.Context, cognitoUserID string) (*models.User, error)
	FindByHandle(ctx context.Context, handle string) (*models.User, error)
}

// Service maps verified token identities to cruddur users.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Resolve finds the user behind a token identity, first by Cognito user id and
// then by handle (the pool username). It returns sentinel.ErrNotFound when
// neither matches.
func (s *Service) Resolve(ctx context.Context, identity string) (*models.User, error) {
	if identity == "" {
		return nil, fmt.Errorf("empty identity: %w", sentinel.ErrNotFound)
	}
	user, err := s.store.FindByCognitoUserID(ctx, identity)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	user, err = s.store.FindByHandle(ctx, identity)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// Lookup returns the user owning handle.
func (s *Service) Lookup(ctx context.Context, handle string) (*models.User, error) {
	return s.store.FindByHandle(ctx, handle)
}
