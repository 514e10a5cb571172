package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cruddur/internal/messages/models"
	"cruddur/internal/platform/metrics"
	userModels "cruddur/internal/users/models"
	"cruddur/pkg/domain"
	dErrors "cruddur/pkg/domain-errors"
	"cruddur/pkg/platform/sentinel"
	pstrings "cruddur/pkg/platform/strings"
	"cruddur/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, sender, receiver *userModels.User, text string, now time.Time) (*models.Message, error)
	ListGroups(ctx context.Context, user domain.UserID) ([]*models.MessageGroup, error)
	ListMessages(ctx context.Context, user, other domain.UserID) ([]*models.Message, error)
}

type UserResolver interface {
	Resolve(ctx context.Context, identity string) (*userModels.User, error)
	Lookup(ctx context.Context, handle string) (*userModels.User, error)
}

// Service implements direct messaging between users.
type Service struct {
	store   Store
	users   UserResolver
	metrics *metrics.Metrics
}

func New(store Store, users UserResolver, metrics *metrics.Metrics) *Service {
	return &Service{store: store, users: users, metrics: metrics}
}

// MessageGroups lists subject's conversations. A subject without a cruddur
// user has none.
func (s *Service) MessageGroups(ctx context.Context, subject string) ([]*models.MessageGroup, error) {
	me, err := s.member(ctx, subject)
	if err != nil || me == nil {
		return []*models.MessageGroup{}, err
	}
	groups, err := s.store.ListGroups(ctx, me.UUID)
	if err != nil {
		return nil, fmt.Errorf("list message groups: %w", err)
	}
	return groups, nil
}

// Messages returns the conversation between subject and the user owning handle.
func (s *Service) Messages(ctx context.Context, subject, handle string) ([]*models.Message, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, dErrors.Validation("blank_user_handle")
	}
	me, err := s.member(ctx, subject)
	if err != nil || me == nil {
		return []*models.Message{}, err
	}
	other, err := s.users.Lookup(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("message partner @%s: %w", handle, err)
	}
	msgs, err := s.store.ListMessages(ctx, me.UUID, other.UUID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// CreateMessage sends message from subject to receiverHandle.
func (s *Service) CreateMessage(ctx context.Context, subject, receiverHandle, message string) (*models.Message, error) {
	sender, err := s.member(ctx, subject)
	if err != nil {
		return nil, err
	}
	receiverHandle = strings.TrimSpace(receiverHandle)

	var codes []string
	if sender == nil {
		codes = append(codes, "user_sender_handle_blank")
	}
	if receiverHandle == "" {
		codes = append(codes, "user_receiver_handle_blank")
	}
	switch {
	case pstrings.Blank(message):
		codes = append(codes, "message_blank")
	case utf8.RuneCountInString(message) > models.MaxMessageChars:
		codes = append(codes, "message_exceed_max_chars")
	}
	if len(codes) > 0 {
		return nil, dErrors.Validation(codes...)
	}

	receiver, err := s.users.Lookup(ctx, receiverHandle)
	if err != nil {
		return nil, fmt.Errorf("message receiver @%s: %w", receiverHandle, err)
	}
	msg, err := s.store.Create(ctx, sender, receiver, message, requestcontext.Now(ctx))
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	s.metrics.IncrementMessagesCreated()
	return msg, nil
}

func (s *Service) member(ctx context.Context, subject string) (*userModels.User, error) {
	user, err := s.users.Resolve(ctx, subject)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve member: %w", err)
	}
	return user, nil
}
