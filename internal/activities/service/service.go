package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"cruddur/internal/activities/models"
	"cruddur/internal/platform/metrics"
	userModels "cruddur/internal/users/models"
	"cruddur/pkg/domain"
	dErrors "cruddur/pkg/domain-errors"
	"cruddur/pkg/platform/sentinel"
	pstrings "cruddur/pkg/platform/strings"
	"cruddur/pkg/requestcontext"
)

const feedLimit = 50

type Store interface {
	Create(ctx context.Context, activity *models.Activity) error
	AddReply(ctx context.Context, reply *models.Activity) error
	FindByID(ctx context.Context, id domain.ActivityID) (*models.Activity, error)
	ListRecent(ctx context.Context, now time.Time, limit int) ([]*models.Activity, error)
	ListByHandle(ctx context.Context, handle string, now time.Time, limit int) ([]*models.Activity, error)
	Search(ctx context.Context, term string, now time.Time, limit int) ([]*models.Activity, error)
	ListNotifications(ctx context.Context, handle string, now time.Time, limit int) ([]*models.Activity, error)
}

// UserResolver maps a verified token identity to a user, returning
// sentinel.ErrNotFound when it has none.
type UserResolver interface {
	Resolve(ctx context.Context, identity string) (*userModels.User, error)
}

// Service implements the activity feeds and the compose/reply flows. Every
// identity it receives has already been verified by the auth middleware.
type Service struct {
	store   Store
	users   UserResolver
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(store Store, users UserResolver, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, users: users, metrics: metrics, logger: logger}
}

// HomeActivities returns the public feed. For an authenticated viewer the
// viewer's own activities are pinned ahead of everyone else's.
func (s *Service) HomeActivities(ctx context.Context, subject string) ([]*models.Activity, error) {
	feed, err := s.store.ListRecent(ctx, requestcontext.Now(ctx), feedLimit)
	if err != nil {
		return nil, fmt.Errorf("home feed: %w", err)
	}
	if subject == "" {
		return feed, nil
	}
	viewer, err := s.users.Resolve(ctx, subject)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.DebugContext(ctx, "authenticated subject has no cruddur user", "subject", subject)
			return feed, nil
		}
		return nil, fmt.Errorf("resolve viewer: %w", err)
	}
	return pinOwn(feed, viewer.Handle), nil
}

func pinOwn(feed []*models.Activity, handle string) []*models.Activity {
	out := make([]*models.Activity, 0, len(feed))
	for _, a := range feed {
		if strings.EqualFold(a.Handle, handle) {
			out = append(out, a)
		}
	}
	for _, a := range feed {
		if !strings.EqualFold(a.Handle, handle) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Service) UserActivities(ctx context.Context, handle string) ([]*models.Activity, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, dErrors.Validation("blank_user_handle")
	}
	feed, err := s.store.ListByHandle(ctx, handle, requestcontext.Now(ctx), feedLimit)
	if err != nil {
		return nil, fmt.Errorf("user feed: %w", err)
	}
	return feed, nil
}

func (s *Service) SearchActivities(ctx context.Context, term string) ([]*models.Activity, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, dErrors.Validation("search_term_blank")
	}
	feed, err := s.store.Search(ctx, term, requestcontext.Now(ctx), feedLimit)
	if err != nil {
		return nil, fmt.Errorf("search activities: %w", err)
	}
	return feed, nil
}

// CreateActivity posts message for subject with a compose-form lifetime.
// All validation failures are reported together.
func (s *Service) CreateActivity(ctx context.Context, subject, message, ttl string) (*models.Activity, error) {
	author, err := s.author(ctx, subject)
	if err != nil {
		return nil, err
	}

	var codes []string
	if author == nil {
		codes = append(codes, "user_handle_blank")
	}
	lifetime, ok := models.ParseTTL(ttl)
	if !ok {
		codes = append(codes, "ttl_blank")
	}
	codes = append(codes, messageCodes(message, models.MaxActivityChars)...)
	if len(codes) > 0 {
		return nil, dErrors.Validation(codes...)
	}

	now := requestcontext.Now(ctx)
	expires := now.Add(lifetime)
	activity := &models.Activity{
		UUID:        domain.NewActivityID(),
		UserUUID:    author.UUID,
		Handle:      author.Handle,
		DisplayName: author.DisplayName,
		Message:     message,
		CreatedAt:   now,
		ExpiresAt:   &expires,
	}
	if err := s.store.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	s.metrics.IncrementActivitiesCreated()
	return activity, nil
}

// ShowActivity returns one activity with its replies. Expired activities are
// reported as not found.
func (s *Service) ShowActivity(ctx context.Context, id domain.ActivityID) (*models.Activity, error) {
	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.Expired(requestcontext.Now(ctx)) {
		return nil, fmt.Errorf("activity %s: %w", id, sentinel.ErrNotFound)
	}
	return activity, nil
}

// CreateReply answers the activity identified by activityUUID. The reply
// inherits the parent's expiry.
func (s *Service) CreateReply(ctx context.Context, subject, activityUUID, message string) (*models.Activity, error) {
	author, err := s.author(ctx, subject)
	if err != nil {
		return nil, err
	}

	var codes []string
	if author == nil {
		codes = append(codes, "user_handle_blank")
	}
	if pstrings.Blank(activityUUID) {
		codes = append(codes, "activity_uuid_blank")
	}
	codes = append(codes, messageCodes(message, models.MaxReplyChars)...)
	if len(codes) > 0 {
		return nil, dErrors.Validation(codes...)
	}

	parentID, err := domain.ParseActivityID(activityUUID)
	if err != nil {
		return nil, fmt.Errorf("parent activity %q: %w", activityUUID, sentinel.ErrNotFound)
	}
	parent, err := s.ShowActivity(ctx, parentID)
	if err != nil {
		return nil, err
	}

	reply := &models.Activity{
		UUID:                domain.NewActivityID(),
		UserUUID:            author.UUID,
		Handle:              author.Handle,
		DisplayName:         author.DisplayName,
		Message:             message,
		ReplyToActivityUUID: &parentID,
		CreatedAt:           requestcontext.Now(ctx),
		ExpiresAt:           parent.ExpiresAt,
	}
	if err := s.store.AddReply(ctx, reply); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create reply: %w", err)
	}
	s.metrics.IncrementActivitiesCreated()
	return reply, nil
}

// NotificationActivities lists replies other users left on subject's activities.
func (s *Service) NotificationActivities(ctx context.Context, subject string) ([]*models.Activity, error) {
	user, err := s.author(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*models.Activity{}, nil
	}
	feed, err := s.store.ListNotifications(ctx, user.Handle, requestcontext.Now(ctx), feedLimit)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return feed, nil
}

// author resolves subject, returning nil without error when it maps to no user.
func (s *Service) author(ctx context.Context, subject string) (*userModels.User, error) {
	if subject == "" {
		return nil, nil
	}
	user, err := s.users.Resolve(ctx, subject)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve author: %w", err)
	}
	return user, nil
}

func messageCodes(message string, limit int) []string {
	if pstrings.Blank(message) {
		return []string{"message_blank"}
	}
	if utf8.RuneCountInString(message) > limit {
		return []string{"message_exceed_max_chars"}
	}
	return nil
}
