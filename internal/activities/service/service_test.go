package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"cruddur/internal/activities/models"
	"cruddur/internal/activities/store"
	"cruddur/internal/platform/metrics"
	userModels "cruddur/internal/users/models"
	userService "cruddur/internal/users/service"
	userStore "cruddur/internal/users/store"
	"cruddur/pkg/domain"
	dErrors "cruddur/pkg/domain-errors"
	"cruddur/pkg/platform/sentinel"
	"cruddur/pkg/requestcontext"
)

type ActivityServiceSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	store    *store.InMemoryStore
	metrics  *metrics.Metrics
	service  *Service
	andrew   *userModels.User
	worf     *userModels.User
	existing *models.Activity
}

func TestActivityServiceSuite(t *testing.T) {
	suite.Run(t, new(ActivityServiceSuite))
}

func (s *ActivityServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	users := userStore.NewInMemoryStore()
	s.andrew = &userModels.User{UUID: domain.NewUserID(), Handle: "andrewbrown", DisplayName: "Andrew Brown", CognitoUserID: "sub-andrew"}
	s.worf = &userModels.User{UUID: domain.NewUserID(), Handle: "worf", DisplayName: "Worf", CognitoUserID: "sub-worf"}
	s.Require().NoError(users.Save(s.ctx, s.andrew))
	s.Require().NoError(users.Save(s.ctx, s.worf))

	s.store = store.NewInMemoryStore()
	s.existing = s.seed(s.worf, "I am out of prune juice", time.Hour)
	s.seed(s.andrew, "Cloud is very fun!", 3*time.Hour)

	s.metrics = metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store, userService.New(users), s.metrics, logger)
}

func (s *ActivityServiceSuite) seed(author *userModels.User, message string, age time.Duration) *models.Activity {
	created := s.now.Add(-age)
	expires := created.Add(24 * time.Hour)
	a := &models.Activity{
		UUID:        domain.NewActivityID(),
		UserUUID:    author.UUID,
		Handle:      author.Handle,
		DisplayName: author.DisplayName,
		Message:     message,
		CreatedAt:   created,
		ExpiresAt:   &expires,
	}
	s.Require().NoError(s.store.Create(s.ctx, a))
	return a
}

func validationDetails(t *testing.T, err error) []string {
	t.Helper()
	var de *dErrors.Error
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	require.Equal(t, dErrors.CodeValidation, de.Code)
	return de.Details
}

func (s *ActivityServiceSuite) TestHomeActivities() {
	s.Run("anonymous gets the feed newest first", func() {
		feed, err := s.service.HomeActivities(s.ctx, "")
		s.Require().NoError(err)
		s.Require().Len(feed, 2)
		s.Equal("worf", feed[0].Handle)
	})

	s.Run("authenticated viewer sees own activities first", func() {
		feed, err := s.service.HomeActivities(s.ctx, "sub-andrew")
		s.Require().NoError(err)
		s.Require().Len(feed, 2)
		s.Equal("andrewbrown", feed[0].Handle)
		s.Equal("worf", feed[1].Handle)
	})

	s.Run("unknown subject degrades to the public feed", func() {
		feed, err := s.service.HomeActivities(s.ctx, "sub-stranger")
		s.Require().NoError(err)
		s.Equal("worf", feed[0].Handle)
	})
}

func (s *ActivityServiceSuite) TestUserActivities() {
	feed, err := s.service.UserActivities(s.ctx, "worf")
	s.Require().NoError(err)
	s.Require().Len(feed, 1)
	s.Equal(s.existing.UUID, feed[0].UUID)

	_, err = s.service.UserActivities(s.ctx, "  ")
	s.Equal([]string{"blank_user_handle"}, validationDetails(s.T(), err))
}

func (s *ActivityServiceSuite) TestSearchActivities() {
	feed, err := s.service.SearchActivities(s.ctx, "prune")
	s.Require().NoError(err)
	s.Len(feed, 1)

	_, err = s.service.SearchActivities(s.ctx, "")
	s.Equal([]string{"search_term_blank"}, validationDetails(s.T(), err))
}

func (s *ActivityServiceSuite) TestCreateActivity() {
	s.Run("success", func() {
		a, err := s.service.CreateActivity(s.ctx, "sub-andrew", "Hello cruddur", "3-hours")
		s.Require().NoError(err)
		s.Equal("andrewbrown", a.Handle)
		s.Equal("Andrew Brown", a.DisplayName)
		s.Equal(s.now, a.CreatedAt)
		s.Require().NotNil(a.ExpiresAt)
		s.Equal(s.now.Add(3*time.Hour), *a.ExpiresAt)
		s.InDelta(1, testutil.ToFloat64(s.metrics.ActivitiesCreated), 0)

		stored, err := s.store.FindByID(s.ctx, a.UUID)
		s.Require().NoError(err)
		s.Equal("Hello cruddur", stored.Message)
	})

	s.Run("reports every failing code", func() {
		_, err := s.service.CreateActivity(s.ctx, "", "", "forever")
		s.Equal([]string{"user_handle_blank", "ttl_blank", "message_blank"}, validationDetails(s.T(), err))
	})

	s.Run("message too long", func() {
		_, err := s.service.CreateActivity(s.ctx, "sub-andrew", strings.Repeat("é", models.MaxActivityChars+1), "1-day")
		s.Equal([]string{"message_exceed_max_chars"}, validationDetails(s.T(), err))
	})

	s.Run("message at the limit counts runes", func() {
		_, err := s.service.CreateActivity(s.ctx, "sub-andrew", strings.Repeat("é", models.MaxActivityChars), "1-day")
		s.NoError(err)
	})

	s.Run("unknown subject has no handle", func() {
		_, err := s.service.CreateActivity(s.ctx, "sub-stranger", "hi", "1-hour")
		s.Equal([]string{"user_handle_blank"}, validationDetails(s.T(), err))
	})
}

func (s *ActivityServiceSuite) TestShowActivity() {
	a, err := s.service.ShowActivity(s.ctx, s.existing.UUID)
	s.Require().NoError(err)
	s.Equal(s.existing.Message, a.Message)

	_, err = s.service.ShowActivity(s.ctx, domain.NewActivityID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	later := requestcontext.WithTime(context.Background(), s.now.Add(48*time.Hour))
	_, err = s.service.ShowActivity(later, s.existing.UUID)
	s.ErrorIs(err, sentinel.ErrNotFound, "expired activities are not shown")
}

func (s *ActivityServiceSuite) TestCreateReply() {
	s.Run("success", func() {
		reply, err := s.service.CreateReply(s.ctx, "sub-andrew", s.existing.UUID.String(), "Have some tea")
		s.Require().NoError(err)
		s.Require().NotNil(reply.ReplyToActivityUUID)
		s.Equal(s.existing.UUID, *reply.ReplyToActivityUUID)
		s.Equal(s.existing.ExpiresAt, reply.ExpiresAt)

		parent, err := s.service.ShowActivity(s.ctx, s.existing.UUID)
		s.Require().NoError(err)
		s.Equal(1, parent.RepliesCount)
		s.Require().Len(parent.Replies, 1)
		s.Equal("andrewbrown", parent.Replies[0].Handle)
	})

	s.Run("validation", func() {
		_, err := s.service.CreateReply(s.ctx, "", "", " ")
		s.Equal([]string{"user_handle_blank", "activity_uuid_blank", "message_blank"}, validationDetails(s.T(), err))

		_, err = s.service.CreateReply(s.ctx, "sub-andrew", s.existing.UUID.String(), strings.Repeat("x", models.MaxReplyChars+1))
		s.Equal([]string{"message_exceed_max_chars"}, validationDetails(s.T(), err))
	})

	s.Run("unknown parent", func() {
		_, err := s.service.CreateReply(s.ctx, "sub-andrew", domain.NewActivityID().String(), "hello")
		s.ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.service.CreateReply(s.ctx, "sub-andrew", "not-a-uuid", "hello")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ActivityServiceSuite) TestNotificationActivities() {
	_, err := s.service.CreateReply(s.ctx, "sub-andrew", s.existing.UUID.String(), "Prune juice is a warrior's drink")
	s.Require().NoError(err)

	feed, err := s.service.NotificationActivities(s.ctx, "sub-worf")
	s.Require().NoError(err)
	s.Require().Len(feed, 1)
	s.Equal("andrewbrown", feed[0].Handle)

	feed, err = s.service.NotificationActivities(s.ctx, "sub-andrew")
	s.Require().NoError(err)
	s.Empty(feed)

	feed, err = s.service.NotificationActivities(s.ctx, "sub-stranger")
	s.Require().NoError(err)
	s.Empty(feed)
}

func TestPinOwn(t *testing.T) {
	feed := []*models.Activity{{Handle: "worf"}, {Handle: "AndrewBrown"}, {Handle: "garek"}, {Handle: "andrewbrown"}}
	pinned := pinOwn(feed, "andrewbrown")
	handles := make([]string, len(pinned))
	for i, a := range pinned {
		handles[i] = a.Handle
	}
	assert.Equal(t, []string{"AndrewBrown", "andrewbrown", "worf", "garek"}, handles)
}
