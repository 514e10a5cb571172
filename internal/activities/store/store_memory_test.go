package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruddur/internal/activities/models"
	"cruddur/pkg/domain"
	"cruddur/pkg/platform/sentinel"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func activity(handle, message string, age time.Duration, ttl time.Duration) *models.Activity {
	created := now.Add(-age)
	expires := created.Add(ttl)
	return &models.Activity{
		UUID:        domain.NewActivityID(),
		Handle:      handle,
		DisplayName: handle,
		Message:     message,
		CreatedAt:   created,
		ExpiresAt:   &expires,
	}
}

func reply(parent *models.Activity, handle, message string, age time.Duration) *models.Activity {
	r := activity(handle, message, age, 24*time.Hour)
	parentID := parent.UUID
	r.ReplyToActivityUUID = &parentID
	return r
}

func TestInMemoryStoreFeeds(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	older := activity("andrewbrown", "Cloud is very fun!", 3*time.Hour, 24*time.Hour)
	newer := activity("worf", "I am out of prune juice", time.Hour, 24*time.Hour)
	expired := activity("garek", "Just a simple tailor", 48*time.Hour, 24*time.Hour)
	for _, a := range []*models.Activity{older, newer, expired} {
		require.NoError(t, s.Create(ctx, a))
	}
	require.NoError(t, s.AddReply(ctx, reply(older, "worf", "This post has no honor!", 2*time.Hour)))
	require.NoError(t, s.AddReply(ctx, reply(older, "andrewbrown", "It does", 30*time.Minute)))

	t.Run("recent is newest first without expired or replies", func(t *testing.T) {
		feed, err := s.ListRecent(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, newer.UUID, feed[0].UUID)
		assert.Equal(t, older.UUID, feed[1].UUID)
		assert.Equal(t, 2, feed[1].RepliesCount)
		require.Len(t, feed[1].Replies, 2)
		assert.Equal(t, "worf", feed[1].Replies[0].Handle, "replies are oldest first")
	})

	t.Run("limit", func(t *testing.T) {
		feed, err := s.ListRecent(ctx, now, 1)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, newer.UUID, feed[0].UUID)
	})

	t.Run("by handle is case insensitive", func(t *testing.T) {
		feed, err := s.ListByHandle(ctx, "AndrewBrown", now, 10)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, older.UUID, feed[0].UUID)
	})

	t.Run("search matches replies too", func(t *testing.T) {
		feed, err := s.Search(ctx, "HONOR", now, 10)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, "This post has no honor!", feed[0].Message)

		feed, err = s.Search(ctx, "tailor", now, 10)
		require.NoError(t, err)
		assert.Empty(t, feed, "expired activities are hidden")
	})

	t.Run("notifications exclude own replies", func(t *testing.T) {
		feed, err := s.ListNotifications(ctx, "andrewbrown", now, 10)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, "worf", feed[0].Handle)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := s.FindByID(ctx, older.UUID)
		require.NoError(t, err)
		assert.Len(t, found.Replies, 2)

		_, err = s.FindByID(ctx, domain.NewActivityID())
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		found, err := s.FindByID(ctx, newer.UUID)
		require.NoError(t, err)
		found.Message = "mutated"

		again, err := s.FindByID(ctx, newer.UUID)
		require.NoError(t, err)
		assert.Equal(t, "I am out of prune juice", again.Message)
	})
}

func TestInMemoryStoreAddReplyUnknownParent(t *testing.T) {
	s := NewInMemoryStore()
	orphan := reply(activity("lore", "gone", time.Hour, time.Hour), "worf", "hello?", time.Minute)

	err := s.AddReply(context.Background(), orphan)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStoreCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	a := activity("worf", "Today is a good day to die", time.Minute, time.Hour)

	require.NoError(t, s.Create(ctx, a))
	require.ErrorIs(t, s.Create(ctx, a), sentinel.ErrConflict)
}
