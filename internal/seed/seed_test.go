package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activityStore "cruddur/internal/activities/store"
	messageStore "cruddur/internal/messages/store"
	userStore "cruddur/internal/users/store"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	users := userStore.NewInMemoryStore()
	activities := activityStore.NewInMemoryStore()
	messages := messageStore.NewInMemoryStore()

	require.NoError(t, Load(ctx, users, activities, messages, now))

	andrew, err := users.FindByHandle(ctx, "andrewbrown")
	require.NoError(t, err)

	feed, err := activities.ListRecent(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "garek", feed[0].Handle)

	notifications, err := activities.ListNotifications(ctx, "andrewbrown", now, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "This post has no honor!", notifications[0].Message)

	groups, err := messages.ListGroups(ctx, andrew.UUID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "worf", groups[0].Handle)
}
