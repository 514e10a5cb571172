package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userModels "cruddur/internal/users/models"
	"cruddur/pkg/domain"
)

func TestInMemoryStoreConversations(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	andrew := &userModels.User{UUID: domain.NewUserID(), Handle: "andrewbrown", DisplayName: "Andrew Brown"}
	worf := &userModels.User{UUID: domain.NewUserID(), Handle: "worf", DisplayName: "Worf"}
	garek := &userModels.User{UUID: domain.NewUserID(), Handle: "garek", DisplayName: "Garek"}
	s := NewInMemoryStore()

	first, err := s.Create(ctx, andrew, worf, "Qapla'!", now.Add(-time.Hour))
	require.NoError(t, err)
	second, err := s.Create(ctx, worf, andrew, "Today is a good day to die", now.Add(-30*time.Minute))
	require.NoError(t, err)
	_, err = s.Create(ctx, garek, andrew, "Lunch at the replimat?", now.Add(-2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, first.MessageGroupUUID, second.MessageGroupUUID, "both directions share one group")

	t.Run("groups are most recently active first", func(t *testing.T) {
		groups, err := s.ListGroups(ctx, andrew.UUID)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "worf", groups[0].Handle)
		assert.Equal(t, "Today is a good day to die", groups[0].Message)
		assert.Equal(t, "garek", groups[1].Handle)

		groups, err = s.ListGroups(ctx, worf.UUID)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "andrewbrown", groups[0].Handle, "group names the other party")
	})

	t.Run("messages are oldest first from either side", func(t *testing.T) {
		msgs, err := s.ListMessages(ctx, worf.UUID, andrew.UUID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "andrewbrown", msgs[0].Handle)
		assert.Equal(t, "worf", msgs[1].Handle)
	})

	t.Run("no conversation yet", func(t *testing.T) {
		msgs, err := s.ListMessages(ctx, worf.UUID, garek.UUID)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}
