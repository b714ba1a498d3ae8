package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecofinds/internal/domain/entity"
	"ecofinds/pkg/errors"
)

func TestNotificationsReadFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.user(t, "ana")
	bob := env.user(t, "bob")

	var ids []uint
	for _, title := range []string{"first", "second", "third"} {
		n := &entity.Notification{UserID: ana.ID, Title: title, Message: title, Type: entity.NotificationOrder}
		require.NoError(t, env.notifications.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	page, err := env.notification.ListNotifications(ctx, ana.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "third", page.Items[0].Title, "newest first")
	assert.Equal(t, int64(3), page.UnreadCount)

	assert.True(t, errors.Is(env.notification.MarkAsRead(ctx, bob.ID, ids[0]), "FORBIDDEN"))
	assert.True(t, errors.IsNotFound(env.notification.MarkAsRead(ctx, ana.ID, 999999)))

	require.NoError(t, env.notification.MarkAsRead(ctx, ana.ID, ids[0]))
	require.NoError(t, env.notification.MarkAsRead(ctx, ana.ID, ids[0]))

	unread, err := env.notification.UnreadCount(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	updated, err := env.notification.MarkAllAsRead(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = env.notification.MarkAllAsRead(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)

	page, err = env.notification.ListNotifications(ctx, ana.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.UnreadCount)
	for _, n := range page.Items {
		assert.True(t, n.Read)
	}
}
