package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecofinds/internal/domain/entity"
	"ecofinds/pkg/errors"
)

func TestStartConversationIsUniquePerTriple(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	buyer := env.user(t, "buyer")
	p := env.product(t, seller, "Sofa", "300")

	first, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, &p.ID)
	require.NoError(t, err)
	again, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, &p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	require.NotNil(t, first.Product)
	assert.Equal(t, "Sofa", first.Product.Title)

	general, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, general.ID)

	generalAgain, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, general.ID, generalAgain.ID)
}

func TestStartConversationRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	other := env.user(t, "other")
	buyer := env.user(t, "buyer")
	p := env.product(t, other, "Table", "40")

	_, err := env.chat.StartConversation(ctx, buyer.ID, buyer.ID, nil)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = env.chat.StartConversation(ctx, buyer.ID, 987654, nil)
	assert.True(t, errors.IsNotFound(err))

	_, err = env.chat.StartConversation(ctx, buyer.ID, seller.ID, &p.ID)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	limited := NewChatUseCase(env.tx, env.chatRepo, env.users, env.products, env.notifications, env.publisher, denyAll{})
	_, err = limited.StartConversation(ctx, buyer.ID, seller.ID, nil)
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	buyer := env.user(t, "buyer")
	stranger := env.user(t, "stranger")
	p := env.product(t, seller, "Bicycle", "120")

	conv, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, &p.ID)
	require.NoError(t, err)
	before := conv.UpdatedAt

	msg, err := env.chat.SendMessage(ctx, buyer.ID, SendMessageInput{ConversationID: conv.ID, Content: "  Is it still available?  "})
	require.NoError(t, err)
	assert.Equal(t, "Is it still available?", msg.Content)
	assert.Equal(t, entity.MessageTypeText, msg.MessageType)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "buyer", msg.Sender.Username)

	reloaded, err := env.chat.GetConversation(ctx, seller.ID, conv.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.UpdatedAt.After(before), "sending bumps updated_at")

	notifications, err := env.notification.ListNotifications(ctx, seller.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, notifications.Items, 1)
	n := notifications.Items[0]
	assert.Equal(t, "New Message", n.Title)
	assert.Equal(t, `buyer sent you a message about "Bicycle"`, n.Message)
	assert.Equal(t, entity.NotificationMessage, n.Type)
	require.NotNil(t, n.ConversationID)
	assert.Equal(t, conv.ID, *n.ConversationID)

	roomEvents := env.publisher.byType(EventNewMessage)
	require.Len(t, roomEvents, 1)
	assert.Equal(t, "conversation", roomEvents[0].Target)
	assert.Equal(t, conv.ID, roomEvents[0].ID)

	pushes := env.publisher.byType(EventNewNotification)
	require.Len(t, pushes, 1)
	assert.Equal(t, seller.ID, pushes[0].ID)

	t.Run("non participant", func(t *testing.T) {
		_, err := env.chat.SendMessage(ctx, stranger.ID, SendMessageInput{ConversationID: conv.ID, Content: "hi"})
		assert.True(t, errors.Is(err, "FORBIDDEN"))
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := env.chat.SendMessage(ctx, buyer.ID, SendMessageInput{ConversationID: conv.ID, Content: "   "})
		assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	})

	t.Run("too long", func(t *testing.T) {
		_, err := env.chat.SendMessage(ctx, buyer.ID, SendMessageInput{ConversationID: conv.ID, Content: strings.Repeat("a", 2001)})
		assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	})

	t.Run("missing conversation", func(t *testing.T) {
		_, err := env.chat.SendMessage(ctx, buyer.ID, SendMessageInput{ConversationID: 999999, Content: "hi"})
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestConversationHistoryAndInbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	buyer := env.user(t, "buyer")
	stranger := env.user(t, "stranger")

	older, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, nil)
	require.NoError(t, err)
	p := env.product(t, seller, "Piano", "900")
	newer, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, &p.ID)
	require.NoError(t, err)

	for _, m := range []struct {
		from    uint
		content string
	}{{buyer.ID, "one"}, {seller.ID, "two"}, {buyer.ID, "three"}} {
		_, err := env.chat.SendMessage(ctx, m.from, SendMessageInput{ConversationID: older.ID, Content: m.content})
		require.NoError(t, err)
	}

	history, err := env.chat.GetConversation(ctx, buyer.ID, older.ID)
	require.NoError(t, err)
	require.Len(t, history.Messages, 3)
	assert.Equal(t, "one", history.Messages[0].Content)
	assert.Equal(t, "two", history.Messages[1].Content)
	assert.Equal(t, "three", history.Messages[2].Content)

	_, err = env.chat.GetConversation(ctx, stranger.ID, older.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	inbox, err := env.chat.ListConversations(ctx, seller.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, inbox.Items, 2)
	assert.Equal(t, older.ID, inbox.Items[0].ID, "most recently active first")
	require.NotNil(t, inbox.Items[0].LastMessage)
	assert.Equal(t, "three", inbox.Items[0].LastMessage.Content)
	assert.Equal(t, newer.ID, inbox.Items[1].ID)
	assert.Nil(t, inbox.Items[1].LastMessage)
}

func TestMarkConversationRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	buyer := env.user(t, "buyer")

	conv, err := env.chat.StartConversation(ctx, buyer.ID, seller.ID, nil)
	require.NoError(t, err)
	for _, content := range []string{"hello", "anyone?"} {
		_, err := env.chat.SendMessage(ctx, buyer.ID, SendMessageInput{ConversationID: conv.ID, Content: content})
		require.NoError(t, err)
	}
	_, err = env.chat.SendMessage(ctx, seller.ID, SendMessageInput{ConversationID: conv.ID, Content: "yes"})
	require.NoError(t, err)

	unread, err := env.chat.UnreadMessageCount(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	updated, err := env.chat.MarkConversationRead(ctx, seller.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unread, err = env.chat.UnreadMessageCount(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	buyerUnread, err := env.chat.UnreadMessageCount(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), buyerUnread, "own messages are not marked")

	receipts := env.publisher.byType(EventMessagesRead)
	require.Len(t, receipts, 1)
	receipt, ok := receipts[0].Payload.(ReadReceipt)
	require.True(t, ok)
	assert.Equal(t, seller.ID, receipt.ReadByID)
	assert.Equal(t, conv.ID, receipt.ConversationID)
}
