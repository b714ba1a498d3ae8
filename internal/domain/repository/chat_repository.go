package repository

import (
	"context"
	"time"

	"ecofinds/internal/domain/entity"
)

type ChatRepository interface {
	// CreateConversation returns ErrDuplicate when the triple already exists.
	CreateConversation(ctx context.Context, conversation *entity.Conversation) error
	GetConversation(ctx context.Context, id uint) (*entity.Conversation, error)
	FindConversation(ctx context.Context, buyerID, sellerID uint, productID *uint) (*entity.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID uint, limit, offset int) ([]*entity.Conversation, int64, error)
	TouchConversation(ctx context.Context, id uint, at time.Time) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns the conversation history oldest first.
	ListMessages(ctx context.Context, conversationID uint) ([]*entity.Message, error)
	// LatestMessages maps each conversation id to its newest message.
	LatestMessages(ctx context.Context, conversationIDs []uint) (map[uint]*entity.Message, error)
	// MarkMessagesRead flags messages in the conversation not sent by readerID.
	MarkMessagesRead(ctx context.Context, conversationID, readerID uint) (int64, error)
	// CountUnreadMessages counts unread messages addressed to userID across
	// all of their conversations.
	CountUnreadMessages(ctx context.Context, userID uint) (int64, error)
}
