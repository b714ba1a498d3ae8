package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
)

type gormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) repository.ChatRepository {
	return &gormChatRepository{db: db}
}

func withParticipants(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Buyer", userSummaryColumns).
		Preload("Seller", userSummaryColumns).
		Preload("Product", productSummaryColumns)
}

func (r *gormChatRepository) CreateConversation(ctx context.Context, conversation *entity.Conversation) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Create(conversation).Error
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *gormChatRepository) GetConversation(ctx context.Context, id uint) (*entity.Conversation, error) {
	var conversation entity.Conversation
	if err := conn(ctx, r.db).Scopes(withParticipants).First(&conversation, id).Error; err != nil {
		return nil, notFound("Conversation", err)
	}
	return &conversation, nil
}

func (r *gormChatRepository) FindConversation(ctx context.Context, buyerID, sellerID uint, productID *uint) (*entity.Conversation, error) {
	query := conn(ctx, r.db).Scopes(withParticipants).Where("buyer_id = ? AND seller_id = ?", buyerID, sellerID)
	if productID == nil {
		query = query.Where("product_id IS NULL")
	} else {
		query = query.Where("product_id = ?", *productID)
	}

	var conversation entity.Conversation
	if err := query.First(&conversation).Error; err != nil {
		return nil, notFound("Conversation", err)
	}
	return &conversation, nil
}

func (r *gormChatRepository) ListConversationsByUser(ctx context.Context, userID uint, limit, offset int) ([]*entity.Conversation, int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Conversation{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var conversations []*entity.Conversation
	err = conn(ctx, r.db).
		Scopes(withParticipants).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("updated_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error
	if err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

func (r *gormChatRepository) TouchConversation(ctx context.Context, id uint, at time.Time) error {
	return conn(ctx, r.db).Model(&entity.Conversation{}).Where("id = ?", id).UpdateColumn("updated_at", at).Error
}

func (r *gormChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(message).Error
}

func (r *gormChatRepository) ListMessages(ctx context.Context, conversationID uint) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := conn(ctx, r.db).
		Preload("Sender", userSummaryColumns).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&messages).Error
	return messages, err
}

func (r *gormChatRepository) LatestMessages(ctx context.Context, conversationIDs []uint) (map[uint]*entity.Message, error) {
	latest := make(map[uint]*entity.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return latest, nil
	}

	db := conn(ctx, r.db)
	newest := db.Model(&entity.Message{}).
		Select("DISTINCT ON (conversation_id) id").
		Where("conversation_id IN ?", conversationIDs).
		Order("conversation_id, created_at desc, id desc")

	var messages []*entity.Message
	if err := db.Preload("Sender", userSummaryColumns).Where("id IN (?)", newest).Find(&messages).Error; err != nil {
		return nil, err
	}
	for _, message := range messages {
		latest[message.ConversationID] = message
	}
	return latest, nil
}

func (r *gormChatRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uint) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *gormChatRepository) CountUnreadMessages(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.buyer_id = ? OR conversations.seller_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
