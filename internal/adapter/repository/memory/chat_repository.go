package memory

import (
	"context"
	"sort"
	"time"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
)

type chatRepository struct {
	s *Store
}

func NewChatRepository(s *Store) repository.ChatRepository {
	return &chatRepository{s: s}
}

func sameProduct(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// hydrateConversation must be called with mu held.
func (r *chatRepository) hydrateConversation(c entity.Conversation) *entity.Conversation {
	c.Buyer = r.s.sellerOf(c.BuyerID)
	c.Seller = r.s.sellerOf(c.SellerID)
	if c.ProductID != nil {
		if p, ok := r.s.products[*c.ProductID]; ok {
			c.Product = &entity.Product{ID: p.ID, Title: p.Title, ImageURLs: cloneStrings(p.ImageURLs), SellerID: p.SellerID, Status: p.Status}
		}
	}
	return &c
}

func (r *chatRepository) CreateConversation(ctx context.Context, conversation *entity.Conversation) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.conversations {
		if existing.BuyerID == conversation.BuyerID && existing.SellerID == conversation.SellerID &&
			sameProduct(existing.ProductID, conversation.ProductID) {
			return repository.ErrDuplicate
		}
	}
	conversation.ID = r.s.nextID()
	conversation.CreatedAt = r.s.now()
	conversation.UpdatedAt = conversation.CreatedAt
	stored := *conversation
	stored.Buyer, stored.Seller, stored.Product, stored.Messages = nil, nil, nil, nil
	r.s.conversations[conversation.ID] = stored
	return nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uint) (*entity.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	conversation, ok := r.s.conversations[id]
	if !ok {
		return nil, apperrors.NotFound("Conversation", nil)
	}
	return r.hydrateConversation(conversation), nil
}

func (r *chatRepository) FindConversation(ctx context.Context, buyerID, sellerID uint, productID *uint) (*entity.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.conversations {
		if c.BuyerID == buyerID && c.SellerID == sellerID && sameProduct(c.ProductID, productID) {
			return r.hydrateConversation(c), nil
		}
	}
	return nil, apperrors.NotFound("Conversation", nil)
}

func (r *chatRepository) ListConversationsByUser(ctx context.Context, userID uint, limit, offset int) ([]*entity.Conversation, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var conversations []*entity.Conversation
	for _, c := range r.s.conversations {
		if c.IsParticipant(userID) {
			conversations = append(conversations, r.hydrateConversation(c))
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.ID > b.ID
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
	return page(conversations, limit, offset), int64(len(conversations)), nil
}

func (r *chatRepository) TouchConversation(ctx context.Context, id uint, at time.Time) error {
	defer r.s.lock(ctx)()

	c, ok := r.s.conversations[id]
	if !ok {
		return apperrors.NotFound("Conversation", nil)
	}
	if at.After(r.s.lastTime) {
		r.s.lastTime = at
	} else {
		at = r.s.now()
	}
	c.UpdatedAt = at
	r.s.conversations[id] = c
	return nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.conversations[message.ConversationID]; !ok {
		return apperrors.NotFound("Conversation", nil)
	}
	message.ID = r.s.nextID()
	message.CreatedAt = r.s.now()
	if message.MessageType == "" {
		message.MessageType = entity.MessageTypeText
	}
	stored := *message
	stored.Conversation, stored.Sender = nil, nil
	r.s.messages[message.ID] = stored
	return nil
}

// sortedMessages must be called with mu held.
func (r *chatRepository) sortedMessages(conversationID uint) []*entity.Message {
	var messages []*entity.Message
	for _, m := range r.s.messages {
		if m.ConversationID == conversationID {
			msg := m
			msg.Sender = r.s.sellerOf(m.SenderID)
			messages = append(messages, &msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages
}

func (r *chatRepository) ListMessages(ctx context.Context, conversationID uint) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.sortedMessages(conversationID), nil
}

func (r *chatRepository) LatestMessages(ctx context.Context, conversationIDs []uint) (map[uint]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	latest := make(map[uint]*entity.Message, len(conversationIDs))
	for _, id := range conversationIDs {
		if messages := r.sortedMessages(id); len(messages) > 0 {
			latest[id] = messages[len(messages)-1]
		}
	}
	return latest, nil
}

func (r *chatRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uint) (int64, error) {
	defer r.s.lock(ctx)()

	var updated int64
	for id, m := range r.s.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			r.s.messages[id] = m
			updated++
		}
	}
	return updated, nil
}

func (r *chatRepository) CountUnreadMessages(ctx context.Context, userID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, m := range r.s.messages {
		c, ok := r.s.conversations[m.ConversationID]
		if ok && c.IsParticipant(userID) && m.SenderID != userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}
