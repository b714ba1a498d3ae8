package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
	"ecofinds/pkg/utils"
)

const (
	maxMessageLength     = 2000
	maxMessageTypeLength = 20

	limitSendMessage       = "send_message"
	limitStartConversation = "start_conversation"
	limitTyping            = "typing"
)

type ChatUseCase struct {
	tx               repository.Transactor
	chatRepo         repository.ChatRepository
	userRepo         repository.UserRepository
	productRepo      repository.ProductRepository
	notificationRepo repository.NotificationRepository
	publisher        RealtimePublisher
	rateLimiter      RateLimiter
}

func NewChatUseCase(
	tx repository.Transactor,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	notificationRepo repository.NotificationRepository,
	publisher RealtimePublisher,
	rateLimiter RateLimiter,
) *ChatUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &ChatUseCase{
		tx:               tx,
		chatRepo:         chatRepo,
		userRepo:         userRepo,
		productRepo:      productRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		rateLimiter:      rateLimiter,
	}
}

type SendMessageInput struct {
	ConversationID uint
	Content        string
	MessageType    string
}

func (uc *ChatUseCase) allow(userID uint, action string) error {
	if uc.rateLimiter == nil {
		return nil
	}
	allowed, waitTime := uc.rateLimiter.Allow(strconv.FormatUint(uint64(userID), 10), action)
	if !allowed {
		logger.Warn("Rate limited: user=%d action=%s wait=%v", userID, action, waitTime)
		return errors.TooManyRequests("Rate limit exceeded. Please slow down", waitTime)
	}
	return nil
}

// AllowTyping reports whether a typing event from userID should be relayed.
func (uc *ChatUseCase) AllowTyping(userID uint) bool {
	return uc.allow(userID, limitTyping) == nil
}

// StartConversation returns the conversation for the exact (buyer, seller,
// product) triple, creating it on first contact.
func (uc *ChatUseCase) StartConversation(ctx context.Context, buyerID, sellerID uint, productID *uint) (*ConversationView, error) {
	if sellerID == buyerID {
		return nil, errors.Validation("seller_id", "Cannot start a conversation with yourself")
	}

	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Seller", err)
		}
		return nil, errors.Internal("Failed to load seller", err)
	}

	if productID != nil {
		product, err := uc.productRepo.GetByID(ctx, *productID)
		if err != nil {
			return nil, passThrough("Failed to load product", err)
		}
		if product.SellerID != sellerID {
			return nil, errors.Validation("product_id", "Product does not belong to this seller")
		}
	}

	existing, err := uc.chatRepo.FindConversation(ctx, buyerID, sellerID, productID)
	if err == nil {
		return NewConversationView(existing), nil
	}
	if !errors.IsNotFound(err) {
		return nil, errors.Internal("Failed to look up conversation", err)
	}

	if err := uc.allow(buyerID, limitStartConversation); err != nil {
		return nil, err
	}

	conversation := &entity.Conversation{BuyerID: buyerID, SellerID: sellerID, ProductID: productID}
	if err := uc.chatRepo.CreateConversation(ctx, conversation); err != nil {
		if !stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Internal("Failed to create conversation", err)
		}
		// Lost a race with a concurrent start for the same triple.
		existing, err := uc.chatRepo.FindConversation(ctx, buyerID, sellerID, productID)
		if err != nil {
			return nil, passThrough("Failed to load conversation", err)
		}
		return NewConversationView(existing), nil
	}

	logger.Info("Conversation created: id=%d buyer=%d seller=%d", conversation.ID, buyerID, sellerID)

	created, err := uc.chatRepo.GetConversation(ctx, conversation.ID)
	if err != nil {
		return nil, passThrough("Failed to load conversation", err)
	}
	return NewConversationView(created), nil
}

// ListConversations returns the user's inbox, most recently active first,
// each with its latest message.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID uint, page, limit int) (*Page[*ConversationView], error) {
	pagination := utils.NewPaginationParams(page, limit)
	conversations, total, err := uc.chatRepo.ListConversationsByUser(ctx, userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, errors.Internal("Failed to list conversations", err)
	}

	ids := make([]uint, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.ID)
	}
	latest, err := uc.chatRepo.LatestMessages(ctx, ids)
	if err != nil {
		return nil, errors.Internal("Failed to load latest messages", err)
	}

	views := make([]*ConversationView, 0, len(conversations))
	for _, c := range conversations {
		view := NewConversationView(c)
		view.LastMessage = NewMessageView(latest[c.ID])
		views = append(views, view)
	}
	return &Page[*ConversationView]{Items: views, Total: total, Page: pagination.Page, Limit: pagination.PageSize}, nil
}

// GetConversation returns the conversation with its full history, oldest first.
func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, conversationID uint) (*ConversationView, error) {
	conversation, err := uc.AuthorizeParticipant(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.chatRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, errors.Internal("Failed to load messages", err)
	}

	view := NewConversationView(conversation)
	view.Messages = make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		view.Messages = append(view.Messages, NewMessageView(m))
	}
	return view, nil
}

// AuthorizeParticipant loads the conversation and checks that userID is its
// buyer or seller.
func (uc *ChatUseCase) AuthorizeParticipant(ctx context.Context, userID, conversationID uint) (*entity.Conversation, error) {
	conversation, err := uc.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, passThrough("Failed to load conversation", err)
	}
	if !conversation.IsParticipant(userID) {
		return nil, errors.Forbidden("Not authorized", nil)
	}
	return conversation, nil
}

// SendMessage persists a message, bumps the conversation and notifies the
// other participant in one transaction, then pushes new_message to the
// conversation room and new_notification to the recipient.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID uint, input SendMessageInput) (*MessageView, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.Validation("content", "Message content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, errors.Validation("content", "content must be at most 2000 characters")
	}
	messageType := strings.TrimSpace(input.MessageType)
	if messageType == "" {
		messageType = entity.MessageTypeText
	}
	if len(messageType) > maxMessageTypeLength {
		return nil, errors.Validation("message_type", "message_type must be at most 20 characters")
	}

	if err := uc.allow(senderID, limitSendMessage); err != nil {
		return nil, err
	}

	conversation, err := uc.AuthorizeParticipant(ctx, senderID, input.ConversationID)
	if err != nil {
		return nil, err
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, passThrough("Failed to load sender", err)
	}

	message := &entity.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    messageType,
	}
	recipientID := conversation.OtherParticipant(senderID)
	var notification *entity.Notification

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
			return errors.Internal("Failed to save message", err)
		}
		if err := uc.chatRepo.TouchConversation(ctx, conversation.ID, time.Now().UTC()); err != nil {
			return errors.Internal("Failed to update conversation", err)
		}

		conversationID := conversation.ID
		notification = &entity.Notification{
			UserID:         recipientID,
			Title:          "New Message",
			Message:        messageNotificationText(sender.Username, conversation.Product),
			Type:           entity.NotificationMessage,
			ConversationID: &conversationID,
		}
		if err := uc.notificationRepo.Create(ctx, notification); err != nil {
			return errors.Internal("Failed to create notification", err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Failed to send message", err)
	}

	message.Sender = sender
	view := NewMessageView(message)

	uc.publisher.PublishToConversation(conversation.ID, EventNewMessage, view)
	uc.publisher.PublishToUser(recipientID, EventNewNotification, newNotificationEvent(notification))

	return view, nil
}

func messageNotificationText(username string, product *entity.Product) string {
	if product != nil && product.Title != "" {
		return fmt.Sprintf("%s sent you a message about %q", username, product.Title)
	}
	return fmt.Sprintf("%s sent you a message", username)
}

// MarkConversationRead flags the other party's unread messages as read and
// broadcasts a read receipt to the conversation room.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, conversationID uint) (int64, error) {
	if _, err := uc.AuthorizeParticipant(ctx, userID, conversationID); err != nil {
		return 0, err
	}

	updated, err := uc.chatRepo.MarkMessagesRead(ctx, conversationID, userID)
	if err != nil {
		return 0, errors.Internal("Failed to mark messages as read", err)
	}

	uc.publisher.PublishToConversation(conversationID, EventMessagesRead, ReadReceipt{
		ConversationID: conversationID,
		ReadByID:       userID,
		Count:          updated,
	})
	return updated, nil
}

func (uc *ChatUseCase) UnreadMessageCount(ctx context.Context, userID uint) (int64, error) {
	count, err := uc.chatRepo.CountUnreadMessages(ctx, userID)
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	return count, nil
}
