package websocket

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/usecase"
	apperrors "ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
)

// Client to server events.
const (
	MessageTypePing              = "ping"
	MessageTypeJoinConversation  = "join_conversation"
	MessageTypeLeaveConversation = "leave_conversation"
	MessageTypeSendMessage       = "send_message"
	MessageTypeMarkMessagesRead  = "mark_messages_read"
	MessageTypeTypingStart       = "typing_start"
	MessageTypeTypingStop        = "typing_stop"
)

// Server to client events. new_message, messages_read and new_notification
// come from usecase.
const (
	MessageTypePong               = "pong"
	MessageTypeError              = "error"
	MessageTypeConversationJoined = "conversation_joined"
	MessageTypeUserTyping         = "user_typing"
	MessageTypeUserStopTyping     = "user_stop_typing"
)

const eventTimeout = 10 * time.Second

// ChatService is the subset of chat operations the socket gateway drives.
type ChatService interface {
	AuthorizeParticipant(ctx context.Context, userID, conversationID uint) (*entity.Conversation, error)
	SendMessage(ctx context.Context, senderID uint, input usecase.SendMessageInput) (*usecase.MessageView, error)
	MarkConversationRead(ctx context.Context, userID, conversationID uint) (int64, error)
	AllowTyping(userID uint) bool
}

// WSMessage is the envelope of every server event.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func newMessage(eventType string, data interface{}) WSMessage {
	return WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type ConversationData struct {
	ConversationID uint `json:"conversation_id"`
}

type SendMessageData struct {
	ConversationID uint   `json:"conversation_id"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type"`
}

type TypingData struct {
	ConversationID uint   `json:"conversation_id"`
	UserID         uint   `json:"user_id"`
	Username       string `json:"username"`
}

type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HandleClientMessage dispatches one client event. Failures are reported to
// the sending connection as error events and never close the socket.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("WebSocket: panic while handling event from client %s: %v", client.ID, r)
			m.sendErrorToClient(client, apperrors.Internal("Internal server error", nil))
		}
	}()

	var msg clientMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		logger.Debug("WebSocket: malformed event from client %s: %v", client.ID, err)
		m.sendErrorToClient(client, apperrors.BadRequest("Invalid message format", err))
		return
	}

	ctx, cancel := context.WithTimeout(m.ctx, eventTimeout)
	defer cancel()

	switch msg.Type {
	case MessageTypePing:
		m.SendTo(client, newMessage(MessageTypePong, map[string]string{"status": "alive"}))

	case MessageTypeJoinConversation:
		m.handleJoinConversation(ctx, client, msg.Data)

	case MessageTypeLeaveConversation:
		m.handleLeaveConversation(client, msg.Data)

	case MessageTypeSendMessage:
		m.handleSendMessage(ctx, client, msg.Data)

	case MessageTypeMarkMessagesRead:
		m.handleMarkMessagesRead(ctx, client, msg.Data)

	case MessageTypeTypingStart:
		m.handleTyping(client, msg.Data, MessageTypeUserTyping)

	case MessageTypeTypingStop:
		m.handleTyping(client, msg.Data, MessageTypeUserStopTyping)

	default:
		logger.Debug("WebSocket: unknown event %q from client %s", msg.Type, client.ID)
		m.sendErrorToClient(client, apperrors.BadRequest("Unknown message type", nil))
	}
}

func decodeConversation(data json.RawMessage) (ConversationData, error) {
	var payload ConversationData
	if len(data) == 0 {
		return payload, apperrors.Validation("conversation_id", "conversation_id is required")
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, apperrors.BadRequest("Invalid event data", err)
	}
	if payload.ConversationID == 0 {
		return payload, apperrors.Validation("conversation_id", "conversation_id is required")
	}
	return payload, nil
}

func (m *Manager) handleJoinConversation(ctx context.Context, client *Client, data json.RawMessage) {
	payload, err := decodeConversation(data)
	if err != nil {
		m.sendErrorToClient(client, err)
		return
	}

	if _, err := m.chat.AuthorizeParticipant(ctx, client.UserID, payload.ConversationID); err != nil {
		m.sendErrorToClient(client, err)
		return
	}

	m.Join(client, ConversationRoom(payload.ConversationID))
	m.SendTo(client, newMessage(MessageTypeConversationJoined, payload))
	logger.Debug("WebSocket: user %d joined conversation %d", client.UserID, payload.ConversationID)
}

func (m *Manager) handleLeaveConversation(client *Client, data json.RawMessage) {
	payload, err := decodeConversation(data)
	if err != nil {
		m.sendErrorToClient(client, err)
		return
	}
	m.Leave(client, ConversationRoom(payload.ConversationID))
}

func (m *Manager) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) {
	var payload SendMessageData
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendErrorToClient(client, apperrors.BadRequest("Invalid send message format", err))
		return
	}
	if payload.ConversationID == 0 {
		m.sendErrorToClient(client, apperrors.Validation("conversation_id", "conversation_id is required"))
		return
	}

	// Broadcasting happens inside SendMessage, same as the REST path.
	_, err := m.chat.SendMessage(ctx, client.UserID, usecase.SendMessageInput{
		ConversationID: payload.ConversationID,
		Content:        payload.Content,
		MessageType:    payload.MessageType,
	})
	if err != nil {
		m.sendErrorToClient(client, err)
	}
}

func (m *Manager) handleMarkMessagesRead(ctx context.Context, client *Client, data json.RawMessage) {
	payload, err := decodeConversation(data)
	if err != nil {
		m.sendErrorToClient(client, err)
		return
	}
	if _, err := m.chat.MarkConversationRead(ctx, client.UserID, payload.ConversationID); err != nil {
		m.sendErrorToClient(client, err)
	}
}

// handleTyping relays typing state to the other connections of a joined
// conversation. Rate limited events are dropped silently.
func (m *Manager) handleTyping(client *Client, data json.RawMessage, eventType string) {
	payload, err := decodeConversation(data)
	if err != nil {
		m.sendErrorToClient(client, err)
		return
	}

	room := ConversationRoom(payload.ConversationID)
	if !m.InRoom(client, room) {
		m.sendErrorToClient(client, apperrors.Forbidden("Join the conversation first", nil))
		return
	}
	if !m.chat.AllowTyping(client.UserID) {
		return
	}

	m.BroadcastToRoom(room, newMessage(eventType, TypingData{
		ConversationID: payload.ConversationID,
		UserID:         client.UserID,
		Username:       client.Username,
	}), client)
}

func (m *Manager) sendErrorToClient(client *Client, err error) {
	data := ErrorData{Message: "Internal server error"}
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		data.Message = appErr.Message
		data.Code = appErr.Code
		if appErr.Status >= 500 {
			logger.Error("WebSocket: event failed for client %s: %v", client.ID, err)
		}
	} else {
		logger.Error("WebSocket: event failed for client %s: %v", client.ID, err)
	}
	m.SendTo(client, newMessage(MessageTypeError, data))
}
