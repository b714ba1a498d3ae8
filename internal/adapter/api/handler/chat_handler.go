package handler

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/usecase"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/response"
	"ecofinds/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	SellerID  uint  `json:"seller_id" validate:"required"`
	ProductID *uint `json:"product_id"`
}

type sendMessageRequest struct {
	ConversationID uint   `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required,max=2000"`
	MessageType    string `json:"message_type" validate:"omitempty,max=20"`
}

func (h *ChatHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	conversation, err := h.chatUseCase.StartConversation(c.Request().Context(), getUserIDFromContext(c), req.SellerID, req.ProductID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	page, err := h.chatUseCase.ListConversations(c.Request().Context(), getUserIDFromContext(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, page.Items, page.Total, page.Page, page.Limit)
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	conversation, err := h.chatUseCase.GetConversation(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), getUserIDFromContext(c), usecase.SendMessageInput{
		ConversationID: req.ConversationID,
		Content:        req.Content,
		MessageType:    req.MessageType,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkConversationRead(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	updated, err := h.chatUseCase.MarkConversationRead(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"message":       "Messages marked as read",
		"updated_count": updated,
	})
}

func (h *ChatHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.chatUseCase.UnreadMessageCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int64{"unread_count": count})
}
