package handler

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/usecase"
	"ecofinds/pkg/response"
	"ecofinds/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	result, err := h.notificationUseCase.ListNotifications(c.Request().Context(), getUserIDFromContext(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	list := result.Page
	return response.PaginatedWith(c, list.Items, list.Total, list.Page, list.Limit, map[string]interface{}{
		"unread_count": result.UnreadCount,
	})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	if err := h.notificationUseCase.MarkAsRead(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.notificationUseCase.MarkAllAsRead(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"message":       "All notifications marked as read",
		"updated_count": updated,
	})
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationUseCase.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int64{"unread_count": count})
}
