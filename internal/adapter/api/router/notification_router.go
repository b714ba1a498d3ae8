package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
)

func SetupNotificationRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := api.Group("/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.ListNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
}
