package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chatGroup := api.Group("/chat")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("/conversations", chatHandler.StartConversation)
	chatGroup.GET("/conversations", chatHandler.ListConversations)
	chatGroup.GET("/conversations/:id", chatHandler.GetConversation)
	chatGroup.PUT("/conversations/:id/read", chatHandler.MarkConversationRead)

	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.GET("/unread-count", chatHandler.GetUnreadCount)
}
