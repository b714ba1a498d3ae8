package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
)

const apiPrefix = "/api"

// Setup registers every route. Handlers must have been built with
// handler.Setup and handler.SetupHealthHandler first.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter, wsHandler *handler.WebSocketHandler) {
	api := e.Group(apiPrefix)

	SetupHealthRouter(e, api)
	SetupAuthRouter(api, authMiddleware, limiter)
	SetupCategoryRouter(api)
	SetupProductRouter(api, authMiddleware)
	SetupFileRouter(api, authMiddleware)
	SetupCartRouter(api, authMiddleware)
	SetupOrderRouter(api, authMiddleware)
	SetupChatRouter(api, authMiddleware)
	SetupNotificationRouter(api, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
}
