package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
)

// SetupWebSocketRouter sets up WebSocket routes. Authentication happens
// inside the handler, before the upgrade.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
	e.GET("/socket", wsHandler.HandleWebSocket)
}
