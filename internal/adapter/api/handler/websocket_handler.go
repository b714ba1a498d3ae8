package handler

import (
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/middleware"
	"ecofinds/internal/domain/repository"
	ws "ecofinds/internal/infrastructure/websocket"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
	"ecofinds/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	verifier  middleware.TokenVerifier
	userRepo  repository.UserRepository
	upgrader  gorillaws.Upgrader
}

// NewWebSocketHandler allows any origin when allowedOrigins is empty or
// contains "*".
func NewWebSocketHandler(wsManager *ws.Manager, verifier middleware.TokenVerifier, userRepo repository.UserRepository, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		verifier:  verifier,
		userRepo:  userRepo,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket authenticates the handshake from the token query
// parameter or the Authorization header and upgrades the connection.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		token, _ = middleware.BearerToken(c.Request().Header.Get("Authorization"))
	}
	if token == "" {
		return response.Error(c, errors.Unauthorized("Authentication error", nil))
	}

	claims, err := h.verifier.VerifyToken(token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Authentication error", err))
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.IsNotFound(err) {
			return response.Error(c, errors.Unauthorized("User not found", nil))
		}
		return response.Error(c, errors.Internal("Failed to load user", err))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader already wrote the HTTP error.
		logger.Warn("WebSocket: upgrade failed for user %d: %v", user.ID, err)
		return nil
	}

	client := ws.NewClient(conn, user.ID, user.Username)
	if err := h.wsManager.Register(client); err != nil {
		conn.WriteMessage(gorillaws.CloseMessage, gorillaws.FormatCloseMessage(gorillaws.CloseGoingAway, "server shutting down"))
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump(h.wsManager)

	return nil
}
