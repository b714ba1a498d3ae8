package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ecofinds/pkg/logger"
	"ecofinds/pkg/response"
)

// PingFunc checks that the backing store answers.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	ping PingFunc
}

var healthHandler *HealthHandler

func NewHealthHandler(ping PingFunc) *HealthHandler {
	return &HealthHandler{
		ping: ping,
	}
}

func SetupHealthHandler(ping PingFunc) {
	healthHandler = NewHealthHandler(ping)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	database := "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.Error("Health check: database ping failed: %v", err)
			return c.JSON(http.StatusServiceUnavailable, response.Response{
				Success:   false,
				Error:     "Database unavailable",
				Code:      "SERVICE_UNAVAILABLE",
				Data:      map[string]string{"status": "degraded", "database": "unreachable"},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	return response.Success(c, map[string]string{
		"status":   "ok",
		"database": database,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
