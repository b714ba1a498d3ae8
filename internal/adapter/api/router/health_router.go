package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo, api *echo.Group) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	api.GET("/health", healthHandler.CheckHealth)
}
