package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
)

func SetupCartRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	cartHandler := handler.GetCartHandler()

	cart := api.Group("/cart")
	cart.Use(authMiddleware.Authenticate)

	cart.POST("/add", cartHandler.AddToCart)
	cart.GET("", cartHandler.GetCart)
	cart.PUT("/:id", cartHandler.UpdateCartItem)
	cart.DELETE("/:id", cartHandler.RemoveFromCart)
	cart.DELETE("", cartHandler.ClearCart)
}
