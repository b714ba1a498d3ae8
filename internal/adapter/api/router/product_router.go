package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
)

func SetupProductRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	productHandler := handler.GetProductHandler()

	// Public routes
	api.GET("/products", productHandler.ListProducts)

	// Protected routes
	protected := api.Group("/products")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", productHandler.CreateProduct)
	protected.GET("/my-products", productHandler.ListMyProducts)
	protected.PUT("/:id", productHandler.UpdateProduct)
	protected.DELETE("/:id", productHandler.DeleteProduct)

	api.GET("/products/:id", productHandler.GetProduct)
}
