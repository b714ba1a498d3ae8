package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
)

func SetupOrderRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	orderHandler := handler.GetOrderHandler()

	orders := api.Group("/orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("/checkout", orderHandler.Checkout)
	orders.GET("", orderHandler.ListOrders)
	orders.GET("/sales", orderHandler.ListSales)
	orders.GET("/:id", orderHandler.GetOrder)
}
