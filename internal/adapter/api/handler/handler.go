package handler

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/middleware"
	"ecofinds/internal/usecase"
	"ecofinds/pkg/errors"
)

var (
	authHandler         *AuthHandler
	categoryHandler     *CategoryHandler
	productHandler      *ProductHandler
	cartHandler         *CartHandler
	orderHandler        *OrderHandler
	chatHandler         *ChatHandler
	notificationHandler *NotificationHandler
	fileHandler         *FileHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	categoryUseCase *usecase.CategoryUseCase,
	productUseCase *usecase.ProductUseCase,
	cartUseCase *usecase.CartUseCase,
	orderUseCase *usecase.OrderUseCase,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	imageUseCase *usecase.ImageUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	categoryHandler = NewCategoryHandler(categoryUseCase)
	productHandler = NewProductHandler(productUseCase)
	cartHandler = NewCartHandler(cartUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	fileHandler = NewFileHandler(imageUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetCategoryHandler() *CategoryHandler {
	return categoryHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetCartHandler() *CartHandler {
	return cartHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// getUserIDFromContext returns the id the auth middleware stored, or 0.
func getUserIDFromContext(c echo.Context) uint {
	userID, _ := c.Get(middleware.ContextUserID).(uint)
	return userID
}

func invalidID(name string) error {
	return errors.Validation(name, "Invalid "+name)
}
