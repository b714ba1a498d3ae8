package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
)

// SetupFileRouter registers product image upload and removal.
func SetupFileRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	images := api.Group("/products/images")
	images.Use(authMiddleware.Authenticate)

	images.POST("", fileHandler.UploadImages)
	images.DELETE("", fileHandler.DeleteImage)
}
