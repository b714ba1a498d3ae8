package router

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/adapter/api/handler"
	"ecofinds/internal/adapter/api/middleware"
	"ecofinds/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	public := api.Group("/auth")
	if limiter != nil {
		public.POST("/register", authHandler.Register, middleware.RateLimit(limiter, ratelimit.ActionAuth))
		public.POST("/login", authHandler.Login, middleware.RateLimit(limiter, ratelimit.ActionAuth))
	} else {
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("/me", authHandler.GetProfile)
	protected.PUT("/me", authHandler.UpdateProfile)
}
