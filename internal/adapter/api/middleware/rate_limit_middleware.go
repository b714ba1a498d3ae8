package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
	"ecofinds/pkg/response"
)

type Limiter interface {
	Allow(subject, action string) (bool, time.Duration)
}

// RateLimit limits requests per client IP for the given action.
func RateLimit(limiter Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, waitTime := limiter.Allow(ip, action)
			if !allowed {
				logger.Warn("RATE LIMIT: blocked %s from IP %s (retry in %v)", action, ip, waitTime)
				return response.Error(c, errors.TooManyRequests("Too many requests. Please try again later", waitTime))
			}
			return next(c)
		}
	}
}
