package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"ecofinds/internal/infrastructure/auth"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/response"
)

// Context keys set for authenticated requests.
const (
	ContextUserID   = "uid"
	ContextUsername = "username"
)

type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := BearerToken(c.Request().Header.Get("Authorization"))
		if !ok {
			return response.Error(c, errors.Unauthorized("Access token required", nil))
		}

		claims, err := m.verifier.VerifyToken(token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)

		return next(c)
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
