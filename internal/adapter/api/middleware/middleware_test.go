package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecofinds/internal/infrastructure/auth"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc.def", "abc.def", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.token, token, tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
	}
}

func serve(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.IssueToken(42, "alice@example.com", "alice")
	require.NoError(t, err)

	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(ContextUsername).(string))
	}, NewAuthMiddleware(jwtManager).Authenticate)

	rec := serve(e, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	rec = serve(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token required")

	other := auth.NewJWTManager("other-secret", time.Hour)
	forged, err := other.IssueToken(42, "alice@example.com", "alice")
	require.NoError(t, err)
	rec = serve(e, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

type countingLimiter struct {
	remaining int
}

func (l *countingLimiter) Allow(string, string) (bool, time.Duration) {
	if l.remaining == 0 {
		return false, 30 * time.Second
	}
	l.remaining--
	return true, 0
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RateLimit(&countingLimiter{remaining: 2}, "auth"))

	assert.Equal(t, http.StatusNoContent, serve(e, "").Code)
	assert.Equal(t, http.StatusNoContent, serve(e, "").Code)

	rec := serve(e, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")
	assert.Contains(t, rec.Body.String(), `"retry_after":31`)
}
