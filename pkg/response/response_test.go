package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ecofinds/pkg/errors"
)

func newContext(debug bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Debug = debug
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorMapsAppErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.NotFound("Product", nil), http.StatusNotFound, "NOT_FOUND"},
		{apperrors.Conflict("Cart is empty"), http.StatusBadRequest, "CONFLICT"},
		{apperrors.Forbidden("Not authorized", nil), http.StatusForbidden, "FORBIDDEN"},
		{apperrors.Unauthorized("Invalid credentials", nil), http.StatusUnauthorized, "UNAUTHORIZED"},
		{apperrors.ServiceUnavailable("Image storage is not configured"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, rec := newContext(false)
			require.NoError(t, Error(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["timestamp"])
		})
	}
}

func TestErrorValidationDetails(t *testing.T) {
	type request struct {
		Title      string `validate:"required"`
		CategoryID uint   `validate:"required"`
	}
	err := validator.New().Struct(request{})
	require.Error(t, err)

	c, rec := newContext(false)
	require.NoError(t, Error(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	details, ok := body["details"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, "title", details[0].(map[string]interface{})["field"])
	assert.Equal(t, "category_id", details[1].(map[string]interface{})["field"])
}

func TestErrorHidesInternalDetailsOutsideDebug(t *testing.T) {
	c, rec := newContext(false)
	require.NoError(t, Error(c, errors.New("connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, decode(t, rec)["details"])

	c, rec = newContext(true)
	require.NoError(t, Error(c, errors.New("connection refused")))
	assert.Equal(t, "connection refused", decode(t, rec)["details"])
}

func TestErrorHandlerUsesEnvelope(t *testing.T) {
	c, rec := newContext(false)
	ErrorHandler(echo.ErrNotFound, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Not Found", body["error"])
}

func TestPaginated(t *testing.T) {
	c, rec := newContext(false)
	require.NoError(t, Paginated(c, []int{1, 2}, 45, 2, 20))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total_pages"])
	assert.Equal(t, true, pagination["has_next"])
	assert.Equal(t, true, pagination["has_prev"])
	assert.Len(t, data["items"], 2)
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "category_id", toSnake("CategoryID"))
	assert.Equal(t, "image_url", toSnake("ImageURL"))
	assert.Equal(t, "min_price", toSnake("MinPrice"))
	assert.Equal(t, "title", toSnake("Title"))
}
