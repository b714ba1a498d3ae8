package response

import (
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "ecofinds/pkg/errors"
	"github.com/go-playground/validator/v10"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Paginated(c echo.Context, items interface{}, total int64, page, limit int) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Timestamp: now(),
		Data: PaginatedResponse{
			Items:      items,
			Pagination: NewPagination(total, page, limit),
		},
	})
}

// PaginatedWith adds extra top-level keys (for example unread_count) next to
// items and pagination.
func PaginatedWith(c echo.Context, items interface{}, total int64, page, limit int, extra map[string]interface{}) error {
	data := map[string]interface{}{
		"items":      items,
		"pagination": NewPagination(total, page, limit),
	}
	for k, v := range extra {
		data[k] = v
	}
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Timestamp: now(),
		Data:      data,
	})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil {
			c.Logger().Errorf("%s: %v", appErr.Message, appErr.Err)
		}
		return c.JSON(appErr.Status, Response{
			Success:   false,
			Timestamp: now(),
			Error:     appErr.Message,
			Code:      appErr.Code,
			Details:   appErr.Details,
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, Response{
			Success:   false,
			Timestamp: now(),
			Error:     message,
			Code:      codeForStatus(httpErr.Code),
		})
	}

	c.Logger().Errorf("unhandled error: %v", err)
	resp := Response{
		Success:   false,
		Timestamp: now(),
		Error:     "An unexpected error occurred",
		Code:      "INTERNAL_ERROR",
	}
	if c.Echo().Debug {
		resp.Details = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

// ErrorHandler routes errors returned by echo itself (unknown routes, bind
// failures, middleware rejections) through the same envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if writeErr := Error(c, err); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	details := make([]apperrors.FieldError, 0, len(validationErr))
	for _, err := range validationErr {
		field := toSnake(err.Field())
		param := err.Param()

		var message string
		switch err.Tag() {
		case "required":
			message = field + " is required"
		case "min":
			message = field + " must be at least " + param
		case "max":
			message = field + " must be at most " + param
		case "gte":
			message = field + " must be greater than or equal to " + param
		case "gt":
			message = field + " must be greater than " + param
		case "oneof":
			message = field + " must be one of: " + param
		case "email":
			message = field + " must be a valid email address"
		case "alphanum":
			message = field + " must contain only letters and numbers"
		default:
			message = field + " is invalid"
		}
		details = append(details, apperrors.FieldError{Field: field, Message: message})
	}

	message := "Invalid input data"
	if len(details) > 0 {
		message = details[0].Message
	}

	return c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Timestamp: now(),
		Error:     message,
		Code:      "VALIDATION_ERROR",
		Details:   details,
	})
}

func toSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && (isLower(runes[i-1]) || (i+1 < len(runes) && isLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}
