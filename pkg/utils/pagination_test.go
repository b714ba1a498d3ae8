package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{"12abc", 12, true},
		{"  7", 7, true},
		{"-3", -3, true},
		{"+4x", 4, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"Books", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := LeadingInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPaginationParams(t *testing.T) {
	p := NewPaginationParams(0, 0)
	assert.Equal(t, PaginationParams{Page: 1, PageSize: DefaultPageSize, Offset: 0}, p)

	p = NewPaginationParams(3, 500)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 2*MaxPageSize, p.Offset)
}

func TestGetPaginationParams(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=5", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	p := GetPaginationParams(c)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.PageSize)
	assert.Equal(t, 5, p.Offset)
}

func TestGetPaginationParamsLeadingDigits(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"/?page=2abc&limit=5x", 2, 5},
		{"/?page=abc&limit=", 1, DefaultPageSize},
		{"/?page=-3&limit=500", 1, MaxPageSize},
		{"/?page=%203", 3, DefaultPageSize},
	}
	e := echo.New()
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, tt.query, nil), httptest.NewRecorder())
		p := GetPaginationParams(c)
		assert.Equal(t, tt.page, p.Page, tt.query)
		assert.Equal(t, tt.pageSize, p.PageSize, tt.query)
	}
}

func TestParseID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")

	c.SetParamValues("42")
	id, ok := ParseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c.SetParamValues(bad)
		_, ok := ParseID(c, "id")
		assert.False(t, ok, bad)
	}
}
