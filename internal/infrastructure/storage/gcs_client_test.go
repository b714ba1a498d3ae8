package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectURL(t *testing.T) {
	name, err := ParseObjectURL("https://storage.googleapis.com/eco-bucket/public/products/a.jpg", "eco-bucket")
	require.NoError(t, err)
	assert.Equal(t, "public/products/a.jpg", name)

	for _, url := range []string{
		"https://storage.googleapis.com/other-bucket/public/products/a.jpg",
		"https://example.com/eco-bucket/a.jpg",
		"https://storage.googleapis.com/eco-bucket/",
		"",
	} {
		_, err := ParseObjectURL(url, "eco-bucket")
		assert.ErrorIs(t, err, ErrForeignObject, url)
	}
}

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)

	name := ObjectName(ProductFolder, "image/png", now)
	assert.True(t, strings.HasPrefix(name, "public/products/"))
	assert.True(t, strings.HasSuffix(name, "-20240301102030.png"))

	assert.True(t, strings.HasSuffix(ObjectName("x/", "image/jpeg", now), ".jpg"))
	assert.True(t, strings.HasSuffix(ObjectName("x", "image/webp", now), ".webp"))
	assert.True(t, strings.HasSuffix(ObjectName("x", "text/plain", now), ".bin"))
}
