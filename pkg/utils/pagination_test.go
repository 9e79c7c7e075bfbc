package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paginationCtx(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetPaginationFromCtx(t *testing.T) {
	p, err := GetPaginationFromCtx(paginationCtx(t, "page=3&size=20&orderBy=title"))
	require.NoError(t, err)
	assert.Equal(t, 3, p.GetPage())
	assert.Equal(t, 20, p.GetSize())
	assert.Equal(t, "title", p.GetOrderBy())
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, 20, p.GetLimit())
}

func TestGetPaginationDefaults(t *testing.T) {
	p, err := GetPaginationFromCtx(paginationCtx(t, ""))
	require.NoError(t, err)
	assert.Equal(t, defaultSize, p.GetSize())
	assert.Equal(t, 0, p.GetOffset())
}

func TestGetPaginationInvalidValues(t *testing.T) {
	_, err := GetPaginationFromCtx(paginationCtx(t, "size=abc"))
	assert.Error(t, err)

	_, err = GetPaginationFromCtx(paginationCtx(t, "page=abc"))
	assert.Error(t, err)
}

func TestGetHasMore(t *testing.T) {
	assert.True(t, GetHasMore(1, 25, 10))
	assert.True(t, GetHasMore(2, 25, 10))
	assert.False(t, GetHasMore(3, 25, 10))
	assert.False(t, GetHasMore(1, 5, 10))
}

func TestGetTotalPages(t *testing.T) {
	assert.Equal(t, 3, GetTotalPages(25, 10))
	assert.Equal(t, 1, GetTotalPages(1, 10))
}
