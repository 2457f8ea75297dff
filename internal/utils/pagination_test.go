// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, "created_at", params.SortBy)
	assert.Equal(t, "desc", params.SortOrder)
}

func TestGetPaginationParamsClamps(t *testing.T) {
	params := paramsForQuery(t, "page=-2&limit=500&sortOrder=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, "desc", params.SortOrder)

	params = paramsForQuery(t, "page=3&limit=25&sortBy=title&sortOrder=asc&search=watch")
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, "title", params.SortBy)
	assert.Equal(t, "asc", params.SortOrder)
	assert.Equal(t, "watch", params.Search)
}

func TestCreatePaginationResult(t *testing.T) {
	params := PaginationParams{Page: 2, Limit: 10}
	result := CreatePaginationResult([]string{"a"}, 25, params)

	assert.Equal(t, 2, result.CurrentPage)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, int64(25), result.TotalItems)
	assert.True(t, result.HasNextPage)
	assert.True(t, result.HasPrevPage)

	last := CreatePaginationResult(nil, 25, PaginationParams{Page: 3, Limit: 10})
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)

	first := CreatePaginationResult(nil, 0, PaginationParams{Page: 1, Limit: 10})
	assert.Equal(t, 0, first.TotalPages)
	assert.False(t, first.HasNextPage)
	assert.False(t, first.HasPrevPage)
}
