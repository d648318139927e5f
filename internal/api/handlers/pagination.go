package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginatedResult is the list envelope returned by collection endpoints.
type PaginatedResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

// paginate slices items for the requested page and wraps them in the list
// envelope.
func paginate[T any](items []T, page, size int) PaginatedResult[T] {
	total := len(items)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return PaginatedResult[T]{
		Items:      items[start:end],
		TotalCount: total,
		PageNumber: page,
		PageSize:   size,
	}
}
