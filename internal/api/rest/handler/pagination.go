package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxPageSize bounds ?page_size.
const MaxPageSize = 100

// PaginationParams holds the requested page. Zero means the client left the
// value out and the query service default applies.
type PaginationParams struct {
	Page     int
	PageSize int
}

// ParsePagination reads ?page and ?page_size. Missing, malformed or
// non-positive values are left at zero; page_size is capped at MaxPageSize.
func ParsePagination(c *gin.Context) PaginationParams {
	page := positiveQuery(c, "page")
	pageSize := positiveQuery(c, "page_size")
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
	}
}

func positiveQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Pagination is the pagination block of a paged response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
