package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-task-api/internal/constants"
)

// PaginationParams holds the pagination parameters. A zero Limit means "no pagination requested".
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Requested reports whether the caller asked for a page.
func (p PaginationParams) Requested() bool {
	return p.Limit > 0
}

// GetPaginationParams extracts and validates pagination parameters from the request.
// Without page or limit query parameters the zero value is returned.
func GetPaginationParams(c *gin.Context) PaginationParams {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}
