package utils

import (
	"strconv"

	"github.com/buildcrew/crew-management-api/internal/constants"
	"github.com/gin-gonic/gin"
)

// PaginationParams is a validated page request. Offset is derived, not
// stored, so the two fields can never disagree.
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads page and limit from the query string, falling
// back to defaults and clamping out-of-range values.
func GetPaginationParams(c *gin.Context) PaginationParams {
	params := PaginationParams{
		Page:  atoiDefault(c.Query("page"), constants.MinPageSize),
		Limit: atoiDefault(c.Query("limit"), constants.DefaultPageSize),
	}

	if params.Page < constants.MinPageSize {
		params.Page = constants.MinPageSize
	}
	if params.Limit < constants.MinPageSize || params.Limit > constants.MaxPageSize {
		params.Limit = constants.DefaultPageSize
	}

	return params
}

func atoiDefault(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
