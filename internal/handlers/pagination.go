package handlers

import (
	"strconv"

	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// listResponse is the envelope returned by every paged list endpoint.
type listResponse struct {
	Total      int64 `json:"total"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	Items      any   `json:"items"`
}

// parseListParams reads pagination, filter and sort query parameters.
// Page numbers below 1 are rejected by the caller via ok=false.
func parseListParams(c *gin.Context) (repository.ListParams, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	if err != nil {
		return repository.ListParams{}, false
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		return repository.ListParams{}, false
	}
	if page < 1 || pageSize < 1 {
		return repository.ListParams{}, false
	}

	return repository.ListParams{
		Page:     page,
		PageSize: pageSize,
		Filter:   c.Query("filter"),
		SortBy:   c.Query("sortBy"),
	}, true
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
