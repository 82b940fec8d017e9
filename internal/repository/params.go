package repository

// ListParams carries pagination, filtering and sorting for list queries.
// Page and PageSize are 1-based and validated at the HTTP boundary.
type ListParams struct {
	Page     int
	PageSize int
	Filter   string
	SortBy   string
}

// Offset translates the 1-based page into a row offset.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
