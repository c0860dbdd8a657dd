package models

import "github.com/storeops/opsdash-api/internal/query"

// ListFilter carries a compiled-ready predicate plus paging for list queries.
type ListFilter struct {
	Predicate query.Predicate
	Page      int
	PageSize  int
}

// Offset returns the zero-based row offset for the page.
func (f ListFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
