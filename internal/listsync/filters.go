// Package listsync keeps a paginated, searchable listing in step with its
// filter state and with the mutations made against it.
package listsync

import (
	"strings"

	"github.com/jwalitptl/insurance-crm/internal/model"
)

// Filters is the in-memory page/search state behind a listing.
type Filters struct {
	Page       int
	PageSize   int
	SearchTerm string

	totalPages int
}

func NewFilters(pageSize int) Filters {
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}
	return Filters{Page: 1, PageSize: pageSize}
}

// SetSearchTerm changes the term and goes back to the first page.
// It reports whether anything changed.
func (f *Filters) SetSearchTerm(term string) bool {
	if term == f.SearchTerm && f.Page == 1 {
		return false
	}
	f.SearchTerm = term
	f.Page = 1
	return true
}

// SetPage moves to p, clamped to [1, totalPages]. With no known page count
// only the lower bound applies.
func (f *Filters) SetPage(p int) bool {
	if p < 1 {
		p = 1
	}
	if f.totalPages > 0 && p > f.totalPages {
		p = f.totalPages
	}
	if p == f.Page {
		return false
	}
	f.Page = p
	return true
}

// SetPageSize changes the page size and goes back to the first page.
func (f *Filters) SetPageSize(n int) bool {
	if n < 1 || (n == f.PageSize && f.Page == 1) {
		return false
	}
	f.PageSize = n
	f.Page = 1
	return true
}

// TotalPages is the page count seen on the last successful fetch.
func (f Filters) TotalPages() int {
	return f.totalPages
}

func (f *Filters) observe(total int64) {
	f.totalPages = model.TotalPages(total, f.PageSize)
}

func (f Filters) Query() model.ListQuery {
	return model.ListQuery{
		Page:       f.Page,
		PageSize:   f.PageSize,
		SearchTerm: strings.TrimSpace(f.SearchTerm),
	}
}
