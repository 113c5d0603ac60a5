package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains the store-assigned fields every record carries.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// ListQuery is the filter state sent to a repository.
type ListQuery struct {
	Page       int    `json:"page" form:"page"`
	PageSize   int    `json:"page_size" form:"page_size"`
	SearchTerm string `json:"search" form:"search"`
}

// Normalize fills defaults and caps the page size. maxPageSize <= 0 means no cap.
func (q ListQuery) Normalize(maxPageSize int) ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if maxPageSize > 0 && q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

// Offset is the zero-based row offset of the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page is one window of a listing plus the total matching the filter.
type Page[T any] struct {
	Rows  []T   `json:"rows"`
	Total int64 `json:"total"`
}

// TotalPages returns the number of pages for total rows at pageSize.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Assignment is one column = value pair of a partial update.
type Assignment struct {
	Column string
	Value  interface{}
}

func assignString(out []Assignment, column string, v *string) []Assignment {
	if v == nil {
		return out
	}
	return append(out, Assignment{Column: column, Value: *v})
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
