// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size when the caller does not ask for one.
// Message and photo listings use a larger default (see ParseWithDefault).
const DefaultLimit = 10

// MaxLimit caps the page size a caller can request.
const MaxLimit = 100

// Page is a parsed page/limit pair (1-based page).
type Page struct {
	Page  int
	Limit int
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 { return int64((p.Page - 1) * p.Limit) }

// Limit64 returns the limit as int64 for Mongo Find options.
func (p Page) Limit64() int64 { return int64(p.Limit) }

// Meta is the pagination block of list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Meta computes the response pagination block for a total row count.
func (p Page) Meta(total int64) Meta {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// Parse reads the "page" and "limit" query parameters with the standard
// default limit. Absent or invalid values fall back to page 1 and the
// default.
func Parse(r *http.Request) Page {
	return ParseWithDefault(r, DefaultLimit)
}

// ParseWithDefault is Parse with a caller-chosen default limit.
func ParseWithDefault(r *http.Request, defaultLimit int) Page {
	p := Page{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n >= 1 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Slice pages an in-memory list, for embedded arrays that are paged
// after sorting (discussion messages). It returns the window and leaves
// the input untouched.
func Slice[T any](items []T, p Page) []T {
	start := int(p.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
