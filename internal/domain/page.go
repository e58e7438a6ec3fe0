package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at MaxPageLimit by NewPaginationParams.
type PaginationParams struct {
	Page  int
	Limit int
}

// Page size bounds for listing endpoints. MaxPage keeps Offset from
// overflowing; larger requested pages are clamped to it and come back empty.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	MaxPage          = math.MaxInt32 / MaxPageLimit
)

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil or non-positive values fall back to page=1, limit=DefaultPageLimit.
// Page is capped at MaxPage.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing together with the total match count.
type Page[T any] struct {
	Items []T
	Total int64
	PaginationParams
}
