package store

// DefaultPerPage is the number of readers shown per explore page.
const DefaultPerPage = 5

// MaxPerPage caps the page size a caller can request.
const MaxPerPage = 100

// PageParams contains page-numbered pagination request parameters.
// Page numbers are 1-based.
type PageParams struct {
	Page    int // 1-based page number
	PerPage int // Items per page (defaults to DefaultPerPage)
}

// DefaultPageParams returns sensible defaults.
func DefaultPageParams() PageParams {
	return PageParams{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Validate checks and corrects pagination parameters.
func (p *PageParams) Validate() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset returns the SQL offset for the page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PaginatedResult contains one page of data and its metadata.
type PaginatedResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginatedResult assembles a result, deriving TotalPages by ceiling
// division. An empty collection still has one (empty) page.
func NewPaginatedResult[T any](items []T, params PageParams, total int) PaginatedResult[T] {
	totalPages := (total + params.PerPage - 1) / params.PerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if items == nil {
		items = []T{}
	}
	return PaginatedResult[T]{
		Items:      items,
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// HasNext reports whether a later page exists.
func (r PaginatedResult[T]) HasNext() bool {
	return r.Page < r.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (r PaginatedResult[T]) HasPrev() bool {
	return r.Page > 1
}
