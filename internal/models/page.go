package models

// Upper bounds for a page request. Anything past them is clamped so the
// offset always fits the SQL OFFSET clause.
const (
	MaxPage    = 1_000_000
	MaxPerPage = 100
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize clamps the request to a valid page.
func (p PageRequest) Normalize(defaultPerPage int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the number of rows to skip. It is never negative.
func (p PageRequest) Offset() int {
	n := p.Normalize(1)
	return (n.Page - 1) * n.PerPage
}

// Page is the pagination envelope returned by listings
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// MapPage converts every row of p with fn, keeping the pagination fields
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	data := make([]U, 0, len(p.Data))
	for _, row := range p.Data {
		data = append(data, fn(row))
	}
	return Page[U]{
		Data:        data,
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
	}
}

// NewPage builds the envelope for one page of results out of total rows.
func NewPage[T any](data []T, req PageRequest, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := 1
	if req.PerPage > 0 && total > 0 {
		lastPage = (total + req.PerPage - 1) / req.PerPage
	}
	return Page[T]{
		Data:        data,
		CurrentPage: req.Page,
		LastPage:    lastPage,
		PerPage:     req.PerPage,
		Total:       total,
	}
}
