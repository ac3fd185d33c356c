package pagination

// DefaultPerPage is used when a caller asks for fewer than one item per page
// and no configured default was supplied.
const DefaultPerPage = 5

type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps page to at least 1 and replaces perPage < 1 with defaultPerPage.
func Normalize(page, perPage, defaultPerPage int) Params {
	if defaultPerPage < 1 {
		defaultPerPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.PerPage
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](items []T, params Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: TotalPages(total, params.PerPage),
	}
}

// TotalPages is ceil(total/perPage).
func TotalPages(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Map converts the items of a page while keeping its counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{
		Items:      items,
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// Contains turns a filter value into a LIKE pattern; an empty value matches everything.
func Contains(value string) string {
	return "%" + value + "%"
}
