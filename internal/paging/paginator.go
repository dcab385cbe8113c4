package paging

// Paginator holds the live filter query and current page index of one list.
// Every read re-derives the filtered list and page count from the items, so
// replacing the items or changing the query never leaves stale state behind.
//
// The zero value is not usable; create one with New.
type Paginator[T Named] struct {
	items    []T
	query    string
	pageSize int
	current  int
}

// New returns a Paginator with the given page size. A non-positive size uses
// DefaultPageSize.
func New[T Named](pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{pageSize: pageSize}
}

// SetItems replaces the full list. The current index is kept and re-clamped
// on the next read.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = items
}

// SetQuery changes the live filter.
func (p *Paginator[T]) SetQuery(query string) {
	p.query = query
}

// Query returns the live filter.
func (p *Paginator[T]) Query() string {
	return p.query
}

// PageSize returns the number of items per page.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// All returns the unfiltered list.
func (p *Paginator[T]) All() []T {
	return p.items
}

// Filtered returns the items matching the live query.
func (p *Paginator[T]) Filtered() []T {
	return Filter(p.items, p.query)
}

// TotalPages returns the page count of the filtered list.
func (p *Paginator[T]) TotalPages() int {
	return TotalPages(len(p.Filtered()), p.pageSize)
}

// Page clamps and returns the current zero-based page index.
func (p *Paginator[T]) Page() int {
	p.current = ClampCurrentPage(p.current, p.TotalPages())
	return p.current
}

// Items returns the current page of the filtered list.
func (p *Paginator[T]) Items() []T {
	page := p.Page()
	return CurrentSlice(p.Filtered(), page, p.pageSize)
}

// Window returns the page numbers to render around the current page.
func (p *Paginator[T]) Window(limit int) []int {
	return Window(p.Page(), p.TotalPages(), limit)
}

// First moves to the first page.
func (p *Paginator[T]) First() {
	p.current = 0
}

// Prev moves back one page when not already on the first.
func (p *Paginator[T]) Prev() {
	if p.current > 0 {
		p.current--
	}
}

// Next moves forward one page when not already on the last.
func (p *Paginator[T]) Next() {
	if p.current < p.TotalPages()-1 {
		p.current++
	}
}

// Last moves to the last page.
func (p *Paginator[T]) Last() {
	p.current = p.TotalPages() - 1
}

// GoTo moves to a 1-based page number as produced by Window. It does not
// bounds-check.
func (p *Paginator[T]) GoTo(pageNumber int) {
	p.current = pageNumber - 1
}
