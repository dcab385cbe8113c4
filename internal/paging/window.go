package paging

// Window returns the 1-based page numbers to render as navigation links for
// a zero-based current page. The window holds at most limit pages and stays
// centred on current, widening to the right when clipped at the first page
// and to the left when clipped at the last. An empty slice is returned when
// there are no pages.
//
// limit should be odd; an even limit can yield limit+1 pages mid-list.
func Window(current, totalPages, limit int) []int {
	if limit <= 0 {
		limit = DefaultWindowLimit
	}
	half := limit / 2
	ceilHalf := (limit + 1) / 2

	minDeviation := 0
	if current-half <= 0 {
		minDeviation = ceilHalf - current
	}
	end := min(current+half+minDeviation, totalPages)

	maxDeviation := 0
	if totalPages-(current+half+minDeviation) < 0 {
		maxDeviation = half - (totalPages - current)
	}
	start := max(current-(half+maxDeviation), 1)

	pages := make([]int, 0, max(end-start+1, 0))
	for page := start; page <= end; page++ {
		pages = append(pages, page)
	}
	return pages
}
