// Package paging filters and paginates the design and print-file lists shown
// by astrodeck, and computes which page-number buttons to render.
package paging

import "strings"

// Named is implemented by list items that can be filtered by a display name.
type Named interface {
	DisplayName() string
}

// Defaults used by both lists.
const (
	DefaultPageSize    = 5
	DefaultWindowLimit = 5
)

// Filter returns the items whose display name contains query. Matching is
// case-sensitive. An empty query returns items unchanged.
func Filter[T Named](items []T, query string) []T {
	if query == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(item.DisplayName(), query) {
			out = append(out, item)
		}
	}
	return out
}

// TotalPages returns ceil(filteredLen / pageSize), never negative.
func TotalPages(filteredLen, pageSize int) int {
	if pageSize <= 0 || filteredLen <= 0 {
		return 0
	}
	pages := filteredLen / pageSize
	if filteredLen%pageSize > 0 {
		pages++
	}
	return pages
}

// ClampCurrentPage brings current back into range after the list changed.
//
// An index at or past totalPages becomes totalPages, not totalPages-1, which
// leaves the current page empty. Callers rely on that (an emptied page after a
// narrowing filter), so it is kept as is. An unset index (zero or negative)
// becomes 0.
func ClampCurrentPage(current, totalPages int) int {
	if current >= totalPages {
		return totalPages
	}
	if current <= 0 {
		return 0
	}
	return current
}

// CurrentSlice returns the page at index from filtered. Out of range indexes
// yield an empty slice.
func CurrentSlice[T any](filtered []T, index, pageSize int) []T {
	if index < 0 || pageSize <= 0 {
		return []T{}
	}
	first := index * pageSize
	if first >= len(filtered) {
		return []T{}
	}
	last := min(first+pageSize, len(filtered))
	return filtered[first:last]
}
