package paging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id   int
	name string
}

func (i item) DisplayName() string { return i.name }

func makeItems(n int) []item {
	items := make([]item, n)
	for i := range items {
		items[i] = item{id: i + 1, name: fmt.Sprintf("design-%02d", i+1)}
	}
	return items
}

func TestFilter(t *testing.T) {
	items := []item{
		{1, "Benchy"},
		{2, "benchy remix"},
		{3, "Calibration Cube"},
		{4, "Cube Benchy"},
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"empty query keeps all", "", []int{1, 2, 3, 4}},
		{"case sensitive", "Benchy", []int{1, 4}},
		{"lowercase", "benchy", []int{2}},
		{"substring in the middle", "ration", []int{3}},
		{"no match", "Voron", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.query)
			ids := make([]int, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.id)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilter_EmptyQueryReturnsSameSlice(t *testing.T) {
	items := makeItems(3)
	got := Filter(items, "")
	require.Len(t, got, 3)
	assert.Same(t, &items[0], &got[0])
}

func TestFilter_Idempotent(t *testing.T) {
	items := makeItems(25)
	for _, q := range []string{"", "design", "-1", "-2", "x"} {
		once := Filter(items, q)
		twice := Filter(once, q)
		assert.Equal(t, once, twice, "query %q", q)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
		{10, 1, 10},
		{3, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n, tt.size), "TotalPages(%d, %d)", tt.n, tt.size)
	}
}

func TestTotalPages_MatchesCeil(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for n := 0; n <= 50; n++ {
			want := (n + size - 1) / size
			got := TotalPages(n, size)
			assert.Equal(t, want, got, "n=%d size=%d", n, size)
			assert.GreaterOrEqual(t, got, 0)
		}
	}
}

func TestClampCurrentPage(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           int
	}{
		{"in range", 1, 3, 1},
		{"zero", 0, 3, 0},
		{"unset", -1, 3, 0},
		{"no pages", 4, 0, 0},
		{"no pages unset", -1, 0, 0},
		{"past end keeps off-by-one", 5, 3, 3},
		{"at end keeps off-by-one", 3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampCurrentPage(tt.current, tt.total))
		})
	}
}

func TestCurrentSlice(t *testing.T) {
	items := makeItems(12)

	assert.Len(t, CurrentSlice(items, 0, 5), 5)
	assert.Len(t, CurrentSlice(items, 1, 5), 5)

	last := CurrentSlice(items, 2, 5)
	require.Len(t, last, 2)
	assert.Equal(t, 11, last[0].id)
	assert.Equal(t, 12, last[1].id)

	assert.Empty(t, CurrentSlice(items, 3, 5))
	assert.Empty(t, CurrentSlice(items, -1, 5))
	assert.Empty(t, CurrentSlice([]item{}, 0, 5))
	assert.NotNil(t, CurrentSlice([]item{}, 0, 5))
}

func TestCurrentSlice_PageSizes(t *testing.T) {
	for size := 1; size <= 6; size++ {
		for n := 1; n <= 30; n++ {
			items := makeItems(n)
			total := TotalPages(n, size)
			for page := 0; page < total; page++ {
				got := CurrentSlice(items, page, size)
				if page < total-1 {
					assert.Len(t, got, size, "n=%d size=%d page=%d", n, size, page)
				} else {
					assert.Len(t, got, n-(total-1)*size, "n=%d size=%d last page", n, size)
				}
			}
		}
	}
}

func TestScenario_TwelveItemsPageSizeFive(t *testing.T) {
	items := makeItems(12)
	total := TotalPages(len(items), 5)
	require.Equal(t, 3, total)
	assert.Len(t, CurrentSlice(items, 2, 5), 2)
}

func TestScenario_ZeroPages(t *testing.T) {
	for _, current := range []int{-3, 0, 1, 9} {
		clamped := ClampCurrentPage(current, 0)
		assert.Equal(t, 0, clamped)
		assert.Empty(t, CurrentSlice([]item{}, clamped, 5))
	}
}
