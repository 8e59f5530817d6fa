package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/usertable/internal/source"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		filtered, size, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
		{10, 1, 10},
		{3, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.filtered, tt.size), "PageCount(%d, %d)", tt.filtered, tt.size)
	}
}

func TestClampPageIndex(t *testing.T) {
	assert.Equal(t, 0, ClampPageIndex(-1, 3))
	assert.Equal(t, 2, ClampPageIndex(7, 3))
	assert.Equal(t, 1, ClampPageIndex(1, 3))
	assert.Equal(t, 0, ClampPageIndex(4, 0))
}

func TestPageWindow(t *testing.T) {
	start, end := PageWindow(12, 2, 5)
	assert.Equal(t, 10, start)
	assert.Equal(t, 12, end)

	start, end = PageWindow(12, 3, 5)
	assert.Equal(t, start, end)

	start, end = PageWindow(0, 0, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestFilterRecords_CaseFolding(t *testing.T) {
	records := []source.Record{
		{"name": "STRASSE"},
		{"name": "Straße"},
		{"name": "Other"},
	}
	state := DefaultViewState()
	state.GlobalFilter = "strasse"

	got := FilterRecords(records, UserColumns(), []string{"name"}, state)
	assert.Equal(t, []int{0, 1}, got)
}

func TestFilterRecords_NonColumnGlobalField(t *testing.T) {
	records := []source.Record{
		{"name": "a", "username": "Bret"},
		{"name": "b", "username": "Antonette"},
	}
	state := DefaultViewState()
	state.GlobalFilter = "ton"

	assert.Equal(t, []int{1}, FilterRecords(records, UserColumns(), []string{"username"}, state))
}

func TestSortRecords_MixedValues(t *testing.T) {
	records := []source.Record{
		{"id": json.Number("10"), "name": "beta"},
		{"id": json.Number("9"), "name": "Alpha"},
		{"id": json.Number("100"), "name": "alpha"},
	}
	idx := []int{0, 1, 2}

	SortRecords(idx, records, UserColumns(), []SortSpec{{Field: "id", Direction: Ascending}})
	assert.Equal(t, []int{1, 0, 2}, idx, "json numbers compare as numbers")

	idx = []int{0, 1, 2}
	SortRecords(idx, records, UserColumns(), []SortSpec{{Field: "name", Direction: Ascending}})
	assert.Equal(t, []int{1, 2, 0}, idx, "case-insensitive ties keep input order")

	idx = []int{0, 1, 2}
	SortRecords(idx, records, UserColumns(), []SortSpec{{Field: "unknown", Direction: Ascending}})
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestSortRecords_NumericLookingTextSortsAsText(t *testing.T) {
	records := []source.Record{
		{"name": "Nan"},
		{"name": "Adam"},
		{"name": "Inf"},
		{"name": "1e3"},
		{"name": "10"},
		{"name": "9"},
		{"name": "1a"},
	}
	idx := []int{0, 1, 2, 3, 4, 5, 6}

	SortRecords(idx, records, UserColumns(), []SortSpec{{Field: "name", Direction: Ascending}})

	names := make([]string, len(idx))
	for i, j := range idx {
		names[i] = records[j]["name"].(string)
	}
	assert.Equal(t, []string{"10", "1a", "1e3", "9", "Adam", "Inf", "Nan"}, names)
}

func TestFilterRecords_SubstringIsNotTrimmed(t *testing.T) {
	records := []source.Record{
		{"name": "Leanne Graham"},
		{"name": "Bret"},
	}
	state := DefaultViewState()

	state.GlobalFilter = "Graham "
	assert.Empty(t, FilterRecords(records, UserColumns(), []string{"name"}, state))

	state.GlobalFilter = " "
	assert.Equal(t, []int{0}, FilterRecords(records, UserColumns(), []string{"name"}, state))

	state.GlobalFilter = ""
	state.ColumnFilters = map[string]string{"name": " graham"}
	assert.Equal(t, []int{0}, FilterRecords(records, UserColumns(), []string{"name"}, state))
}

func TestDerive_ClampsWithoutMutating(t *testing.T) {
	state := DefaultViewState()
	state.Pagination.PageIndex = 9

	d := Derive(twelveUsers(), UserColumns(), []string{"name"}, state)
	assert.Equal(t, 2, d.PageIndex)
	assert.Equal(t, 3, d.PageCount)
	assert.Len(t, d.Rows, 2)
	assert.Len(t, d.Ordered, 12)
	assert.Equal(t, 9, state.Pagination.PageIndex)
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"":           Ascending,
		"asc":        Ascending,
		"DESC":       Descending,
		"descending": Descending,
	} {
		got, err := ParseDirection(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
