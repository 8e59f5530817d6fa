package pagination

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
)

func sampleRecords(n int) []source.Record {
	cities := []string{"Gwenborough", "Wisokyburgh", "McKenziehaven"}
	records := make([]source.Record, n)
	for i := range n {
		records[i] = source.Record{
			"id":      json.Number(fmt.Sprint(i + 1)),
			"name":    fmt.Sprintf("User %02d", i+1),
			"address": map[string]any{"city": cities[i%len(cities)]},
		}
	}
	return records
}

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr error
	}{
		{name: "valid default", params: *NewPaginationParams()},
		{name: "valid full", params: PaginationParams{Page: 2, PageSize: 8, Sort: "name:desc", Search: "x", ColumnFilters: []string{"address.city=Gw"}}},
		{name: "zero page", params: PaginationParams{Page: 0}, wantErr: ErrInvalidPage},
		{name: "negative page-size", params: PaginationParams{Page: 1, PageSize: -1}, wantErr: ErrInvalidPageSize},
		{name: "huge page-size", params: PaginationParams{Page: 1, PageSize: MaxPageSize + 1}, wantErr: ErrInvalidPageSize},
		{name: "bad sort order", params: PaginationParams{Page: 1, Sort: "name:up"}, wantErr: ErrInvalidSortOrder},
		{name: "bad filter", params: PaginationParams{Page: 1, ColumnFilters: []string{"name"}}, wantErr: ErrInvalidFilterFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		sortStr   string
		wantField string
		wantOrder string
		wantErr   bool
	}{
		{name: "empty", sortStr: "", wantField: DefaultSortField, wantOrder: DefaultSortOrder},
		{name: "field only", sortStr: "name", wantField: "name", wantOrder: "asc"},
		{name: "nested field desc", sortStr: "address.city:DESC", wantField: "address.city", wantOrder: "desc"},
		{name: "invalid format", sortStr: "field:order:extra", wantErr: true},
		{name: "empty field", sortStr: ":asc", wantErr: true},
		{name: "invalid order", sortStr: "name:invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, order, err := ParseSort(tt.sortStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantField, field)
				assert.Equal(t, tt.wantOrder, order)
			}
		})
	}
}

func TestParseColumnFilter(t *testing.T) {
	field, value, err := ParseColumnFilter("address.city=South Elvis")
	require.NoError(t, err)
	assert.Equal(t, "address.city", field)
	assert.Equal(t, "South Elvis", value)

	field, value, err = ParseColumnFilter(" email =a=b")
	require.NoError(t, err)
	assert.Equal(t, "email", field)
	assert.Equal(t, "a=b", value)

	_, value, err = ParseColumnFilter("name=")
	require.NoError(t, err)
	assert.Empty(t, value)

	_, _, err = ParseColumnFilter("=x")
	assert.ErrorIs(t, err, ErrInvalidFilterFormat)
	_, _, err = ParseColumnFilter("name")
	assert.ErrorIs(t, err, ErrInvalidFilterFormat)
}

func TestColumnSorter(t *testing.T) {
	cols := table.UserColumns()
	cols[0].EnableSorting = false
	s := NewColumnSorter(cols)

	assert.False(t, s.IsValidField("id"))
	assert.True(t, s.IsValidField("company.name"))
	assert.False(t, s.IsValidField("website"))
	assert.True(t, s.IsValidFilterField("id"))
	assert.Equal(t, []string{"address.city", "company.name", "email", "name", "phone"}, s.GetValidFields())
}

func TestApply(t *testing.T) {
	t.Run("FullParams", func(t *testing.T) {
		ctrl := table.New(table.UserColumns())
		ctrl.SetData(sampleRecords(12))

		err := Apply(ctrl, PaginationParams{
			Page:          2,
			PageSize:      2,
			Sort:          "name:desc",
			ColumnFilters: []string{"address.city=gwen"},
		})
		require.NoError(t, err)

		// Gwenborough users: 1, 4, 7, 10 -> desc by name: 10, 7, 4, 1.
		rows := ctrl.Rows()
		require.Len(t, rows, 2)
		assert.Equal(t, "4", rows[0].ID)
		assert.Equal(t, "1", rows[1].ID)
		assert.Equal(t, 1, ctrl.PageIndex())
	})

	t.Run("PagePastEndClamps", func(t *testing.T) {
		ctrl := table.New(table.UserColumns())
		ctrl.SetData(sampleRecords(12))

		require.NoError(t, Apply(ctrl, PaginationParams{Page: 99}))
		assert.Equal(t, 2, ctrl.PageIndex())
	})

	t.Run("Search", func(t *testing.T) {
		ctrl := table.New(table.UserColumns())
		ctrl.SetData(sampleRecords(12))

		require.NoError(t, Apply(ctrl, PaginationParams{Page: 1, Search: "user 1"}))
		assert.Equal(t, 3, ctrl.FilteredCount()) // User 10, User 11, User 12
	})

	t.Run("InvalidSortField", func(t *testing.T) {
		ctrl := table.New(table.UserColumns())
		err := Apply(ctrl, PaginationParams{Page: 1, Sort: "website"})
		require.ErrorIs(t, err, ErrInvalidSortField)
		assert.Contains(t, err.Error(), "address.city")
	})

	t.Run("InvalidFilterField", func(t *testing.T) {
		ctrl := table.New(table.UserColumns())
		err := Apply(ctrl, PaginationParams{Page: 1, ColumnFilters: []string{"website=x"}})
		assert.ErrorIs(t, err, ErrInvalidFilterField)
	})
}

func TestNewPaginationMeta(t *testing.T) {
	ctrl := table.New(table.UserColumns())
	ctrl.SetData(sampleRecords(12))
	ctrl.NextPage()

	meta := NewPaginationMeta(ctrl.Snapshot())
	assert.Equal(t, PaginationMeta{
		CurrentPage: 2,
		PageSize:    5,
		TotalPages:  3,
		TotalItems:  12,
		HasPrevious: true,
		HasNext:     true,
	}, meta)

	t.Run("Loading", func(t *testing.T) {
		meta := NewPaginationMeta(table.New(table.UserColumns()).Snapshot())
		assert.Equal(t, 1, meta.CurrentPage)
		assert.Equal(t, 1, meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.False(t, meta.HasPrevious)
	})
}
