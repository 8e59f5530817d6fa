package pagination

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/usertable/internal/table"
)

// ColumnSorter validates sort and filter fields against a column schema.
type ColumnSorter struct {
	sortable   map[string]bool
	filterable map[string]bool
}

// NewColumnSorter creates a ColumnSorter for columns.
func NewColumnSorter(columns []table.Column) *ColumnSorter {
	s := &ColumnSorter{
		sortable:   make(map[string]bool, len(columns)),
		filterable: make(map[string]bool, len(columns)),
	}
	for _, col := range columns {
		s.sortable[col.ID] = col.EnableSorting
		s.filterable[col.ID] = col.EnableColumnFilter
	}
	return s
}

// IsValidField checks if the field is valid for sorting.
func (s *ColumnSorter) IsValidField(field string) bool {
	return s.sortable[field]
}

// IsValidFilterField checks if the field accepts a column filter.
func (s *ColumnSorter) IsValidFilterField(field string) bool {
	return s.filterable[field]
}

// GetValidFields returns all valid sort fields.
func (s *ColumnSorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.sortable))
	for field, ok := range s.sortable {
		if ok {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Apply validates p against the controller's columns and replays it as
// controller mutations: filters, then sort, then page size, then page.
// The page is clamped by the controller, so a page past the end lands on
// the last page.
func Apply(ctrl *table.Controller, p PaginationParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	sorter := NewColumnSorter(ctrl.Columns())

	field, order, err := ParseSort(p.Sort)
	if err != nil {
		return err
	}
	if field != "" && !sorter.IsValidField(field) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(sorter.GetValidFields(), ", "))
	}

	filters := make(map[string]string, len(p.ColumnFilters))
	for _, expr := range p.ColumnFilters {
		f, v, parseErr := ParseColumnFilter(expr)
		if parseErr != nil {
			return parseErr
		}
		if !sorter.IsValidFilterField(f) {
			return fmt.Errorf("%w: %q", ErrInvalidFilterField, f)
		}
		filters[f] = v
	}

	ctrl.SetGlobalFilter(p.Search)
	for f, v := range filters {
		ctrl.SetColumnFilter(f, v)
	}

	dir := table.Ascending
	if order == SortOrderDesc {
		dir = table.Descending
	}
	ctrl.SetSorting(field, dir)

	if p.PageSize > 0 {
		ctrl.SetPageSize(p.PageSize)
	}
	ctrl.SetPageIndex(p.Page - 1)
	return nil
}
