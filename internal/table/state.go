package table

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultPageSize is the page size a new view starts with.
const DefaultPageSize = 5

// DefaultPageSizeOptions are the page sizes offered by the page-size selector.
func DefaultPageSizeOptions() []int {
	return []int{2, 5, 8, 10}
}

// ErrInvalidDirection is returned when a sort direction cannot be parsed.
var ErrInvalidDirection = errors.New("invalid sort direction")

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection parses "asc" or "desc", case-insensitively.
// An empty string means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: asc, desc)", ErrInvalidDirection, s)
	}
}

// Indicator returns the arrow shown next to a sorted column header.
func (d Direction) Indicator() string {
	switch d {
	case Ascending:
		return "▲"
	case Descending:
		return "▼"
	default:
		return ""
	}
}

// SortSpec is one entry of the sort order.
type SortSpec struct {
	Field     string    `json:"field"     yaml:"field"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Pagination is the current page window.
type Pagination struct {
	PageIndex int `json:"pageIndex" yaml:"pageIndex"`
	PageSize  int `json:"pageSize"  yaml:"pageSize"`
}

// ViewState is the mutable filter, sort and pagination configuration of
// one view.
type ViewState struct {
	GlobalFilter  string            `json:"globalFilter"            yaml:"globalFilter"`
	ColumnFilters map[string]string `json:"columnFilters,omitempty" yaml:"columnFilters,omitempty"`
	Sorting       []SortSpec        `json:"sorting,omitempty"       yaml:"sorting,omitempty"`
	Pagination    Pagination        `json:"pagination"              yaml:"pagination"`
}

// DefaultViewState returns the state of a freshly mounted view.
func DefaultViewState() ViewState {
	return ViewState{
		ColumnFilters: map[string]string{},
		Pagination:    Pagination{PageIndex: 0, PageSize: DefaultPageSize},
	}
}

// Clone returns a deep copy of s.
func (s ViewState) Clone() ViewState {
	out := s
	out.ColumnFilters = maps.Clone(s.ColumnFilters)
	if out.ColumnFilters == nil {
		out.ColumnFilters = map[string]string{}
	}
	out.Sorting = slices.Clone(s.Sorting)
	return out
}
