package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Validation limits and defaults.
const (
	DefaultPage      = 1
	MinPage          = 1
	MinPageSize      = 1
	MaxPageSize      = 1000
	DefaultSortField = ""
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage         = errors.New("page must be >= 1")
	ErrInvalidPageSize     = errors.New("page-size must be between 1 and 1000")
	ErrInvalidSortOrder    = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat   = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'name:desc')")
	ErrEmptySortField      = errors.New("sort field cannot be empty")
	ErrInvalidSortField    = errors.New("invalid sort field")
	ErrInvalidFilterFormat = errors.New("invalid filter format: use 'field=value' (e.g., 'address.city=Gwenborough')")
	ErrInvalidFilterField  = errors.New("invalid filter field")
)

// PaginationParams holds the view parameters accepted on the command line.
// A zero PageSize keeps the controller's configured page size.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of rows per page.
	PageSize int

	// Sort is "field" or "field:order".
	Sort string

	// Search is the global filter text.
	Search string

	// ColumnFilters are "field=value" expressions.
	ColumnFilters []string
}

// NewPaginationParams creates a PaginationParams with default values.
func NewPaginationParams() *PaginationParams {
	return &PaginationParams{
		Page: DefaultPage,
		Sort: DefaultSortField,
	}
}

// Validate checks the parameters independently of any column schema.
func (p PaginationParams) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize != 0 && (p.PageSize < MinPageSize || p.PageSize > MaxPageSize) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if _, _, err := ParseSort(p.Sort); err != nil {
		return err
	}
	for _, expr := range p.ColumnFilters {
		if _, _, err := ParseColumnFilter(expr); err != nil {
			return err
		}
	}
	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "name", "address.city:desc", "id:asc"
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}

// ParseColumnFilter parses a "field=value" expression. The value may itself
// contain '=' and may be empty, which clears the filter.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseColumnFilter(expr string) (field, value string, err error) {
	field, value, ok := strings.Cut(expr, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFilterFormat, expr)
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFilterFormat, expr)
	}
	return field, value, nil
}
