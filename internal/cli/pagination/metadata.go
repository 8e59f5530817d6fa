package pagination

import (
	"github.com/rshade/usertable/internal/table"
)

// PaginationMeta contains metadata about a rendered page.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewPaginationMeta builds metadata from a controller snapshot. TotalItems
// counts filtered rows; CurrentPage is 1-based.
func NewPaginationMeta(snap table.Snapshot) PaginationMeta {
	return PaginationMeta{
		CurrentPage: snap.PageIndex + 1,
		PageSize:    snap.PageSize,
		TotalPages:  snap.PageCount,
		TotalItems:  snap.FilteredCount,
		HasPrevious: snap.CanPreviousPage,
		HasNext:     snap.CanNextPage,
	}
}
