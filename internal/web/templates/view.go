// Package templates holds the HTML views of the web front-end. The *.templ
// files are the sources; *_templ.go files are generated by `templ generate`.
package templates

import "github.com/rshade/usertable/internal/table"

// PageView is everything the index page needs.
type PageView struct {
	Snap       table.Snapshot
	Search     string
	NameFilter string
	PageLabel  string
	Options    []int
}

// Loading reports whether the page should refresh itself.
func (v PageView) Loading() bool {
	return v.Snap.Phase == table.PhaseLoading
}

// Inert reports whether controls are disabled.
func (v PageView) Inert() bool {
	return v.Snap.Phase == table.PhaseError
}

type pagerButton struct {
	Action  string
	Label   string
	Enabled bool
}

func (v PageView) pagerButtons() []pagerButton {
	return []pagerButton{
		{"first", "«", v.Snap.CanPreviousPage},
		{"previous", "‹", v.Snap.CanPreviousPage},
		{"next", "›", v.Snap.CanNextPage},
		{"last", "»", v.Snap.CanNextPage},
	}
}

// sortState maps a header's direction to an aria-sort value.
func sortState(h table.Header) string {
	switch h.Direction {
	case table.Ascending:
		return "ascending"
	case table.Descending:
		return "descending"
	default:
		return "none"
	}
}
