// Package table implements the tabular view controller behind every
// usertable presentation.
//
// A Controller holds a static column schema, the fetched record collection
// and a ViewState (global filter, per-column filters, sort order and page
// window). Readers derive the visible page on demand with the pure functions
// in derive.go; nothing is cached between reads.
//
// The controller moves through three phases. It starts in PhaseLoading, goes
// to PhaseReady on SetData and to PhaseError on SetError. Outside the ready
// phase the derived row set is always empty, and in the error phase every
// mutator is ignored.
//
// The page index is clamped after every mutation, so that
//
//	0 <= PageIndex() < PageCount() == max(1, ceil(FilteredCount()/PageSize()))
//
// always holds.
package table
