// Package pagination turns CLI and form parameters into table controller
// mutations and reports the resulting page as metadata.
//
// It contains:
//   - PaginationParams: page, page size, sort, search and column filter
//     parsing and validation
//   - ColumnSorter: sort field validation against the column schema
//   - PaginationMeta: response metadata for a rendered page
package pagination
