package table

import (
	"github.com/rshade/usertable/internal/source"
)

// Column is one entry of the static column schema.
type Column struct {
	// ID is the field path the column reads, e.g. "address.city".
	ID string

	// Header is the display label.
	Header string

	// Accessor extracts the raw value from a record. It is resolved once when
	// the column is defined.
	Accessor func(source.Record) any

	// Cell turns the raw value into display text.
	Cell func(any) string

	EnableSorting      bool
	EnableColumnFilter bool
}

// AccessorColumn builds a sortable, filterable column reading the dotted
// field path id, rendered with source.DisplayValue.
func AccessorColumn(id, header string) Column {
	parts := source.SplitPath(id)
	return Column{
		ID:     id,
		Header: header,
		Accessor: func(r source.Record) any {
			v, _ := r.LookupParts(parts)
			return v
		},
		Cell:               source.DisplayValue,
		EnableSorting:      true,
		EnableColumnFilter: true,
	}
}

// Value returns the raw value of the column for r.
func (c Column) Value(r source.Record) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(r)
}

// Display returns the rendered cell text for r.
func (c Column) Display(r source.Record) string {
	v := c.Value(r)
	if c.Cell == nil {
		return source.DisplayValue(v)
	}
	return c.Cell(v)
}

// UserColumns returns the user table schema in display order.
func UserColumns() []Column {
	return []Column{
		AccessorColumn("id", "ID"),
		AccessorColumn("name", "Name"),
		AccessorColumn("email", "Email"),
		AccessorColumn("address.city", "City"),
		AccessorColumn("company.name", "Company"),
		AccessorColumn("phone", "Phone"),
	}
}
