package table

import (
	"cmp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rshade/usertable/internal/source"
)

// Row is one rendered row of the derived row set.
type Row struct {
	// ID is the stable row key: the record's id, or its fetch position.
	ID string `json:"id" yaml:"id"`

	// Index is the record's position in the fetched collection.
	Index int `json:"index" yaml:"index"`

	// Cells holds display text in column order.
	Cells []string `json:"cells" yaml:"cells"`

	Record source.Record `json:"-" yaml:"-"`
}

// PageCount returns max(1, ceil(filtered/pageSize)).
func PageCount(filtered, pageSize int) int {
	if pageSize < 1 || filtered <= 0 {
		return 1
	}
	return (filtered + pageSize - 1) / pageSize
}

// ClampPageIndex keeps index inside [0, pageCount).
func ClampPageIndex(index, pageCount int) int {
	if pageCount < 1 {
		pageCount = 1
	}
	return max(0, min(index, pageCount-1))
}

// PageWindow returns the [start, end) slice bounds of page pageIndex over n rows.
func PageWindow(n, pageIndex, pageSize int) (int, int) {
	if pageSize < 1 {
		return 0, 0
	}
	start := pageIndex * pageSize
	if start >= n || start < 0 {
		return n, n
	}
	return start, min(start+pageSize, n)
}

// matcher holds the folded filter terms for one derivation.
type matcher struct {
	fold    cases.Caser
	global  string
	columns map[int]string
}

func newMatcher(state ViewState, columns []Column) *matcher {
	m := &matcher{fold: cases.Fold(), columns: map[int]string{}}
	m.global = m.fold.String(state.GlobalFilter)
	for i, col := range columns {
		if v := state.ColumnFilters[col.ID]; v != "" && col.EnableColumnFilter {
			m.columns[i] = m.fold.String(v)
		}
	}
	return m
}

func (m *matcher) contains(haystack, folded string) bool {
	return strings.Contains(m.fold.String(haystack), folded)
}

// match reports whether r passes the global filter AND every column filter.
func (m *matcher) match(r source.Record, columns []Column, globalFields []fieldReader) bool {
	if m.global != "" {
		found := false
		for _, read := range globalFields {
			if m.contains(read(r), m.global) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for i, term := range m.columns {
		if !m.contains(columns[i].Display(r), term) {
			return false
		}
	}
	return true
}

// fieldReader reads the display text of one field.
type fieldReader func(source.Record) string

// globalReaders resolves the global filter fields against the schema,
// falling back to a raw path lookup for fields without a column.
func globalReaders(fields []string, columns []Column) []fieldReader {
	readers := make([]fieldReader, 0, len(fields))
	for _, field := range fields {
		var read fieldReader
		for _, col := range columns {
			if col.ID == field {
				read = col.Display
				break
			}
		}
		if read == nil {
			parts := source.SplitPath(field)
			read = func(r source.Record) string {
				v, _ := r.LookupParts(parts)
				return source.DisplayValue(v)
			}
		}
		readers = append(readers, read)
	}
	return readers
}

// FilterRecords returns the positions of records passing the filters of
// state, in fetch order.
func FilterRecords(records []source.Record, columns []Column, globalFields []string, state ViewState) []int {
	m := newMatcher(state, columns)
	readers := globalReaders(globalFields, columns)

	out := make([]int, 0, len(records))
	for i, r := range records {
		if m.match(r, columns, readers) {
			out = append(out, i)
		}
	}
	return out
}

// SortRecords stably reorders the positions in idx by sorting. Ties keep
// their relative order in idx, so unsorted fields fall back to fetch order.
func SortRecords(idx []int, records []source.Record, columns []Column, sorting []SortSpec) {
	type key struct {
		col  Column
		desc bool
	}
	keys := make([]key, 0, len(sorting))
	for _, spec := range sorting {
		for _, col := range columns {
			if col.ID == spec.Field {
				keys = append(keys, key{col: col, desc: spec.Direction == Descending})
				break
			}
		}
	}
	if len(keys) == 0 {
		return
	}

	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := records[idx[i]], records[idx[j]]
		for _, k := range keys {
			c := compareValues(coll, k.col, a, b)
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues compares numerically when both raw values are JSON numbers
// and by collation of the display text otherwise. Numeric-looking strings
// such as "NaN" or "1e3" are text.
func compareValues(coll *collate.Collator, col Column, a, b source.Record) int {
	va, vb := col.Value(a), col.Value(b)
	if na, ok := source.NumericValue(va); ok {
		if nb, ok := source.NumericValue(vb); ok {
			return cmp.Compare(na, nb)
		}
	}
	return coll.CompareString(col.Display(a), col.Display(b))
}

// BuildRow renders the record at position index.
func BuildRow(records []source.Record, index int, columns []Column) Row {
	r := records[index]
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = col.Display(r)
	}

	id := r.ID()
	if id == "" {
		id = strconv.Itoa(index)
	}
	return Row{ID: id, Index: index, Cells: cells, Record: r}
}

// Derived is the result of one full derivation.
type Derived struct {
	// Ordered holds the filtered and sorted record positions.
	Ordered   []int
	PageIndex int
	PageCount int
	Rows      []Row
}

// Derive filters, sorts and paginates records under state. The returned
// page index is clamped; state itself is not modified.
func Derive(records []source.Record, columns []Column, globalFields []string, state ViewState) Derived {
	ordered := FilterRecords(records, columns, globalFields, state)
	SortRecords(ordered, records, columns, state.Sorting)

	pageCount := PageCount(len(ordered), state.Pagination.PageSize)
	pageIndex := ClampPageIndex(state.Pagination.PageIndex, pageCount)
	start, end := PageWindow(len(ordered), pageIndex, state.Pagination.PageSize)

	rows := make([]Row, 0, end-start)
	for _, i := range ordered[start:end] {
		rows = append(rows, BuildRow(records, i, columns))
	}

	return Derived{
		Ordered:   ordered,
		PageIndex: pageIndex,
		PageCount: pageCount,
		Rows:      rows,
	}
}
