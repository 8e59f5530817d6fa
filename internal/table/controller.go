package table

import (
	"slices"

	"github.com/rshade/usertable/internal/source"
)

// Phase is the coarse state of the data behind a controller.
type Phase int

const (
	// PhaseLoading means the collection has not arrived yet.
	PhaseLoading Phase = iota
	// PhaseError means the fetch failed. All mutators are ignored.
	PhaseError
	// PhaseReady means the collection is loaded.
	PhaseReady
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// BodyKind tells a renderer what to put in the table body.
type BodyKind int

const (
	// BodyLoading is a single progress placeholder row.
	BodyLoading BodyKind = iota
	// BodyError is a single error placeholder row.
	BodyError
	// BodyEmpty is the "no data" row shown for an empty collection.
	BodyEmpty
	// BodyRows is the current page, which may be empty under a filter.
	BodyRows
)

// String returns the lower-case body kind.
func (b BodyKind) String() string {
	switch b {
	case BodyLoading:
		return "loading"
	case BodyError:
		return "error"
	case BodyEmpty:
		return "empty"
	case BodyRows:
		return "rows"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b BodyKind) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Placeholder texts shown in place of rows.
const (
	LoadingText = "Loading..."
	ErrorText   = "Error fetching data"
	EmptyText   = "No data found"
)

// Header is a column header with its current sort state.
type Header struct {
	ID        string    `json:"id"                  yaml:"id"`
	Label     string    `json:"label"               yaml:"label"`
	Sortable  bool      `json:"sortable"            yaml:"sortable"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Title returns the label followed by the sort arrow, if any.
func (h Header) Title() string {
	if ind := h.Direction.Indicator(); ind != "" {
		return h.Label + " " + ind
	}
	return h.Label
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the initial page size. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n >= 1 {
			c.state.Pagination.PageSize = n
		}
	}
}

// WithGlobalFilterFields sets the field paths the global filter searches.
func WithGlobalFilterFields(fields ...string) Option {
	return func(c *Controller) {
		if len(fields) > 0 {
			c.globalFields = slices.Clone(fields)
		}
	}
}

// WithPageSizeOptions sets the sizes offered by the page-size selector.
func WithPageSizeOptions(sizes ...int) Option {
	return func(c *Controller) {
		var valid []int
		for _, n := range sizes {
			if n >= 1 {
				valid = append(valid, n)
			}
		}
		if len(valid) > 0 {
			slices.Sort(valid)
			c.pageSizeOptions = slices.Compact(valid)
		}
	}
}

// Controller owns the view state of one table and derives the visible rows
// from a fetched collection. It is not safe for concurrent use; each view
// owns its own controller.
type Controller struct {
	columns         []Column
	globalFields    []string
	pageSizeOptions []int

	phase   Phase
	err     error
	records []source.Record
	state   ViewState
}

// New creates a controller in the loading phase with the default view state.
func New(columns []Column, opts ...Option) *Controller {
	c := &Controller{
		columns:         slices.Clone(columns),
		globalFields:    []string{"name"},
		pageSizeOptions: DefaultPageSizeOptions(),
		phase:           PhaseLoading,
		state:           DefaultViewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetData moves the controller to the ready phase over records.
func (c *Controller) SetData(records []source.Record) {
	c.phase = PhaseReady
	c.err = nil
	c.records = records
	c.clamp()
}

// SetError moves the controller to the error phase.
func (c *Controller) SetError(err error) {
	c.phase = PhaseError
	c.err = err
	c.records = nil
	c.state.Pagination.PageIndex = 0
}

// Err returns the fetch error in the error phase.
func (c *Controller) Err() error {
	return c.err
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Columns returns the column schema.
func (c *Controller) Columns() []Column {
	return slices.Clone(c.columns)
}

// GlobalFilterFields returns the fields searched by the global filter.
func (c *Controller) GlobalFilterFields() []string {
	return slices.Clone(c.globalFields)
}

// PageSizeOptions returns the sizes offered by the page-size selector.
func (c *Controller) PageSizeOptions() []int {
	return slices.Clone(c.pageSizeOptions)
}

func (c *Controller) inert() bool {
	return c.phase == PhaseError
}

func (c *Controller) column(id string) (Column, bool) {
	for _, col := range c.columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// SetGlobalFilter replaces the global filter text. The page index is kept
// unless the new result no longer reaches it.
func (c *Controller) SetGlobalFilter(text string) {
	if c.inert() {
		return
	}
	c.state.GlobalFilter = text
	c.clamp()
}

// GlobalFilter returns the global filter text.
func (c *Controller) GlobalFilter() string {
	return c.state.GlobalFilter
}

// SetColumnFilter replaces the filter on field; an empty value clears it.
// Unknown and non-filterable fields are ignored.
func (c *Controller) SetColumnFilter(field, value string) {
	if c.inert() {
		return
	}
	col, ok := c.column(field)
	if !ok || !col.EnableColumnFilter {
		return
	}
	if value == "" {
		delete(c.state.ColumnFilters, field)
	} else {
		c.state.ColumnFilters[field] = value
	}
	c.clamp()
}

// ColumnFilter returns the filter value on field.
func (c *Controller) ColumnFilter(field string) string {
	return c.state.ColumnFilters[field]
}

// ToggleSort cycles field through unsorted, ascending and descending,
// replacing any sort on other fields.
func (c *Controller) ToggleSort(field string) {
	if c.inert() {
		return
	}
	col, ok := c.column(field)
	if !ok || !col.EnableSorting {
		return
	}

	dir, sorted := c.SortDirection(field)
	switch {
	case !sorted:
		c.state.Sorting = []SortSpec{{Field: field, Direction: Ascending}}
	case dir == Ascending:
		c.state.Sorting = []SortSpec{{Field: field, Direction: Descending}}
	default:
		c.state.Sorting = nil
	}
}

// SetSorting sorts by a single field. An empty field clears sorting.
func (c *Controller) SetSorting(field string, dir Direction) {
	if c.inert() {
		return
	}
	if field == "" {
		c.state.Sorting = nil
		return
	}
	col, ok := c.column(field)
	if !ok || !col.EnableSorting {
		return
	}
	if dir != Descending {
		dir = Ascending
	}
	c.state.Sorting = []SortSpec{{Field: field, Direction: dir}}
}

// SortDirection returns the direction field is sorted in, if any.
func (c *Controller) SortDirection(field string) (Direction, bool) {
	for _, s := range c.state.Sorting {
		if s.Field == field {
			return s.Direction, true
		}
	}
	return "", false
}

// SetPageIndex moves to page i, clamped into [0, PageCount()).
func (c *Controller) SetPageIndex(i int) {
	if c.inert() {
		return
	}
	c.state.Pagination.PageIndex = ClampPageIndex(i, c.PageCount())
}

// FirstPage moves to the first page.
func (c *Controller) FirstPage() { c.SetPageIndex(0) }

// PreviousPage moves back one page; no-op on the first page.
func (c *Controller) PreviousPage() {
	if c.CanPreviousPage() {
		c.SetPageIndex(c.state.Pagination.PageIndex - 1)
	}
}

// NextPage moves forward one page; no-op on the last page.
func (c *Controller) NextPage() {
	if c.CanNextPage() {
		c.SetPageIndex(c.state.Pagination.PageIndex + 1)
	}
}

// LastPage moves to the last page.
func (c *Controller) LastPage() { c.SetPageIndex(c.PageCount() - 1) }

// CanPreviousPage reports whether a previous page exists.
func (c *Controller) CanPreviousPage() bool {
	return c.phase == PhaseReady && c.state.Pagination.PageIndex > 0
}

// CanNextPage reports whether a next page exists.
func (c *Controller) CanNextPage() bool {
	return c.phase == PhaseReady && c.state.Pagination.PageIndex < c.PageCount()-1
}

// SetPageSize changes the page size, keeping the first row of the current
// page on screen. Values below 1 are ignored.
func (c *Controller) SetPageSize(n int) {
	if c.inert() || n < 1 {
		return
	}
	old := c.state.Pagination.PageSize
	c.state.Pagination.PageSize = n
	c.state.Pagination.PageIndex = c.state.Pagination.PageIndex * old / n
	c.clamp()
}

// PageIndex returns the zero-based current page.
func (c *Controller) PageIndex() int {
	return c.state.Pagination.PageIndex
}

// PageSize returns the number of rows per page.
func (c *Controller) PageSize() int {
	return c.state.Pagination.PageSize
}

// PageCount returns max(1, ceil(FilteredCount()/PageSize())).
func (c *Controller) PageCount() int {
	return PageCount(c.FilteredCount(), c.state.Pagination.PageSize)
}

// FilteredCount returns the number of records passing all filters.
// It is zero outside the ready phase.
func (c *Controller) FilteredCount() int {
	if c.phase != PhaseReady {
		return 0
	}
	return len(FilterRecords(c.records, c.columns, c.globalFields, c.state))
}

// TotalCount returns the size of the loaded collection.
func (c *Controller) TotalCount() int {
	return len(c.records)
}

// Rows returns the current page. It is empty outside the ready phase.
func (c *Controller) Rows() []Row {
	if c.phase != PhaseReady {
		return []Row{}
	}
	return Derive(c.records, c.columns, c.globalFields, c.state).Rows
}

// Body returns what the table body should show.
func (c *Controller) Body() BodyKind {
	switch {
	case c.phase == PhaseLoading:
		return BodyLoading
	case c.phase == PhaseError:
		return BodyError
	case len(c.records) == 0:
		return BodyEmpty
	default:
		return BodyRows
	}
}

// Headers returns the column headers with their sort state.
func (c *Controller) Headers() []Header {
	headers := make([]Header, len(c.columns))
	for i, col := range c.columns {
		dir, _ := c.SortDirection(col.ID)
		headers[i] = Header{ID: col.ID, Label: col.Header, Sortable: col.EnableSorting, Direction: dir}
	}
	return headers
}

// State returns a copy of the view state.
func (c *Controller) State() ViewState {
	return c.state.Clone()
}

// clamp pulls the page index back inside the current page count.
func (c *Controller) clamp() {
	c.state.Pagination.PageIndex = ClampPageIndex(c.state.Pagination.PageIndex, c.PageCount())
}

// Snapshot is an immutable view of a controller for renderers.
type Snapshot struct {
	Phase           Phase     `json:"phase"           yaml:"phase"`
	Body            BodyKind  `json:"body"            yaml:"body"`
	Error           string    `json:"error,omitempty" yaml:"error,omitempty"`
	Headers         []Header  `json:"headers"         yaml:"headers"`
	Rows            []Row     `json:"rows"            yaml:"rows"`
	PageIndex       int       `json:"pageIndex"       yaml:"pageIndex"`
	PageSize        int       `json:"pageSize"        yaml:"pageSize"`
	PageCount       int       `json:"pageCount"       yaml:"pageCount"`
	FilteredCount   int       `json:"filteredCount"   yaml:"filteredCount"`
	TotalCount      int       `json:"totalCount"      yaml:"totalCount"`
	CanPreviousPage bool      `json:"canPreviousPage" yaml:"canPreviousPage"`
	CanNextPage     bool      `json:"canNextPage"     yaml:"canNextPage"`
	State           ViewState `json:"state"           yaml:"state"`
}

// Snapshot derives the full view once.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:     c.phase,
		Body:      c.Body(),
		Headers:   c.Headers(),
		Rows:      []Row{},
		PageIndex: c.state.Pagination.PageIndex,
		PageSize:  c.state.Pagination.PageSize,
		PageCount: 1,
		State:     c.State(),
	}
	if c.err != nil {
		snap.Error = c.err.Error()
	}
	if c.phase != PhaseReady {
		return snap
	}

	d := Derive(c.records, c.columns, c.globalFields, c.state)
	snap.Rows = d.Rows
	snap.PageIndex = d.PageIndex
	snap.PageCount = d.PageCount
	snap.FilteredCount = len(d.Ordered)
	snap.TotalCount = len(c.records)
	snap.CanPreviousPage = d.PageIndex > 0
	snap.CanNextPage = d.PageIndex < d.PageCount-1
	return snap
}

// CaptionText is the table caption.
const CaptionText = "A list of users."

// PlaceholderText returns the text of the single placeholder row for body
// kinds that have one.
func PlaceholderText(b BodyKind) string {
	switch b {
	case BodyLoading:
		return LoadingText
	case BodyError:
		return ErrorText
	case BodyEmpty:
		return EmptyText
	default:
		return ""
	}
}

// ColumnByIndex returns the id of the n-th column (zero-based).
func (c *Controller) ColumnByIndex(n int) (string, bool) {
	if n < 0 || n >= len(c.columns) {
		return "", false
	}
	return c.columns[n].ID, true
}

// HasFilters reports whether any filter is active.
func (c *Controller) HasFilters() bool {
	if c.state.GlobalFilter != "" {
		return true
	}
	for _, v := range c.state.ColumnFilters {
		if v != "" {
			return true
		}
	}
	return false
}
