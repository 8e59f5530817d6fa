// Package tui is the interactive terminal front end for the user table.
package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/rshade/usertable/internal/logging"
	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
)

// ViewState is the screen currently displayed.
type ViewState int

const (
	// ViewStateLoading waits for the collection.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the table.
	ViewStateList
	// ViewStateError shows the fetch failure.
	ViewStateError
	// ViewStateQuitting is set once quit was requested.
	ViewStateQuitting
)

// editTarget is the input field that has focus, if any.
type editTarget int

const (
	editNone editTarget = iota
	editSearch
	editName
)

const (
	nameFilterField = "name"
	defaultWidth    = 120
	defaultHeight   = 24
	chromeHeight    = 12
)

//nolint:gochecknoglobals // column widths in display order
var columnWidths = map[string]int{
	"id":           4,
	"name":         24,
	"email":        26,
	"address.city": 16,
	"company.name": 20,
	"phone":        22,
}

type usersLoadedMsg struct {
	records []source.Record
}

type usersFailedMsg struct {
	err error
}

// Model is the Bubble Tea model for the user table.
//
//nolint:recvcheck // Bubble Tea models use value receivers for Update/View.
type Model struct {
	ctx      context.Context
	client   *source.QueryClient
	queryKey string
	ctrl     *table.Controller

	state   ViewState
	loading *LoadingState
	table   bubbletable.Model
	search  textinput.Model
	name    textinput.Model
	editing editTarget
	keys    keyMap
	help    help.Model
	lang    language.Tag

	width  int
	height int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLanguage sets the locale used for footer numbers.
func WithLanguage(tag language.Tag) ModelOption {
	return func(m *Model) { m.lang = tag }
}

// WithQueryKey overrides the cache key the collection is fetched under.
func WithQueryKey(key string) ModelOption {
	return func(m *Model) {
		if key != "" {
			m.queryKey = key
		}
	}
}

// NewModel creates a model that loads the collection through client and
// presents it with ctrl.
func NewModel(ctx context.Context, client *source.QueryClient, ctrl *table.Controller, opts ...ModelOption) Model {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.Prompt = ""
	search.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "Filter names..."
	name.Prompt = ""
	name.CharLimit = 128

	m := Model{
		ctx:      ctx,
		client:   client,
		queryKey: source.DefaultQueryKey,
		ctrl:     ctrl,
		state:    ViewStateLoading,
		loading:  NewLoadingState(),
		search:   search,
		name:     name,
		keys:     defaultKeyMap(),
		help:     help.New(),
		lang:     language.English,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.table = bubbletable.New(
		bubbletable.WithColumns(m.tableColumns()),
		bubbletable.WithFocused(true),
		bubbletable.WithHeight(ctrl.PageSize()),
	)
	s := bubbletable.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Cell = TableCellStyle
	s.Selected = TableSelectedStyle
	m.table.SetStyles(s)

	m.syncFromController()
	return m
}

// Init starts the spinner and the fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), fetchCmd(m.ctx, m.client, m.queryKey))
}

func fetchCmd(ctx context.Context, client *source.QueryClient, key string) tea.Cmd {
	return func() tea.Msg {
		records, err := client.Fetch(ctx, key)
		if err != nil {
			return usersFailedMsg{err: err}
		}
		return usersLoadedMsg{records: records}
	}
}

// Controller exposes the underlying table controller.
func (m Model) Controller() *table.Controller {
	return m.ctrl
}

// State returns the current screen.
func (m Model) State() ViewState {
	return m.state
}

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case usersLoadedMsg:
		logging.FromContext(m.ctx).Debug().Ctx(m.ctx).Int("records", len(msg.records)).Msg("users loaded")
		m.ctrl.SetData(msg.records)
		m.state = ViewStateList
		m.syncFromController()
		return m, nil

	case usersFailedMsg:
		logging.FromContext(m.ctx).Error().Ctx(m.ctx).Err(msg.err).Msg("loading users failed")
		m.ctrl.SetError(msg.err)
		m.state = ViewStateError
		m.editing = editNone
		m.search.Blur()
		m.name.Blur()
		m.syncFromController()
		return m, nil

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.handleEditKeypress(msg)
		}
		return m.handleListKeypress(msg)
	}

	if m.state == ViewStateLoading {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

func (m Model) handleEditKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyForceQuit):
		m.state = ViewStateQuitting
		return m, tea.Quit
	case key.Matches(msg, keyConfirm), key.Matches(msg, keyCancel):
		m.editing = editNone
		m.search.Blur()
		m.name.Blur()
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.editing {
	case editSearch:
		m.search, cmd = m.search.Update(msg)
		m.ctrl.SetGlobalFilter(m.search.Value())
	case editName:
		m.name, cmd = m.name.Update(msg)
		m.ctrl.SetColumnFilter(nameFilterField, m.name.Value())
	case editNone:
	}
	m.syncFromController()
	return m, cmd
}

func (m Model) handleListKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	// The failed state offers nothing but quitting.
	if m.state == ViewStateError {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m.startEditing(editSearch)
	case key.Matches(msg, m.keys.NameFilter):
		return m.startEditing(editName)
	case key.Matches(msg, m.keys.Clear):
		m.search.SetValue("")
		m.ctrl.SetGlobalFilter("")
	case key.Matches(msg, m.keys.Sort):
		if field, ok := m.ctrl.ColumnByIndex(int(msg.String()[0] - '1')); ok {
			m.ctrl.ToggleSort(field)
		}
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.PreviousPage()
	case key.Matches(msg, m.keys.Next):
		m.ctrl.NextPage()
	case key.Matches(msg, m.keys.First):
		m.ctrl.FirstPage()
	case key.Matches(msg, m.keys.Last):
		m.ctrl.LastPage()
	case key.Matches(msg, m.keys.Grow):
		m.ctrl.SetPageSize(m.nextPageSize(1))
	case key.Matches(msg, m.keys.Shrink):
		m.ctrl.SetPageSize(m.nextPageSize(-1))
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	default:
		return m, nil
	}

	m.syncFromController()
	return m, nil
}

func (m Model) startEditing(target editTarget) (tea.Model, tea.Cmd) {
	m.editing = target
	m.table.Blur()
	if target == editSearch {
		return m, m.search.Focus()
	}
	return m, m.name.Focus()
}

// nextPageSize steps through the configured page sizes in direction dir,
// stopping at either end.
func (m Model) nextPageSize(dir int) int {
	opts := m.ctrl.PageSizeOptions()
	cur := m.ctrl.PageSize()
	if len(opts) == 0 {
		return cur
	}

	i, found := slices.BinarySearch(opts, cur)
	switch {
	case dir > 0 && found:
		i++
	case dir < 0:
		i--
	}
	return opts[max(0, min(i, len(opts)-1))]
}

func (m Model) tableColumns() []bubbletable.Column {
	headers := m.ctrl.Headers()
	cols := make([]bubbletable.Column, len(headers))
	for i, h := range headers {
		w, ok := columnWidths[h.ID]
		if !ok {
			w = 16
		}
		cols[i] = bubbletable.Column{Title: h.Title(), Width: w}
	}
	return cols
}

// syncFromController copies the controller's headers and current page into
// the bubbles table.
func (m *Model) syncFromController() {
	m.table.SetColumns(m.tableColumns())

	rows := m.ctrl.Rows()
	tr := make([]bubbletable.Row, len(rows))
	for i, r := range rows {
		tr[i] = bubbletable.Row(r.Cells)
	}
	m.table.SetRows(tr)
	m.table.SetHeight(max(1, min(m.ctrl.PageSize(), m.height-chromeHeight)))
	// SetCursor on an empty table leaves the cursor at -1.
	switch cur := m.table.Cursor(); {
	case len(tr) == 0:
	case cur < 0:
		m.table.SetCursor(0)
	case cur >= len(tr):
		m.table.SetCursor(len(tr) - 1)
	}
}
