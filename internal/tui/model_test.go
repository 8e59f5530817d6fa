package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
)

func users(n int) []source.Record {
	out := make([]source.Record, n)
	for i := range out {
		city := "Shelbyville"
		if i%4 == 0 {
			city = "Springfield"
		}
		out[i] = source.Record{
			"id":      json.Number(fmt.Sprint(i + 1)),
			"name":    fmt.Sprintf("User %d", i+1),
			"email":   fmt.Sprintf("user%d@example.com", i+1),
			"address": map[string]any{"city": city},
			"company": map[string]any{"name": "Acme"},
			"phone":   "555-0100",
		}
	}
	return out
}

func newTestModel(t *testing.T, loader source.LoaderFunc) Model {
	t.Helper()
	if loader == nil {
		loader = func(context.Context) ([]source.Record, error) { return users(12), nil }
	}
	ctrl := table.New(table.UserColumns())
	return NewModel(context.Background(), source.NewQueryClient(loader), ctrl)
}

func loaded(t *testing.T, n int) Model {
	t.Helper()
	m := newTestModel(t, nil)
	next, _ := m.Update(usersLoadedMsg{records: users(n)})
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestModel_InitialState(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Equal(t, table.BodyLoading, m.Controller().Body())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), table.LoadingText)
	assert.Contains(t, m.View(), "Page 1 of 1")
}

func TestFetchCmd(t *testing.T) {
	ok := fetchCmd(context.Background(), source.NewQueryClient(source.LoaderFunc(
		func(context.Context) ([]source.Record, error) { return users(3), nil },
	)), source.DefaultQueryKey)
	msg, isLoaded := ok().(usersLoadedMsg)
	require.True(t, isLoaded)
	assert.Len(t, msg.records, 3)

	boom := errors.New("boom")
	bad := fetchCmd(context.Background(), source.NewQueryClient(source.LoaderFunc(
		func(context.Context) ([]source.Record, error) { return nil, boom },
	)), source.DefaultQueryKey)
	failed, isFailed := bad().(usersFailedMsg)
	require.True(t, isFailed)
	assert.ErrorIs(t, failed.err, boom)
}

func TestModel_Loaded(t *testing.T) {
	m := loaded(t, 12)
	assert.Equal(t, ViewStateList, m.State())
	assert.Len(t, m.table.Rows(), 5)
	assert.Equal(t, "Page 1 of 3", pageLabel(m))
	assert.Contains(t, m.View(), "User 1")
	assert.Contains(t, m.View(), table.CaptionText)
}

func TestModel_Failed(t *testing.T) {
	m := press(t, newTestModel(t, nil), usersFailedMsg{err: errors.New("boom")})
	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), table.ErrorText)

	// Controls are inert.
	m = press(t, m, runes("/"), tea.KeyMsg{Type: tea.KeyRight}, runes("1"))
	assert.Equal(t, editNone, m.editing)
	assert.Equal(t, 0, m.Controller().PageIndex())
	_, sorted := m.Controller().SortDirection("id")
	assert.False(t, sorted)
}

func TestModel_EmptyCollection(t *testing.T) {
	m := loaded(t, 0)
	assert.Contains(t, m.View(), table.EmptyText)
	assert.Equal(t, "Page 1 of 1", pageLabel(m))
}

func TestModel_Navigation(t *testing.T) {
	m := loaded(t, 12)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Controller().PageIndex())

	m = press(t, m, runes("l"), runes("l"))
	assert.Equal(t, 2, m.Controller().PageIndex(), "next stops at the last page")

	m = press(t, m, runes("h"))
	assert.Equal(t, 1, m.Controller().PageIndex())

	m = press(t, m, runes("G"))
	assert.Equal(t, 2, m.Controller().PageIndex())
	assert.Len(t, m.table.Rows(), 2)

	m = press(t, m, runes("g"), tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.Controller().PageIndex())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 2, m.Controller().PageIndex())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.Controller().PageIndex())
}

func TestModel_Search(t *testing.T) {
	m := loaded(t, 12)

	m = press(t, m, runes("/"))
	assert.Equal(t, editSearch, m.editing)

	m = press(t, m, runes("u"), runes("s"), runes("e"), runes("r"), runes(" "), runes("1"))
	assert.Equal(t, "user 1", m.Controller().GlobalFilter())
	// User 1, User 10, User 11, User 12
	assert.Equal(t, 4, m.Controller().FilteredCount())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, editNone, m.editing)
	assert.Equal(t, "user 1", m.Controller().GlobalFilter(), "leaving edit mode keeps the filter")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.Controller().GlobalFilter())
	assert.Equal(t, 12, m.Controller().FilteredCount())
}

func TestModel_NameFilter(t *testing.T) {
	m := loaded(t, 12)

	m = press(t, m, runes("f"), runes("1"), runes("2"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, editNone, m.editing)
	assert.Equal(t, "12", m.Controller().ColumnFilter("name"))
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "User 12", m.table.Rows()[0][1])
}

func TestModel_FilterClampsPage(t *testing.T) {
	m := loaded(t, 12)
	m = press(t, m, runes("G"))
	require.Equal(t, 2, m.Controller().PageIndex())

	m = press(t, m, runes("/"), runes("9"))
	assert.Equal(t, 0, m.Controller().PageIndex())
}

func TestModel_SortKeys(t *testing.T) {
	m := loaded(t, 12)

	m = press(t, m, runes("1"))
	dir, ok := m.Controller().SortDirection("id")
	require.True(t, ok)
	assert.Equal(t, table.Ascending, dir)

	m = press(t, m, runes("1"))
	dir, _ = m.Controller().SortDirection("id")
	assert.Equal(t, table.Descending, dir)
	assert.Equal(t, "12", m.table.Rows()[0][0])
	assert.Contains(t, m.table.Columns()[0].Title, "▼")

	m = press(t, m, runes("1"))
	_, ok = m.Controller().SortDirection("id")
	assert.False(t, ok)

	m = press(t, m, runes("6"))
	_, ok = m.Controller().SortDirection("phone")
	assert.True(t, ok)
}

func TestModel_PageSizeKeys(t *testing.T) {
	m := loaded(t, 12)
	require.Equal(t, 5, m.Controller().PageSize())

	m = press(t, m, runes("+"))
	assert.Equal(t, 8, m.Controller().PageSize())
	m = press(t, m, runes("+"), runes("+"))
	assert.Equal(t, 10, m.Controller().PageSize(), "grow stops at the largest option")

	m = press(t, m, runes("-"), runes("-"), runes("-"), runes("-"))
	assert.Equal(t, 2, m.Controller().PageSize(), "shrink stops at the smallest option")
	assert.Equal(t, 6, m.Controller().PageCount())
}

func TestModel_CursorMoves(t *testing.T) {
	m := loaded(t, 12)
	require.Equal(t, 0, m.table.Cursor())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.table.Cursor())
}

func TestModel_CursorRecoversAfterEmptyPage(t *testing.T) {
	m := loaded(t, 12)

	m = press(t, m, runes("/"), runes("z"), runes("z"), runes("z"))
	require.Equal(t, 0, m.Controller().FilteredCount())
	require.Empty(t, m.table.Rows())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, 12, m.Controller().FilteredCount())
	assert.Equal(t, 0, m.table.Cursor(), "first row is selected again")
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, 3)
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, next.(Model).State())
	assert.Empty(t, next.(Model).View())

	// ctrl+c quits from an input field too.
	m = press(t, loaded(t, 3), runes("/"))
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, next.(Model).State())
}

func TestModel_WindowSize(t *testing.T) {
	m := press(t, loaded(t, 3), tea.WindowSizeMsg{Width: 80, Height: 40})
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 40, m.height)
}

func pageLabel(m Model) string {
	return fmt.Sprintf("Page %d of %d", m.Controller().PageIndex()+1, m.Controller().PageCount())
}
