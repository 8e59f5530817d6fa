package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/usertable/internal/render"
	"github.com/rshade/usertable/internal/table"
)

// View renders the current screen.
func (m Model) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	sections := []string{
		TitleStyle.Render("Users"),
		m.renderInputs(),
		m.renderBody(),
		CaptionStyle.Render(table.CaptionText),
		m.renderFooter(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInputs() string {
	search := LabelStyle.Render("Search: ") + m.search.View()
	name := LabelStyle.Render("Name: ") + m.name.View()
	return lipgloss.JoinHorizontal(lipgloss.Top, search, "   ", name)
}

// renderBody draws the table, replacing the rows with a single full-width
// placeholder while loading, after a failure, or when there is no data.
func (m Model) renderBody() string {
	body := m.ctrl.Body()
	if body == table.BodyRows {
		return m.table.View()
	}

	header := m.tableHeader()
	width := lipgloss.Width(header)

	var text string
	switch body {
	case table.BodyLoading:
		text = m.loading.View() + " " + table.LoadingText
	case table.BodyError:
		text = ErrorStyle.Render(table.ErrorText)
	case table.BodyEmpty, table.BodyRows:
		text = table.EmptyText
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, PlaceholderStyle.Width(width).Render(text))
}

func (m Model) tableHeader() string {
	cols := m.tableColumns()
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = TableHeaderStyle.Width(c.Width + TableHeaderStyle.GetHorizontalPadding()).
			MaxWidth(c.Width + TableHeaderStyle.GetHorizontalPadding()).
			Render(c.Title)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) renderFooter() string {
	nav := []string{
		hint("« first", m.ctrl.CanPreviousPage()),
		hint("‹ prev", m.ctrl.CanPreviousPage()),
		hint("next ›", m.ctrl.CanNextPage()),
		hint("last »", m.ctrl.CanNextPage()),
	}

	info := fmt.Sprintf("%s  %s",
		ValueStyle.Render(render.PageLabel(m.lang, m.ctrl.PageIndex(), m.ctrl.PageCount())),
		SubtleStyle.Render(fmt.Sprintf("%d rows per page", m.ctrl.PageSize())),
	)
	if m.ctrl.Phase() == table.PhaseReady && m.ctrl.HasFilters() {
		info += SubtleStyle.Render(fmt.Sprintf("  (%d of %d match)", m.ctrl.FilteredCount(), m.ctrl.TotalCount()))
	}
	return info + "   " + strings.Join(nav, " ")
}

func hint(label string, enabled bool) string {
	if enabled {
		return EnabledStyle.Render(label)
	}
	return DisabledStyle.Render(label)
}
