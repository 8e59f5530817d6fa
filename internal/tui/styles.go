package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("212")
	ColorError     = lipgloss.Color("196")
	ColorBorder    = lipgloss.Color("238")
)

//nolint:gochecknoglobals // shared lipgloss styles
var (
	TitleStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).MarginBottom(1)

	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// DisabledStyle dims navigation hints that currently do nothing.
	DisabledStyle = lipgloss.NewStyle().Foreground(ColorMuted).Strikethrough(true)
	EnabledStyle  = lipgloss.NewStyle().Foreground(ColorHighlight)

	ErrorStyle       = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(ColorLabel).Italic(true).Align(lipgloss.Center)
	CaptionStyle     = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorBorder).
				BorderBottom(true).
				Padding(0, 1)
	TableCellStyle     = lipgloss.NewStyle().Padding(0, 1)
	TableSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)
