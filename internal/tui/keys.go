package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list-mode bindings.
type keyMap struct {
	Search     key.Binding
	NameFilter key.Binding
	Clear      key.Binding
	Sort       key.Binding
	Prev       key.Binding
	Next       key.Binding
	First      key.Binding
	Last       key.Binding
	Grow       key.Binding
	Shrink     key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
}

// Bindings active while an input field has focus.
//
//nolint:gochecknoglobals // constant bindings
var (
	keyConfirm   = key.NewBinding(key.WithKeys("enter"))
	keyCancel    = key.NewBinding(key.WithKeys("esc"))
	keyForceQuit = key.NewBinding(key.WithKeys("ctrl+c"))
)

func defaultKeyMap() keyMap {
	return keyMap{
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NameFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter name")),
		Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Sort:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "sort column")),
		Prev:       key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		Next:       key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		First:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Last:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Grow:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "page size")),
		Shrink:     key.NewBinding(key.WithKeys("-")),
		Up:         key.NewBinding(key.WithKeys("up", "k")),
		Down:       key.NewBinding(key.WithKeys("down", "j")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NameFilter, k.Sort, k.Prev, k.Next, k.Grow, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.NameFilter, k.Clear},
		{k.Sort, k.Grow},
		{k.First, k.Prev, k.Next, k.Last},
		{k.Quit},
	}
}
