package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Search   key.Binding
	Import   key.Binding
	Remove   key.Binding
	Reset    key.Binding
	Licenses key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Import:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove channel")),
		Reset:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "reset library")),
		Licenses: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "toggle licenses")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) browse() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Search, k.Import, k.Quit}
}

func (k keyMap) root() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Search, k.Import, k.Remove, k.Quit}
}
