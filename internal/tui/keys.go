package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the browser.
type KeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding

	ZoomIn  key.Binding
	ZoomOut key.Binding
	Fit     key.Binding

	Jump    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding

	// Jump mode
	Accept key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n", " ", "pgdown"),
			key.WithHelp("→/l", "next image"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "p", "backspace", "pgup"),
			key.WithHelp("←/h", "previous image"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first image"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last image"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Fit: key.NewBinding(
			key.WithKeys("f", "0"),
			key.WithHelp("f", "fit to terminal"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump to file"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan folder"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open match"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Jump, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.ZoomIn, k.ZoomOut, k.Fit},
		{k.Jump, k.Refresh, k.Help, k.Quit},
	}
}

// jumpHelp is shown while the jump prompt is open.
type jumpHelp struct{ KeyMap }

func (k jumpHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Cancel}
}

func (k jumpHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Accept, k.Cancel}}
}
