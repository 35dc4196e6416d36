package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the carousel key bindings. It satisfies help.KeyMap.
type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	Up       key.Binding
	Down     key.Binding
	Cycle    key.Binding
	Switcher key.Binding
	Autoplay key.Binding
	Yank     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Style switcher modal
	Select key.Binding
	Close  key.Binding

	// Whether help lists the flag-gated bindings.
	switcherOn bool
	autoplayOn bool
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("l", "right", "n"),
			key.WithHelp("l/→", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("h", "left", "p"),
			key.WithHelp("h/←", "prev"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle style"),
		),
		Switcher: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "styles"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "autoplay"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank slide"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// gated returns the flag-gated bindings that are currently enabled.
func (k keyMap) gated() []key.Binding {
	var out []key.Binding
	if k.switcherOn {
		out = append(out, k.Switcher)
	}
	if k.autoplayOn {
		out = append(out, k.Autoplay)
	}
	return out
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	out := []key.Binding{k.Prev, k.Next, k.Cycle}
	out = append(out, k.gated()...)
	return append(out, k.Help, k.Quit)
}

// FullHelp returns every binding, grouped by column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last},
		{k.Up, k.Down, k.Yank, k.Reload},
		append([]key.Binding{k.Cycle}, k.gated()...),
		{k.Help, k.Quit},
	}
}
