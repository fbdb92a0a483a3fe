package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Left      key.Binding
	Right     key.Binding
	Toggle    key.Binding
	Group     key.Binding
	ExpandAll key.Binding
	Collapse  key.Binding
	Focus     key.Binding
	Today     key.Binding
	Copy      key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		PageUp:    key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
		Home:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first row")),
		End:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "earlier")),
		Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "later")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "collapse/expand")),
		Group:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group by phase")),
		ExpandAll: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		Collapse:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// shortHelp lists the bindings shown in the status bar.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Toggle, k.Group, k.Focus, k.Left, k.Today, k.Copy, k.Help, k.Quit}
}

// fullHelp lists every binding for the help overlay.
func (k keyMap) fullHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Left, k.Right,
		k.Toggle, k.Group, k.ExpandAll, k.Collapse, k.Focus, k.Today, k.Copy, k.Reload, k.Help, k.Quit,
	}
}
