package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	refresh    key.Binding
	toggleHelp key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	addTodo    key.Binding
	toggleTodo key.Binding
	todoInfo   key.Binding
	filter     key.Binding
	cycleDone  key.Binding
	clearView  key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "todo up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "todo down")),
		addTodo:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new todo")),
		toggleTodo: key.NewBinding(key.WithKeys("space", "enter"), key.WithHelp("space/enter", "toggle done")),
		todoInfo:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "todo info")),
		filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		cycleDone:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle done filter")),
		clearView:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTodo, k.toggleTodo, k.filter, k.refresh, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTodo, k.toggleTodo, k.todoInfo, k.filter, k.cycleDone},
		{k.moveUp, k.moveDown, k.refresh, k.toggleHelp, k.quit},
	}
}
