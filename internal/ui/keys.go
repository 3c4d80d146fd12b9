package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Cancel  key.Binding
	Approve key.Binding
	Deny    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k", "left", "h"), key.WithHelp("↑/↓", "navigate")),
	Down:    key.NewBinding(key.WithKeys("down", "j", "right", "l", "tab")),
	Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Cancel:  key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
	Approve: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Deny:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
}
