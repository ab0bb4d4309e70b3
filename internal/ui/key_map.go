package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	// Landing
	next   key.Binding
	prev   key.Binding
	add    key.Binding
	delete key.Binding
	submit key.Binding

	// ChatList
	left      key.Binding
	right     key.Binding
	moveLeft  key.Binding
	moveRight key.Binding
	remove    key.Binding
	rename    key.Binding
	open      key.Binding
	resolve   key.Binding
	back      key.Binding
	forward   key.Binding

	confirm key.Binding
	cancel  key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next")),
		prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "previous")),
		add:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add stream")),
		delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete stream")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show chats")),

		left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		moveLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move left")),
		moveRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move right")),
		remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		rename:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open stream")),
		resolve:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "resolve names")),
		back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "edit streams")),
		forward:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "forward")),

		confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.left, k.right, k.moveLeft, k.moveRight, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.moveLeft, k.moveRight},
		{k.remove, k.rename, k.open, k.resolve},
		{k.back, k.quit},
	}
}

func (k keyMap) landingHelp() []key.Binding {
	return []key.Binding{k.next, k.prev, k.add, k.delete, k.submit, k.forward}
}
