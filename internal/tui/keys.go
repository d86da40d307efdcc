package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings of the settings screen and its overlay.
type KeyMap struct {
	SetPassphrase key.Binding
	Unlock        key.Binding
	Quit          key.Binding
	Next          key.Binding
	Prev          key.Binding
	Enter         key.Binding
	Cancel        key.Binding
}

// DefaultKeyMap is the binding set used by NewApp.
var DefaultKeyMap = KeyMap{
	SetPassphrase: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "set passphrase")),
	Unlock:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlock")),
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Next:          key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:          key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
