package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the terminal walkthrough.
type KeyMap struct {
	Confirm    key.Binding // Open on the gate, Proceed or Next elsewhere.
	Next       key.Binding
	Experience key.Binding
	Projects   key.Binding
	Education  key.Binding
	Menu       key.Binding
	Reset      key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open/next"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n", "next"),
	),
	Experience: key.NewBinding(
		key.WithKeys("1", "e"),
		key.WithHelp("1/e", "experience"),
	),
	Projects: key.NewBinding(
		key.WithKeys("2", "p"),
		key.WithHelp("2/p", "projects"),
	),
	Education: key.NewBinding(
		key.WithKeys("3", "d"),
		key.WithHelp("3/d", "education"),
	),
	Menu: key.NewBinding(
		key.WithKeys("m", "esc"),
		key.WithHelp("m/esc", "main menu"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "another code"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}
