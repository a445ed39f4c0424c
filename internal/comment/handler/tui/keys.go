package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Delete     key.Binding
	Star       key.Binding
	Sort       key.Binding
	Timestamps key.Binding
	Reply      key.Binding
	Compose    key.Binding
	Post       key.Binding
	Submit     key.Binding
	Back       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Star:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
		Sort:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		Timestamps: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timestamps")),
		Reply:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reply")),
		Compose:    key.NewBinding(key.WithKeys("i", "tab"), key.WithHelp("i", "write")),
		Post:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "post")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send reply")),
		Back:       key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// help renders the bindings relevant to the focused area as one line.
func help(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
