package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sadopc/pathlen/internal/ui/components"
)

// KeyMap holds all key bindings for the application.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Cancel    key.Binding
	Research  key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding

	// Sort
	SortLength key.Binding
	SortPath   key.Binding

	// Export
	ExportCSV  key.Binding
	ExportJSON key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "stop a running search"),
		),
		Research: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "search again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		SortLength: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "sort by length (again to reverse)"),
		),
		SortPath: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "sort by path (again to reverse)"),
		),
		ExportCSV: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export CSV"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "export JSON"),
		),
	}
}

// HelpSections groups the bindings for the help overlay.
func (k KeyMap) HelpSections() []components.HelpSection {
	return []components.HelpSection{
		{Name: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom}},
		{Name: "Sorting", Bindings: []key.Binding{k.SortLength, k.SortPath}},
		{Name: "Actions", Bindings: []key.Binding{k.ExportCSV, k.ExportJSON, k.Research}},
		{Name: "General", Bindings: []key.Binding{k.Cancel, k.Help, k.Quit, k.ForceQuit}},
	}
}
