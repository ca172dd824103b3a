package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down     key.Binding
	Up       key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Command palette
	Command key.Binding

	// Card actions
	Comment  key.Binding
	NewCard  key.Binding
	Done     key.Binding
	CopyLink key.Binding

	// Editing
	Submit      key.Binding
	SwitchField key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/←", "prev page"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		NewCard: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new card"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "check item"),
		),
		CopyLink: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		SwitchField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch field"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage, k.Select},
		{k.Back, k.Quit, k.Help, k.Refresh, k.Command},
		{k.Comment, k.NewCard, k.Done, k.CopyLink},
		{k.Submit, k.SwitchField},
	}
}

// ListHelp returns the bindings shown in the list footer.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Select, k.Comment, k.NewCard, k.Back, k.Refresh}
}

// DetailHelp returns the bindings shown in the detail footer.
func (k *KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.Comment, k.Done, k.CopyLink, k.Back}
}

// EditHelp returns the bindings shown while typing.
func (k *KeyMap) EditHelp(fields bool) []key.Binding {
	escape := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	if fields {
		return []key.Binding{k.Submit, k.SwitchField, escape}
	}
	return []key.Binding{k.Submit, escape}
}
