package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/pocketboard/internal/theme"
)

// Command names accepted by the palette.
const (
	Refresh    = "refresh"
	Offline    = "offline"
	NewCard    = "new"
	ClearCache = "clear-cache"
	Help       = "help"
	Quit       = "quit"
)

var aliases = map[string]string{
	"refresh":     Refresh,
	"sync":        Refresh,
	"r":           Refresh,
	"offline":     Offline,
	"cached":      Offline,
	"new":         NewCard,
	"new card":    NewCard,
	"n":           NewCard,
	"clear-cache": ClearCache,
	"clear cache": ClearCache,
	"help":        Help,
	"quit":        Quit,
	"q":           Quit,
}

// Parse maps typed text to a command name. Unknown input yields "".
func Parse(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return aliases[s]
}

// CommandMsg is emitted when the user executes a command. It carries
// the canonical command name, or the raw text when it is unknown.
type CommandMsg string

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "refresh, offline, new, clear-cache, help, quit"
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions([]string{Refresh, Offline, NewCard, ClearCache, Help, Quit})
	ti.Width = max(0, width-6)

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if raw == "" {
				return m, func() tea.Msg { return CancelMsg{} }
			}
			name := Parse(raw)
			if name == "" {
				name = raw
			}
			return m, func() tea.Msg { return CommandMsg(name) }
		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Command")

	return theme.DetailPanelStyle.
		Width(max(0, m.width-4)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.input.View()))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(0, width-6)
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
