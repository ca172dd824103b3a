package compose

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/theme"
)

// Model renders the comment editor and the create-card form. The text
// being typed is AppState.Input; keystrokes are applied by the caller
// through the navigation controller so the capacity rule lives in one
// place.
type Model struct {
	maxInput int
	width    int
	height   int
}

// New creates a compose view. maxInput is the input capacity in
// characters and is shown as a counter.
func New(maxInput, width, height int) Model {
	return Model{maxInput: maxInput, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the screen matching state.Screen. target names the card
// a comment is posted to and may be empty.
func (m Model) View(state *model.AppState, target string) string {
	var content string
	switch state.Screen {
	case model.ScreenAddComment:
		content = m.commentView(state, target)
	case model.ScreenCreateCard:
		content = m.createView(state)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m Model) commentView(state *model.AppState, target string) string {
	title := "Add comment"
	if target != "" {
		title = "Comment on " + target
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		m.field("", state.Input, true),
		m.counter(state.Input),
	)
}

func (m Model) createView(state *model.AppState) string {
	name, desc := state.Draft.Name, state.Draft.Description
	if state.DraftField == model.DraftName {
		name = state.Input
	} else {
		desc = state.Input
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("New card"),
		m.field("Name", name, state.DraftField == model.DraftName),
		m.field("Description", desc, state.DraftField == model.DraftDescription),
		m.counter(state.Input),
	)
}

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(theme.ColorWhite).
	MarginBottom(1)

func (m Model) field(label, value string, active bool) string {
	style := theme.InactiveInputStyle
	text := value
	if active {
		style = theme.InputStyle
		text += "█"
	}
	box := style.Width(max(10, min(m.width-8, 72))).Render(text)
	if label == "" {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(theme.ColorGray).Render(label),
		box,
	)
}

func (m Model) counter(input string) string {
	n := len([]rune(input))
	style := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if n >= m.maxInput {
		style = style.Foreground(theme.ColorOrange)
	}
	return style.Render(fmt.Sprintf("%d/%d", n, m.maxInput))
}
