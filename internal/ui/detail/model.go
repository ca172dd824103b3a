package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/pocketboard/internal/keys"
	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/theme"
)

// Model is the card detail view. It owns the scroll position and the
// checklist cursor; the card itself lives in AppState.Current.
type Model struct {
	card     *model.FullCard
	viewport viewport.Model
	keys     *keys.KeyMap
	theme    string
	cursor   int
	width    int
	height   int
}

// New creates a new detail view model. theme is the configured
// display theme and selects the markdown palette.
func New(keys *keys.KeyMap, theme string, width, height int) Model {
	vp := viewport.New(width, max(0, height-2))
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		theme:    theme,
		width:    width,
		height:   height,
	}
}

// SetCard shows card and resets the scroll position. The cursor is kept
// when the same card is reloaded so checking items off in a row works.
func (m *Model) SetCard(card *model.FullCard) {
	same := m.card != nil && card != nil && m.card.Summary.ID == card.Summary.ID
	m.card = card
	if !same {
		m.cursor = 0
		m.viewport.GotoTop()
	}
	if card != nil && m.cursor >= len(card.Checklist) {
		m.cursor = max(0, len(card.Checklist)-1)
	}
	m.refresh()
}

// Cursor returns the index of the highlighted checklist item.
func (m Model) Cursor() int {
	return m.cursor
}

// Update moves the checklist cursor and scrolls the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.card != nil && len(m.card.Checklist) > 0 {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.cursor = min(m.cursor+1, len(m.card.Checklist)-1)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.cursor = max(m.cursor-1, 0)
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.card == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No card selected")
	}
	return m.viewport.View()
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(0, height-2)
	m.refresh()
}

// refresh re-renders the content and keeps the cursor row on screen.
func (m *Model) refresh() {
	content, cursorLine := m.renderContent()
	m.viewport.SetContent(content)
	if cursorLine < 0 {
		return
	}
	if cursorLine < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorLine)
	} else if bottom := m.viewport.YOffset + m.viewport.Height - 1; cursorLine > bottom {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}

// renderContent builds the viewport content and returns the line of the
// highlighted checklist item, or -1 when there is none.
func (m Model) renderContent() (string, int) {
	if m.card == nil {
		return "", -1
	}
	card := m.card

	muted := lipgloss.NewStyle().Foreground(theme.ColorGray)
	sep := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(0, min(m.width-4, 80))))

	var sections []string
	sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(card.Summary.Name))

	var badges []string
	for _, c := range card.Summary.LabelColors {
		badges = append(badges, theme.LabelStyle(c).Render("■ "+c))
	}
	if card.DueDate != "" {
		badges = append(badges, muted.Render("Due ")+card.DueDate)
	}
	if len(badges) > 0 {
		sections = append(sections, strings.Join(badges, "  "))
	}
	sections = append(sections, "", sep, "", theme.SectionStyle.Render("Description"))

	if desc := renderMarkdown(card.Description, m.theme, m.width-4); desc != "" {
		sections = append(sections, desc)
	} else {
		sections = append(sections, muted.Italic(true).Render("No description"))
	}

	cursorLine := -1
	if len(card.Checklist) > 0 {
		sections = append(sections, "", sep, "", theme.SectionStyle.Render(
			fmt.Sprintf("Checklist (%d/%d)", card.CompletedItems(), len(card.Checklist)),
		))
		cursorLine = lipgloss.Height(strings.Join(sections, "\n")) + m.cursor
		for i, item := range card.Checklist {
			sections = append(sections, m.renderItem(item, i == m.cursor))
		}
	}

	if len(card.Comments) > 0 {
		sections = append(sections, "", sep, "", theme.SectionStyle.Render(
			fmt.Sprintf("Comments (%d)", len(card.Comments)),
		))
		for _, c := range card.Comments {
			sections = append(sections, renderComment(c))
		}
	}

	return strings.Join(sections, "\n"), cursorLine
}

func (m Model) renderItem(item model.ChecklistItem, selected bool) string {
	box := "[ ]"
	name := item.Name
	if item.Complete {
		box = theme.DoneStyle.Render("[x]")
		name = lipgloss.NewStyle().Foreground(theme.ColorGray).Strikethrough(true).Render(name)
	}
	if selected {
		return lipgloss.NewStyle().Foreground(theme.ColorBlue).Bold(true).Render("› ") + box + " " + name
	}
	return "  " + box + " " + name
}

// renderComment bolds the author of a "<author>: <text>" line.
func renderComment(c string) string {
	author, text, ok := strings.Cut(c, ": ")
	if !ok {
		return c
	}
	return lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render(author) + "  " + text
}
