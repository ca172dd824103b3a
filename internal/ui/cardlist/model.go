package cardlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/nav"
	"github.com/nhle/pocketboard/internal/theme"
)

// Model renders one page of the card list. Paging and selection belong
// to the navigation controller; this view only reads them.
type Model struct {
	nav    *nav.Controller
	width  int
	height int
}

// New creates a card list view over the controller's state.
func New(controller *nav.Controller, width, height int) Model {
	return Model{nav: controller, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the current page of state.Cards.
func (m Model) View(state *model.AppState) string {
	n := len(state.Cards)
	if n == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No cards in this list")
	}

	start, end := m.nav.PageBounds(state.Page, n)
	rows := make([]string, 0, end-start+2)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(state.Cards[i], i == state.Selected))
	}

	pager := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		MarginTop(1).
		Render(fmt.Sprintf("Page %d/%d · %d cards", state.Page+1, m.nav.TotalPages(n), n))
	rows = append(rows, pager)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderRow draws a single card line: label swatches, name, and the
// due and done markers.
func (m Model) renderRow(card model.CardSummary, selected bool) string {
	var b strings.Builder

	for _, c := range card.LabelColors {
		b.WriteString(theme.LabelStyle(c).Render("■"))
	}
	if len(card.LabelColors) > 0 {
		b.WriteByte(' ')
	}

	b.WriteString(truncate(card.Name, max(10, m.width-12)))

	if card.HasDueDate {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(" ◷"))
	}
	if card.IsDone {
		b.WriteString(theme.DoneStyle.Render(" ✓"))
	}

	if selected {
		return theme.SelectedItemStyle.Render(b.String())
	}
	return theme.ListItemStyle.Render(b.String())
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
