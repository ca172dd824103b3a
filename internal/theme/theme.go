package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the screen title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the card detail content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for card rows.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused card row.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SectionStyle titles the blocks of the detail screen.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// InputStyle frames the text being typed.
var InputStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBlue).
	Padding(0, 1)

// InactiveInputStyle frames a form field that is not being edited.
var InactiveInputStyle = InputStyle.BorderForeground(ColorSubtle)

// ErrorTitleStyle is the heading of the error screen.
var ErrorTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// OfflineStyle marks the connectivity indicator when offline.
var OfflineStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOrange)

// OnlineStyle marks the connectivity indicator when online.
var OnlineStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// DoneStyle marks a card whose checklist is complete.
var DoneStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// LabelColor maps a Trello label color name to a display color. Shades
// the palette lacks fall back to their nearest base color; unknown
// names are gray.
func LabelColor(name string) lipgloss.AdaptiveColor {
	switch name {
	case "red", "pink":
		return ColorRed
	case "green", "lime":
		return ColorGreen
	case "blue", "sky":
		return ColorBlue
	case "yellow":
		return ColorYellow
	case "orange":
		return ColorOrange
	case "purple":
		return ColorMagenta
	default:
		return ColorGray
	}
}

// LabelStyle returns the swatch style for a label color.
func LabelStyle(name string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LabelColor(name))
}

// StatusStyle returns a color-coded style for an API outcome name.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case "success":
		return base.Foreground(ColorGreen)
	case "network-error":
		return base.Foreground(ColorOrange)
	case "rate-limited":
		return base.Foreground(ColorYellow)
	case "auth-error", "not-found", "parse-error":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}
