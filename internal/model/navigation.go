package model

// ScreenState is the UI mode the application is in.
type ScreenState int

const (
	ScreenSplash ScreenState = iota
	ScreenList
	ScreenDetail
	ScreenAddComment
	ScreenCreateCard
	ScreenError
)

func (s ScreenState) String() string {
	switch s {
	case ScreenSplash:
		return "splash"
	case ScreenList:
		return "list"
	case ScreenDetail:
		return "detail"
	case ScreenAddComment:
		return "add-comment"
	case ScreenCreateCard:
		return "create-card"
	case ScreenError:
		return "error"
	default:
		return "unknown"
	}
}

// NavigationContext is a snapshot of navigable state, captured when
// the user moves to another screen and restored when they come back.
type NavigationContext struct {
	Screen   ScreenState
	Selected int
	Page     int
	Input    string

	// CardID is the card the user was looking at when leaving this
	// context, if any.
	CardID string
}

// SamePosition reports whether two contexts would restore to the same
// visible state. The card association is not part of the comparison.
func (c NavigationContext) SamePosition(other NavigationContext) bool {
	return c.Screen == other.Screen &&
		c.Selected == other.Selected &&
		c.Page == other.Page &&
		c.Input == other.Input
}
