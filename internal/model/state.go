package model

import "time"

// AppState is the single mutable record shared by the navigation
// controller and the session. It is created once at startup and
// mutated in place for the life of the process.
type AppState struct {
	// Screen is the active UI mode.
	Screen ScreenState

	// Cards is the most recently loaded card list. It is replaced
	// wholesale on every successful fetch.
	Cards []CardSummary

	// Current is the card shown on the detail screen.
	Current FullCard

	// Selected is the absolute index of the highlighted row in Cards.
	Selected int

	// Page is the zero-based page of Cards being shown.
	Page int

	// Input is the text being typed on the comment and create screens.
	Input string

	// Draft holds the create-card fields; Input edits DraftField.
	Draft      CardDraft
	DraftField DraftField

	// Online is false after a fetch failed for lack of connectivity.
	Online bool

	// FromCache is true when the displayed data was served from the
	// local snapshot instead of the network.
	FromCache bool

	// Err is the content of the error screen while it is shown.
	Err *ErrorInfo

	LastActivity time.Time
	NeedsRefresh bool
}

// NewAppState returns the startup state: the splash screen, offline,
// with a refresh pending.
func NewAppState() *AppState {
	return &AppState{
		Screen:       ScreenSplash,
		NeedsRefresh: true,
	}
}

// SelectedCard returns the card at the current selection, if any.
func (s *AppState) SelectedCard() (CardSummary, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Cards) {
		return CardSummary{}, false
	}
	return s.Cards[s.Selected], true
}
