package app

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/nav"
	"github.com/nhle/pocketboard/internal/source"
)

// Session drives the board on behalf of the user. It decides what to
// fetch for each screen, falls back to the offline snapshot when the
// network fails, and routes unrecoverable failures to the error screen.
// All methods run synchronously on the caller's goroutine; the shared
// AppState must not be touched concurrently.
type Session struct {
	state       *model.AppState
	nav         *nav.Controller
	board       source.Board
	logger      *log.Logger
	idleTimeout time.Duration
	now         func() time.Time
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithIdleTimeout sets how long without input counts as idle.
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.idleTimeout = d }
}

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession wires a session over the shared state.
func NewSession(
	state *model.AppState,
	controller *nav.Controller,
	board source.Board,
	opts ...SessionOption,
) *Session {
	s := &Session{
		state:       state,
		nav:         controller,
		board:       board,
		logger:      log.New(io.Discard, "", 0),
		idleTimeout: 5 * time.Minute,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the shared application state.
func (s *Session) State() *model.AppState { return s.state }

// Nav returns the navigation controller.
func (s *Session) Nav() *nav.Controller { return s.nav }

// Start begins a new board session from the splash screen: history is
// discarded, the list is loaded, and the list becomes the root screen.
func (s *Session) Start(ctx context.Context) {
	s.nav.Clear()
	s.state.Err = nil
	s.Touch()

	// The board checks the link itself and serves the snapshot when it
	// is down.
	if !s.loadList(ctx, false) {
		return
	}
	s.nav.SetScreen(model.ScreenList)
	s.nav.SetSelection(0)
}

// Refresh reloads the card list from the network as a foreground fetch.
func (s *Session) Refresh(ctx context.Context) bool {
	return s.loadList(ctx, false)
}

// LoadList loads the card list as a foreground fetch. With preferCache
// the snapshot is shown without touching the network when it exists.
func (s *Session) LoadList(ctx context.Context, preferCache bool) bool {
	return s.loadList(ctx, preferCache)
}

// ClearCache drops every offline snapshot when the board keeps any.
func (s *Session) ClearCache(ctx context.Context) error {
	c, ok := s.board.(cacheClearer)
	if !ok {
		return nil
	}
	if err := c.ClearCache(ctx); err != nil {
		s.logger.Printf("clear cache failed: %v", err)
		return err
	}
	s.state.FromCache = false
	return nil
}

type cacheClearer interface {
	ClearCache(ctx context.Context) error
}

// BackgroundRefresh reloads the list without ever showing the error
// screen. Failures leave the current cards in place.
func (s *Session) BackgroundRefresh(ctx context.Context) bool {
	cards, origin, err := s.board.FetchCardList(ctx, false)
	if err != nil {
		s.noteFailure(err)
		return false
	}
	s.applyCards(cards, origin)
	return true
}

// loadList fetches the list, falling back to the snapshot on network
// failure. It reports whether cards were applied.
func (s *Session) loadList(ctx context.Context, preferCache bool) bool {
	cards, origin, err := s.board.FetchCardList(ctx, preferCache)
	if err != nil && source.StatusOf(err) == model.StatusNetworkError {
		if cached, cerr := s.board.CachedCardList(ctx); cerr == nil {
			s.logger.Printf("list fetch failed, using snapshot: %v", err)
			cards, origin, err = cached, source.OriginCache, nil
		}
	}
	if err != nil {
		s.logger.Printf("list fetch failed: %v", err)
		s.noteFailure(err)
		s.ShowError(source.StatusOf(err))
		return false
	}
	s.applyCards(cards, origin)
	return true
}

func (s *Session) applyCards(cards []model.CardSummary, origin source.Origin) {
	s.state.Cards = cards
	s.nav.Normalize()
	s.noteOrigin(origin)
	s.state.NeedsRefresh = false
}

// OpenSelected loads the selected card and shows its detail screen. On
// failure the list stays in place under the error screen.
func (s *Session) OpenSelected(ctx context.Context) bool {
	card, ok := s.state.SelectedCard()
	if !ok {
		return false
	}
	full, ok := s.loadCard(ctx, card.ID, false)
	if !ok {
		return false
	}
	s.nav.Push(model.ScreenDetail, s.state.Selected, s.state.Page, card.ID)
	s.state.Current = *full
	return true
}

// ReloadCard re-fetches the card on the detail screen.
func (s *Session) ReloadCard(ctx context.Context) bool {
	id := s.nav.CardID()
	if id == "" {
		return false
	}
	full, ok := s.loadCard(ctx, id, false)
	if !ok {
		return false
	}
	s.state.Current = *full
	return true
}

// loadCard fetches a card, falling back to its snapshot on network
// failure. The current card is never modified here.
func (s *Session) loadCard(ctx context.Context, id string, preferCache bool) (*model.FullCard, bool) {
	full, origin, err := s.board.FetchCardDetails(ctx, id, preferCache)
	if err != nil && source.StatusOf(err) == model.StatusNetworkError {
		if cached, cerr := s.board.CachedCardDetails(ctx, id); cerr == nil {
			s.logger.Printf("card %s fetch failed, using snapshot: %v", id, err)
			full, origin, err = cached, source.OriginCache, nil
		}
	}
	if err != nil {
		s.logger.Printf("card %s fetch failed: %v", id, err)
		s.noteFailure(err)
		s.ShowError(source.StatusOf(err))
		return nil, false
	}
	s.noteOrigin(origin)
	return full, true
}

// BeginComment opens the comment editor for the card on screen.
func (s *Session) BeginComment() bool {
	if s.state.Screen != model.ScreenDetail && s.state.Screen != model.ScreenList {
		return false
	}
	id := s.nav.CardID()
	if s.state.Screen == model.ScreenList {
		card, ok := s.state.SelectedCard()
		if !ok {
			return false
		}
		id = card.ID
	}
	s.nav.Push(model.ScreenAddComment, s.state.Selected, s.state.Page, id)
	return true
}

// SubmitComment posts the input buffer as a comment. An empty buffer is
// refused. On success the editor closes and, when coming from the
// detail screen, the card is reloaded to show the new comment.
func (s *Session) SubmitComment(ctx context.Context) bool {
	if s.state.Screen != model.ScreenAddComment {
		return false
	}
	text := strings.TrimSpace(s.nav.Input())
	id := s.nav.CardID()
	if text == "" || id == "" {
		return false
	}

	if err := s.board.AddComment(ctx, id, text); err != nil {
		s.logger.Printf("add comment failed: %v", err)
		s.noteFailure(err)
		s.ShowError(source.StatusOf(err))
		return false
	}

	s.state.Online = true
	s.nav.Pop()
	if s.state.Screen == model.ScreenDetail {
		s.ReloadCard(ctx)
	}
	return true
}

// BeginCreateCard opens the card composer with an empty draft.
func (s *Session) BeginCreateCard() bool {
	if s.state.Screen != model.ScreenList {
		return false
	}
	s.state.Draft = model.CardDraft{}
	s.state.DraftField = model.DraftName
	s.nav.Push(model.ScreenCreateCard, s.state.Selected, s.state.Page, "")
	return true
}

// SwitchDraftField stores the input buffer into the active draft field
// and starts editing the other one.
func (s *Session) SwitchDraftField() {
	if s.state.Screen != model.ScreenCreateCard {
		return
	}
	s.storeDraftInput()
	if s.state.DraftField == model.DraftName {
		s.state.DraftField = model.DraftDescription
		s.nav.SetInput(s.state.Draft.Description)
	} else {
		s.state.DraftField = model.DraftName
		s.nav.SetInput(s.state.Draft.Name)
	}
}

func (s *Session) storeDraftInput() {
	if s.state.DraftField == model.DraftName {
		s.state.Draft.Name = s.nav.Input()
	} else {
		s.state.Draft.Description = s.nav.Input()
	}
}

// SubmitCard creates a card from the draft. A blank name is refused. On
// success the composer closes and the list is reloaded.
func (s *Session) SubmitCard(ctx context.Context) bool {
	if s.state.Screen != model.ScreenCreateCard {
		return false
	}
	s.storeDraftInput()
	name := strings.TrimSpace(s.state.Draft.Name)
	if name == "" {
		return false
	}

	if err := s.board.CreateCard(ctx, name, strings.TrimSpace(s.state.Draft.Description)); err != nil {
		s.logger.Printf("create card failed: %v", err)
		s.noteFailure(err)
		s.ShowError(source.StatusOf(err))
		return false
	}

	s.state.Online = true
	s.state.Draft = model.CardDraft{}
	s.state.NeedsRefresh = true
	s.nav.Pop()
	s.Refresh(ctx)
	return true
}

// MarkItemDone completes checklist item index of the current card and
// reloads the card. Items already complete are left alone.
func (s *Session) MarkItemDone(ctx context.Context, index int) bool {
	if s.state.Screen != model.ScreenDetail {
		return false
	}
	items := s.state.Current.Checklist
	if index < 0 || index >= len(items) || items[index].Complete {
		return false
	}
	item := items[index]

	if err := s.board.MarkChecklistItemDone(ctx, s.state.Current.Summary.ID, item.ChecklistID, item.ID); err != nil {
		s.logger.Printf("mark item done failed: %v", err)
		s.noteFailure(err)
		s.ShowError(source.StatusOf(err))
		return false
	}

	s.state.Online = true
	s.state.NeedsRefresh = true
	s.ReloadCard(ctx)
	return true
}

// Back returns to the previous screen. Leaving the error screen also
// clears the error.
func (s *Session) Back() bool {
	if s.state.Screen == model.ScreenError {
		s.DismissError()
		return true
	}
	if s.state.Screen == model.ScreenCreateCard {
		s.state.Draft = model.CardDraft{}
	}
	return s.nav.Pop()
}

// ShowError pushes the error screen for status, keeping the current
// selection so the screen underneath is restored unchanged.
func (s *Session) ShowError(status model.APIStatus) {
	e := model.Describe(status)
	s.state.Err = &e
	s.nav.Push(model.ScreenError, s.state.Selected, s.state.Page, "")
}

// DismissError leaves the error screen. When the failure happened before
// any screen was established the list becomes the root.
func (s *Session) DismissError() {
	if s.state.Screen != model.ScreenError {
		return
	}
	s.state.Err = nil
	s.nav.Pop()
	if s.state.Screen == model.ScreenSplash || s.state.Screen == model.ScreenError {
		s.nav.Clear()
		s.nav.SetScreen(model.ScreenList)
		s.nav.Normalize()
	}
}

// noteOrigin updates the connectivity and cache flags after a
// successful fetch.
func (s *Session) noteOrigin(origin source.Origin) {
	if origin == source.OriginCache {
		s.state.Online = false
		s.state.FromCache = true
		return
	}
	s.state.Online = true
	s.state.FromCache = false
}

// noteFailure marks the display offline for connectivity failures.
// Other classes (rate limiting, auth) say nothing about the link.
func (s *Session) noteFailure(err error) {
	if source.StatusOf(err) == model.StatusNetworkError {
		s.state.Online = false
	}
}

// Touch records user activity.
func (s *Session) Touch() {
	s.state.LastActivity = s.now()
}

// Idle reports whether the user has been inactive longer than the idle
// timeout.
func (s *Session) Idle() bool {
	if s.state.LastActivity.IsZero() || s.idleTimeout <= 0 {
		return false
	}
	return s.now().Sub(s.state.LastActivity) >= s.idleTimeout
}
