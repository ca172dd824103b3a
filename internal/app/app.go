package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/pocketboard/internal/keys"
	"github.com/nhle/pocketboard/internal/model"
	appsync "github.com/nhle/pocketboard/internal/sync"
	"github.com/nhle/pocketboard/internal/theme"
	"github.com/nhle/pocketboard/internal/ui"
	"github.com/nhle/pocketboard/internal/ui/cardlist"
	"github.com/nhle/pocketboard/internal/ui/command"
	"github.com/nhle/pocketboard/internal/ui/compose"
	"github.com/nhle/pocketboard/internal/ui/detail"
	helpview "github.com/nhle/pocketboard/internal/ui/help"
)

var errBackgroundRefresh = errors.New("background refresh failed")

// runMsg carries a session operation to be executed on the UI loop.
// The key handler returns it as a command so the busy label is drawn
// before the blocking call starts.
type runMsg struct {
	fn func(ctx context.Context)
}

// overlay is a view drawn over the current screen without touching the
// navigation history.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayCommand
)

// Option customizes the root model.
type Option func(*Model)

// WithCardURL sets how a card link is built for copying.
func WithCardURL(fn func(cardID string) string) Option {
	return func(m *Model) { m.cardURL = fn }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.writeClipboard = fn }
}

// WithTheme selects the markdown palette ("dark" or "light").
func WithTheme(name string) Option {
	return func(m *Model) { m.theme = name }
}

// WithPollInterval sets the background refresh interval. Zero disables
// periodic refreshes.
func WithPollInterval(d time.Duration) Option {
	return func(m *Model) { m.poller = appsync.New(d) }
}

// Model is the root Bubble Tea model. It routes keys to the session for
// the active screen and renders the matching view.
type Model struct {
	ctx     context.Context
	session *Session
	keys    *keys.KeyMap
	layout  ui.Layout
	theme   string

	cardList    cardlist.Model
	detail      detail.Model
	compose     compose.Model
	helpView    helpview.Model
	commandView command.Model

	poller  *appsync.Poller
	overlay overlay
	busy    string
	status  string
	ready   bool

	cardURL        func(cardID string) string
	writeClipboard func(string) error
}

// New creates the root model over session. ctx bounds every blocking
// call made from the UI.
func New(ctx context.Context, session *Session, opts ...Option) Model {
	k := keys.DefaultKeyMap()
	m := Model{
		ctx:            ctx,
		session:        session,
		keys:           k,
		theme:          "dark",
		poller:         appsync.New(2 * time.Minute),
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.cardList = cardlist.New(session.Nav(), 80, 24)
	m.detail = detail.New(k, m.theme, 80, 24)
	m.compose = compose.New(session.Nav().MaxInput(), 80, 24)
	m.helpView = helpview.New(k, 80, 24)
	m.commandView = command.New(80, 24)

	if session.State().Screen == model.ScreenSplash {
		m.busy = "Loading board…"
	}
	return m
}

// Init starts the session and the refresh ticker.
func (m Model) Init() tea.Cmd {
	start := m.start()
	return tea.Batch(
		func() tea.Msg { return runMsg{fn: start} },
		m.poller.Start(),
	)
}

// start returns the session start, which counts as the first refresh.
func (m Model) start() func(ctx context.Context) {
	s, p := m.session, m.poller
	return func(ctx context.Context) {
		s.Start(ctx)
		p.MarkSynced(time.Now())
	}
}

// Update handles messages and dispatches to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.cardList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.compose.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m, nil

	case runMsg:
		msg.fn(m.ctx)
		m.busy = ""
		m.syncViews()
		return m, nil

	case appsync.TickMsg:
		return m.handleTick(msg)

	case command.CommandMsg:
		m.overlay = overlayNone
		return m.execute(string(msg))

	case command.CancelMsg:
		m.overlay = overlayNone
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy != "" {
			return m, nil
		}
		m.session.Touch()
		m.status = ""
		return m.handleKey(msg)
	}

	return m, nil
}

// handleTick runs a background refresh when one is due and schedules
// the next tick.
func (m Model) handleTick(msg appsync.TickMsg) (tea.Model, tea.Cmd) {
	state := m.session.State()
	if m.busy == "" && m.overlay == overlayNone && m.poller.Due(state, msg.At, m.session.Idle()) {
		m.poller.Begin()
		var err error
		if !m.session.BackgroundRefresh(m.ctx) {
			err = errBackgroundRefresh
		}
		m.poller.Finish(msg.At, err)
	}
	return m, m.poller.Start()
}

// loadList returns a foreground list load that also restarts the
// background refresh interval.
func (m Model) loadList(preferCache bool) func(ctx context.Context) {
	s, p := m.session, m.poller
	return func(ctx context.Context) {
		if s.LoadList(ctx, preferCache) {
			p.MarkSynced(time.Now())
		}
	}
}

// run defers fn to the next Update, showing label in the meantime.
func (m Model) run(label string, fn func(ctx context.Context)) (tea.Model, tea.Cmd) {
	m.busy = label
	return m, func() tea.Msg { return runMsg{fn: fn} }
}

// syncViews pushes state changes into the views that cache rendering.
func (m *Model) syncViews() {
	state := m.session.State()
	if state.Screen == model.ScreenDetail {
		m.detail.SetCard(&state.Current)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.overlay = overlayNone
		}
		return m, nil
	case overlayCommand:
		var cmd tea.Cmd
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	}

	switch m.session.State().Screen {
	case model.ScreenList:
		return m.handleListKey(msg)
	case model.ScreenDetail:
		return m.handleDetailKey(msg)
	case model.ScreenAddComment, model.ScreenCreateCard:
		return m.handleEditKey(msg)
	case model.ScreenError:
		return m.handleErrorKey(msg)
	default:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
}

// handleCommonKey handles the keys shared by the list and detail
// screens. It reports whether msg was consumed.
func (m *Model) handleCommonKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return nil, true
	case key.Matches(msg, m.keys.Command):
		m.overlay = overlayCommand
		return m.commandView.Focus(), true
	case key.Matches(msg, m.keys.CopyLink):
		m.copyLink()
		return nil, true
	case key.Matches(msg, m.keys.Comment):
		m.session.BeginComment()
		return nil, true
	}
	return nil, false
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKey(msg); ok {
		return m, cmd
	}

	s := m.session
	nc := s.Nav()
	switch {
	case key.Matches(msg, m.keys.Down):
		nc.SelectNext()
	case key.Matches(msg, m.keys.Up):
		nc.SelectPrevious()
	case key.Matches(msg, m.keys.NextPage):
		nc.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		nc.PreviousPage()
	case key.Matches(msg, m.keys.Select):
		if _, ok := s.State().SelectedCard(); ok {
			return m.run("Opening card…", func(ctx context.Context) { s.OpenSelected(ctx) })
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.run("Refreshing…", m.loadList(false))
	case key.Matches(msg, m.keys.NewCard):
		s.BeginCreateCard()
	case key.Matches(msg, m.keys.Back):
		s.Back()
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKey(msg); ok {
		return m, cmd
	}

	s := m.session
	switch {
	case key.Matches(msg, m.keys.Back):
		s.Back()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.run("Reloading card…", func(ctx context.Context) { s.ReloadCard(ctx) })
	case key.Matches(msg, m.keys.Done):
		idx := m.detail.Cursor()
		items := s.State().Current.Checklist
		if idx >= len(items) {
			return m, nil
		}
		if items[idx].Complete {
			m.status = "Already done"
			return m, nil
		}
		return m.run("Checking off…", func(ctx context.Context) { s.MarkItemDone(ctx, idx) })
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// handleEditKey feeds typing into the input buffer. Letters that are
// bindings elsewhere (q, b, c) are plain text here; only esc leaves.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	nc := s.Nav()
	creating := s.State().Screen == model.ScreenCreateCard

	switch msg.Type {
	case tea.KeyEsc:
		s.Back()
	case tea.KeyEnter:
		if creating {
			return m.submitCard()
		}
		return m.submitComment()
	case tea.KeyTab:
		if creating {
			s.SwitchDraftField()
		}
	case tea.KeyBackspace:
		nc.Backspace()
	case tea.KeySpace:
		m.appendRunes([]rune{' '})
	case tea.KeyRunes:
		m.appendRunes(msg.Runes)
	}
	return m, nil
}

func (m *Model) appendRunes(runes []rune) {
	for _, r := range runes {
		if !m.session.Nav().Append(r) {
			m.status = fmt.Sprintf("Limit of %d characters reached", m.session.Nav().MaxInput())
			return
		}
	}
}

func (m Model) submitComment() (tea.Model, tea.Cmd) {
	if isBlank(m.session.Nav().Input()) {
		m.status = "Comment is empty"
		return m, nil
	}
	s := m.session
	return m.run("Sending comment…", func(ctx context.Context) { s.SubmitComment(ctx) })
}

func (m Model) submitCard() (tea.Model, tea.Cmd) {
	state := m.session.State()
	name := state.Draft.Name
	if state.DraftField == model.DraftName {
		name = m.session.Nav().Input()
	}
	if isBlank(name) {
		m.status = "Card name is required"
		return m, nil
	}
	s := m.session
	return m.run("Creating card…", func(ctx context.Context) { s.SubmitCard(ctx) })
}

func (m Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		s.DismissError()
		if s.State().Screen == model.ScreenList {
			return m.run("Refreshing…", m.loadList(false))
		}
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Select):
		s.DismissError()
		m.syncViews()
	}
	return m, nil
}

// execute runs a command palette entry.
func (m Model) execute(name string) (tea.Model, tea.Cmd) {
	s := m.session
	onList := s.State().Screen == model.ScreenList

	switch name {
	case command.Quit:
		return m, tea.Quit
	case command.Help:
		m.overlay = overlayHelp
	case command.Refresh:
		if onList {
			return m.run("Refreshing…", m.loadList(false))
		}
		m.status = "Refresh works from the list"
	case command.Offline:
		if onList {
			return m.run("Loading snapshot…", m.loadList(true))
		}
		m.status = "Offline view works from the list"
	case command.NewCard:
		if !s.BeginCreateCard() {
			m.status = "New cards are created from the list"
		}
	case command.ClearCache:
		if err := s.ClearCache(m.ctx); err != nil {
			m.status = "Clearing cache failed"
		} else {
			m.status = "Cache cleared"
		}
	default:
		m.status = fmt.Sprintf("Unknown command %q", name)
	}
	return m, nil
}

// copyLink puts the link of the card on screen on the clipboard.
func (m *Model) copyLink() {
	state := m.session.State()
	id := state.Current.Summary.ID
	if state.Screen == model.ScreenList {
		card, ok := state.SelectedCard()
		if !ok {
			return
		}
		id = card.ID
	}
	if m.cardURL == nil || id == "" {
		m.status = "No link available"
		return
	}
	if err := m.writeClipboard(m.cardURL(id)); err != nil {
		m.session.logger.Printf("copy link failed: %v", err)
		m.status = "Copy failed"
		return
	}
	m.status = "Link copied"
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("pocketboard", m.indicator())
	statusBar := m.layout.RenderStatusBar(m.footer())
	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	switch m.overlay {
	case overlayHelp:
		return m.helpView.View()
	case overlayCommand:
		return m.commandView.View()
	}

	state := m.session.State()
	switch state.Screen {
	case model.ScreenSplash:
		return m.splashView()
	case model.ScreenList:
		return m.cardList.View(state)
	case model.ScreenDetail:
		return m.detail.View()
	case model.ScreenAddComment, model.ScreenCreateCard:
		return m.compose.View(state, m.commentTarget())
	case model.ScreenError:
		return m.errorView()
	default:
		return ""
	}
}

func (m Model) splashView() string {
	return lipgloss.Place(
		m.layout.ContentWidth(), m.layout.ContentHeight(),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			theme.SectionStyle.Render("pocketboard"),
			lipgloss.NewStyle().Foreground(theme.ColorGray).Render("a pocket Trello list"),
		),
	)
}

func (m Model) errorView() string {
	e := m.session.State().Err
	if e == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		theme.ErrorTitleStyle.Render(e.Message),
		"",
		e.Suggestion,
		"",
		theme.StatusStyle(e.Status.String()).Render(e.Status.String()),
	))
}

// commentTarget returns the name of the card a comment goes to.
func (m Model) commentTarget() string {
	state := m.session.State()
	id := m.session.Nav().CardID()
	if state.Current.Summary.ID == id {
		return state.Current.Summary.Name
	}
	for _, c := range state.Cards {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// indicator returns the connectivity marker shown in the header.
func (m Model) indicator() string {
	state := m.session.State()
	var s string
	switch {
	case state.FromCache:
		s = theme.OfflineStyle.Render("◌ cached")
	case state.Online:
		s = theme.OnlineStyle.Render("● online")
	default:
		s = theme.OfflineStyle.Render("○ offline")
	}
	if st := m.poller.Status(); st.State != appsync.SyncIdle {
		s += " · " + st.State.String()
	}
	return s
}

// footer returns the status bar text for the active screen.
func (m Model) footer() string {
	if m.busy != "" {
		return m.busy
	}
	if m.status != "" {
		return m.status
	}

	switch m.overlay {
	case overlayHelp:
		return "? close help"
	case overlayCommand:
		return "enter run | esc cancel"
	}

	switch m.session.State().Screen {
	case model.ScreenList:
		return m.helpView.Hints(m.keys.ListHelp())
	case model.ScreenDetail:
		return m.helpView.Hints(m.keys.DetailHelp())
	case model.ScreenAddComment:
		return m.helpView.Hints(m.keys.EditHelp(false))
	case model.ScreenCreateCard:
		return m.helpView.Hints(m.keys.EditHelp(true))
	case model.ScreenError:
		return "enter/esc dismiss | r retry | q quit"
	default:
		return "q quit"
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
