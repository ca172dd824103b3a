// Package sync schedules background refreshes of the card list. It never
// touches the network itself: it emits ticks into the Bubble Tea loop
// and decides, on that loop, whether a refresh is due.
package sync

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/pocketboard/internal/model"
)

// SyncState represents the outcome of the most recent refresh.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "syncing"
	case SyncError:
		return "stale"
	default:
		return "idle"
	}
}

// SyncStatus holds the refresh state shown in the header.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// TickMsg is delivered to the UI loop on every poll tick.
type TickMsg struct {
	At time.Time
}

// defaultTick is how often the poller wakes up to check for work.
const defaultTick = time.Second

// Poller decides when the list should be re-fetched. It is driven by
// TickMsg and is only used from the UI loop.
type Poller struct {
	interval time.Duration
	tick     time.Duration
	status   SyncStatus
}

// New creates a Poller that refreshes every interval. A non-positive
// interval disables periodic refreshes; explicit requests through
// AppState.NeedsRefresh are still honored.
func New(interval time.Duration) *Poller {
	return &Poller{interval: interval, tick: defaultTick}
}

// Start returns the command producing the first tick.
func (p *Poller) Start() tea.Cmd {
	return tea.Tick(p.tick, func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}

// Due reports whether a background refresh should run now. Refreshes
// only happen on the list screen, never while the user is idle, and
// never while a previous refresh is still marked running.
func (p *Poller) Due(state *model.AppState, now time.Time, idle bool) bool {
	if state.Screen != model.ScreenList || idle || p.status.State == SyncRunning {
		return false
	}
	if state.NeedsRefresh {
		return true
	}
	if p.interval <= 0 {
		return false
	}
	return p.status.LastSync.IsZero() || now.Sub(p.status.LastSync) >= p.interval
}

// Begin marks a refresh as running.
func (p *Poller) Begin() {
	p.status.State = SyncRunning
}

// Finish records the result of a refresh started with Begin.
func (p *Poller) Finish(now time.Time, err error) {
	p.status.LastSync = now
	p.status.Error = err
	if err != nil {
		p.status.State = SyncError
		return
	}
	p.status.State = SyncIdle
}

// MarkSynced records a refresh made outside the poller, restarting the
// interval without changing the state.
func (p *Poller) MarkSynced(now time.Time) {
	p.status.LastSync = now
}

// Status returns the current refresh status.
func (p *Poller) Status() SyncStatus {
	return p.status
}
