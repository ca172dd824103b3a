package sync

import (
	"errors"
	"testing"
	"time"

	"github.com/nhle/pocketboard/internal/model"
)

func TestPoller_Due(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		screen  model.ScreenState
		needs   bool
		idle    bool
		last    time.Time
		running bool
		want    bool
	}{
		{"explicit request", model.ScreenList, true, false, now, false, true},
		{"interval elapsed", model.ScreenList, false, false, now.Add(-2 * time.Minute), false, true},
		{"interval not elapsed", model.ScreenList, false, false, now.Add(-time.Minute), false, false},
		{"never synced", model.ScreenList, false, false, time.Time{}, false, true},
		{"idle", model.ScreenList, true, true, time.Time{}, false, false},
		{"detail screen", model.ScreenDetail, true, false, time.Time{}, false, false},
		{"already running", model.ScreenList, true, false, time.Time{}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(2 * time.Minute)
			p.status.LastSync = tt.last
			if tt.running {
				p.Begin()
			}
			state := &model.AppState{Screen: tt.screen, NeedsRefresh: tt.needs}

			if got := p.Due(state, now, tt.idle); got != tt.want {
				t.Errorf("Due() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPoller_DisabledInterval(t *testing.T) {
	p := New(0)
	state := &model.AppState{Screen: model.ScreenList}
	now := time.Now()

	if p.Due(state, now, false) {
		t.Error("Due() with polling disabled")
	}
	state.NeedsRefresh = true
	if !p.Due(state, now, false) {
		t.Error("explicit refresh ignored with polling disabled")
	}
}

func TestPoller_Finish(t *testing.T) {
	p := New(time.Minute)
	now := time.Now()

	p.Begin()
	if p.Status().State != SyncRunning {
		t.Fatalf("state = %v, want running", p.Status().State)
	}

	p.Finish(now, errors.New("offline"))
	if s := p.Status(); s.State != SyncError || !s.LastSync.Equal(now) || s.Error == nil {
		t.Errorf("status = %+v", s)
	}

	p.Begin()
	p.Finish(now, nil)
	if s := p.Status(); s.State != SyncIdle || s.Error != nil {
		t.Errorf("status = %+v", s)
	}
}
