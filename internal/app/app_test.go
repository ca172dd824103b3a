package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/source"
	appsync "github.com/nhle/pocketboard/internal/sync"
	"github.com/nhle/pocketboard/internal/ui/command"
)

type harness struct {
	t      *testing.T
	m      Model
	board  *fakeBoard
	copied []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, board: newFakeBoard()}
	h.m = New(context.Background(), newSession(t, h.board),
		WithCardURL(func(id string) string { return "https://example.test/c/" + id }),
		WithClipboard(func(text string) error {
			h.copied = append(h.copied, text)
			return nil
		}),
	)
	h.update(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.update(runMsg{fn: h.m.start()})
	return h
}

func (h *harness) state() *model.AppState { return h.m.session.State() }

// update feeds msg to the model and runs any deferred session operation
// it schedules.
func (h *harness) update(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	if cmd == nil {
		return
	}
	if r, ok := cmd().(runMsg); ok {
		h.update(r)
	}
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.update(keyMsg(k))
	}
}

func (h *harness) typeText(text string) {
	h.t.Helper()
	for _, r := range text {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestModel_StartShowsList(t *testing.T) {
	h := newHarness(t)

	if h.state().Screen != model.ScreenList {
		t.Fatalf("screen = %v, want list", h.state().Screen)
	}
	if h.m.busy != "" {
		t.Errorf("busy = %q after start", h.m.busy)
	}
	view := h.m.View()
	for _, want := range []string{"Alpha", "Beta", "Page 1/2", "online"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Gamma") {
		t.Error("second page rendered on first page")
	}
}

func TestModel_PagingKeys(t *testing.T) {
	h := newHarness(t)

	h.press("l")
	if h.state().Page != 1 || h.state().Selected != 2 {
		t.Fatalf("after next page: page=%d selected=%d", h.state().Page, h.state().Selected)
	}
	if !strings.Contains(h.m.View(), "Gamma") {
		t.Error("second page not rendered")
	}

	h.press("h", "j")
	if h.state().Page != 0 || h.state().Selected != 1 {
		t.Errorf("page=%d selected=%d, want 0/1", h.state().Page, h.state().Selected)
	}
}

func TestModel_OpenAndCheckOff(t *testing.T) {
	h := newHarness(t)

	h.press("enter")
	if h.state().Screen != model.ScreenDetail {
		t.Fatalf("screen = %v, want detail", h.state().Screen)
	}
	if !strings.Contains(h.m.View(), "Checklist (1/2)") {
		t.Error("checklist header missing from detail view")
	}

	h.press("d")
	if len(h.board.checkedOff) != 1 || h.board.checkedOff[0] != "cl1/i1" {
		t.Fatalf("checkedOff = %v", h.board.checkedOff)
	}

	// The second item is already complete.
	h.press("j", "d")
	if len(h.board.checkedOff) != 1 {
		t.Errorf("completed item checked off again: %v", h.board.checkedOff)
	}
	if h.m.status != "Already done" {
		t.Errorf("status = %q", h.m.status)
	}

	h.press("esc")
	if h.state().Screen != model.ScreenList {
		t.Errorf("screen = %v after back, want list", h.state().Screen)
	}
}

func TestModel_CommentFromDetail(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "c")
	if h.state().Screen != model.ScreenAddComment {
		t.Fatalf("screen = %v, want add-comment", h.state().Screen)
	}
	if !strings.Contains(h.m.View(), "Comment on Alpha") {
		t.Error("comment target missing")
	}

	// Bound letters are plain text while typing.
	h.typeText("bq c")
	h.press("enter")

	if len(h.board.comments) != 1 || h.board.comments[0] != "bq c" {
		t.Fatalf("comments = %v", h.board.comments)
	}
	if h.state().Screen != model.ScreenDetail {
		t.Errorf("screen = %v, want detail", h.state().Screen)
	}
}

func TestModel_EmptyCommentRefused(t *testing.T) {
	h := newHarness(t)
	h.press("c")
	h.typeText("  ")
	h.press("enter")

	if h.state().Screen != model.ScreenAddComment {
		t.Errorf("screen = %v, want add-comment", h.state().Screen)
	}
	if h.m.status != "Comment is empty" {
		t.Errorf("status = %q", h.m.status)
	}
	if len(h.board.comments) != 0 {
		t.Errorf("comments = %v", h.board.comments)
	}
}

func TestModel_CreateCard(t *testing.T) {
	h := newHarness(t)
	h.press("n")
	h.typeText("Ship it")
	h.press("tab")
	h.typeText("today")
	h.press("backspace", "enter")

	if len(h.board.created) != 1 {
		t.Fatalf("created = %v", h.board.created)
	}
	if got := h.board.created[0]; got.Name != "Ship it" || got.Description != "toda" {
		t.Errorf("created = %+v", got)
	}
	if h.state().Screen != model.ScreenList {
		t.Errorf("screen = %v, want list", h.state().Screen)
	}
}

func TestModel_CopyLink(t *testing.T) {
	h := newHarness(t)
	h.press("j", "y")

	if len(h.copied) != 1 || h.copied[0] != "https://example.test/c/b" {
		t.Fatalf("copied = %v", h.copied)
	}
	if h.m.status != "Link copied" {
		t.Errorf("status = %q", h.m.status)
	}
}

func TestModel_KeysIgnoredWhileBusy(t *testing.T) {
	h := newHarness(t)

	next, cmd := h.m.Update(keyMsg("enter"))
	h.m = next.(Model)
	if cmd == nil || h.m.busy == "" {
		t.Fatal("open did not defer")
	}
	h.press("j")
	if h.state().Selected != 0 {
		t.Errorf("selection moved while busy: %d", h.state().Selected)
	}
}

func TestModel_ErrorScreen(t *testing.T) {
	h := newHarness(t)
	h.board.listErr = source.NewStatusError(model.StatusAuthError, "fetch list", nil)

	h.press("r")
	if h.state().Screen != model.ScreenError {
		t.Fatalf("screen = %v, want error", h.state().Screen)
	}
	if !strings.Contains(h.m.View(), "Authentication failed") {
		t.Error("error message not rendered")
	}

	h.press("esc")
	if h.state().Screen != model.ScreenList || h.state().Err != nil {
		t.Errorf("screen = %v err = %v after dismiss", h.state().Screen, h.state().Err)
	}
}

func TestModel_TickRefreshesWhenRequested(t *testing.T) {
	h := newHarness(t)
	calls := h.board.listCalls

	tick := func() {
		next, _ := h.m.Update(appsync.TickMsg{At: time.Now()})
		h.m = next.(Model)
	}

	tick()
	if h.board.listCalls != calls {
		t.Fatal("refresh ran before it was due")
	}

	h.state().NeedsRefresh = true
	h.board.cards = append(h.board.cards, model.CardSummary{ID: "d", Name: "Delta"})
	tick()

	if h.board.listCalls != calls+1 {
		t.Errorf("listCalls = %d, want %d", h.board.listCalls, calls+1)
	}
	if len(h.state().Cards) != 4 {
		t.Errorf("cards = %d, want 4", len(h.state().Cards))
	}
}

func TestModel_Commands(t *testing.T) {
	tests := []struct {
		name       string
		cmd        string
		wantStatus string
		wantScreen model.ScreenState
	}{
		{"clear cache", command.ClearCache, "Cache cleared", model.ScreenList},
		{"new card", command.NewCard, "", model.ScreenCreateCard},
		{"unknown", "frobnicate", `Unknown command "frobnicate"`, model.ScreenList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.update(command.CommandMsg(tt.cmd))

			if h.m.status != tt.wantStatus {
				t.Errorf("status = %q, want %q", h.m.status, tt.wantStatus)
			}
			if h.state().Screen != tt.wantScreen {
				t.Errorf("screen = %v, want %v", h.state().Screen, tt.wantScreen)
			}
		})
	}
}
