package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"refresh", Refresh},
		{"  Sync ", Refresh},
		{"clear   cache", ClearCache},
		{"new card", NewCard},
		{"cached", Offline},
		{"Q", Quit},
		{"delete", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Parse(tt.in); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUpdate_Enter(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	for _, r := range "sync" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	if got := cmd(); got != CommandMsg(Refresh) {
		t.Errorf("msg = %#v, want %q", got, Refresh)
	}
	if m.input.Value() != "" {
		t.Errorf("input not reset: %q", m.input.Value())
	}
}

func TestUpdate_EmptyCancels(t *testing.T) {
	m := New(80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	if _, ok := cmd().(CancelMsg); !ok {
		t.Errorf("msg = %#v, want CancelMsg", cmd())
	}
}
