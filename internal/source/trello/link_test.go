package trello

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestNewProbeLink_Addr(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"https://api.trello.com/1", "api.trello.com:443"},
		{"http://127.0.0.1:8080/1", "127.0.0.1:8080"},
		{"http://localhost", "localhost:80"},
		{"::bad", "api.trello.com:443"},
	}

	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			if got := NewProbeLink(tt.baseURL, time.Second).Addr; got != tt.want {
				t.Errorf("Addr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProbeLink_ReusesRecentSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := &ProbeLink{
		Addr:    ln.Addr().String(),
		Timeout: time.Second,
		Fresh:   2 * time.Second,
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	if !l.Connected(ctx) {
		t.Fatal("Connected() = false with a listener")
	}
	ln.Close()

	now = now.Add(time.Second)
	if !l.Connected(ctx) {
		t.Error("Connected() dialed again within the fresh window")
	}

	now = now.Add(2 * time.Second)
	if l.Connected(ctx) {
		t.Error("Connected() = true after the window with no listener")
	}
	if l.Connected(ctx) {
		t.Error("a failed probe was reused")
	}
}

func TestProbeLink_ZeroFreshAlwaysDials(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	l := &ProbeLink{Addr: ln.Addr().String(), Timeout: time.Second}

	if !l.Connected(context.Background()) {
		t.Fatal("Connected() = false with a listener")
	}
	ln.Close()
	if l.Connected(context.Background()) {
		t.Error("Connected() = true after the listener closed")
	}
}
