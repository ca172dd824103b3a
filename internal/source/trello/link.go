package trello

import (
	"context"
	"net"
	"net/url"
	"sync"
	"time"
)

// Link reports and restores network connectivity. On a handheld this is
// the radio; on a desktop it is a reachability probe.
type Link interface {
	Connected(ctx context.Context) bool
	Connect(ctx context.Context) error
}

// ProbeLink treats the link as up when a TCP connection to the API host
// can be opened. Connect is a no-op: the operating system owns the
// network, so reconnecting amounts to probing again.
type ProbeLink struct {
	Addr    string
	Timeout time.Duration

	// Fresh is how long a successful probe stands for the link being up.
	// Failed probes are never reused, so reconnect polling always dials.
	Fresh time.Duration

	dialer net.Dialer
	now    func() time.Time

	mu     sync.Mutex
	lastUp time.Time
}

// defaultProbeFresh covers the adapter check and the request that
// follows it within one user action.
const defaultProbeFresh = 2 * time.Second

// NewProbeLink returns a ProbeLink for the host of baseURL.
func NewProbeLink(baseURL string, timeout time.Duration) *ProbeLink {
	addr := "api.trello.com:443"
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		addr = u.Host
		if u.Port() == "" {
			port := "443"
			if u.Scheme == "http" {
				port = "80"
			}
			addr = net.JoinHostPort(u.Hostname(), port)
		}
	}
	return &ProbeLink{Addr: addr, Timeout: timeout, Fresh: defaultProbeFresh, now: time.Now}
}

func (l *ProbeLink) Connected(ctx context.Context) bool {
	now := time.Now
	if l.now != nil {
		now = l.now
	}

	l.mu.Lock()
	fresh := l.Fresh > 0 && !l.lastUp.IsZero() && now().Sub(l.lastUp) < l.Fresh
	l.mu.Unlock()
	if fresh {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()
	conn, err := l.dialer.DialContext(ctx, "tcp", l.Addr)
	if err != nil {
		return false
	}
	conn.Close()

	l.mu.Lock()
	l.lastUp = now()
	l.mu.Unlock()
	return true
}

func (l *ProbeLink) Connect(context.Context) error {
	return nil
}

// alwaysUp is used when no link is configured.
type alwaysUp struct{}

func (alwaysUp) Connected(context.Context) bool { return true }
func (alwaysUp) Connect(context.Context) error  { return nil }
