package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Trello.BaseURL != "https://api.trello.com/1" {
		t.Errorf("base url = %q", cfg.Trello.BaseURL)
	}
	if cfg.Trello.RateLimit() != 5*time.Second || cfg.Trello.Timeout() != 10*time.Second {
		t.Errorf("pacing = %v/%v", cfg.Trello.RateLimit(), cfg.Trello.Timeout())
	}
	if cfg.Trello.ReconnectAttempts != 20 || cfg.Trello.ReconnectDelay() != 500*time.Millisecond {
		t.Errorf("reconnect = %d/%v", cfg.Trello.ReconnectAttempts, cfg.Trello.ReconnectDelay())
	}
	if cfg.Display.CardsPerPage != 5 || cfg.Display.MaxTextLength != 100 {
		t.Errorf("display = %+v", cfg.Display)
	}
	if cfg.Display.IdleTimeout() != 5*time.Minute {
		t.Errorf("idle = %v", cfg.Display.IdleTimeout())
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
trello:
  list_id: abc123
  rate_limit_ms: 1000
cache:
  backend: sqlite
  dir: /tmp/pb
display:
  cards_per_page: 8
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Trello.ListID != "abc123" || cfg.Trello.RateLimitMS != 1000 {
		t.Errorf("trello = %+v", cfg.Trello)
	}
	if cfg.Trello.TimeoutSec != 10 {
		t.Errorf("unset key lost its default: timeout = %d", cfg.Trello.TimeoutSec)
	}
	if cfg.Cache.Backend != CacheBackendSQLite || cfg.Cache.Dir != "/tmp/pb" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Display.CardsPerPage != 8 || cfg.Display.MaxTextLength != 100 {
		t.Errorf("display = %+v", cfg.Display)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("POCKETBOARD_TRELLO_LIST_ID", "from-env")
	t.Setenv("POCKETBOARD_DISPLAY_CARDS_PER_PAGE", "3")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Trello.ListID != "from-env" || cfg.Display.CardsPerPage != 3 {
		t.Errorf("list/page = %q/%d", cfg.Trello.ListID, cfg.Display.CardsPerPage)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero page size", "display:\n  cards_per_page: 0\n"},
		{"unknown backend", "cache:\n  backend: redis\n"},
		{"negative rate", "trello:\n  rate_limit_ms: -1\n"},
		{"malformed yaml", "trello: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig() accepted invalid config")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Trello.ListID = "list-42"
	cfg.Cache.Backend = CacheBackendSQLite
	cfg.Display.CardsPerPage = 7

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got.Trello.ListID != "list-42" || got.Cache.Backend != CacheBackendSQLite || got.Display.CardsPerPage != 7 {
		t.Errorf("round trip = %+v", got)
	}
}
