package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nhle/pocketboard/internal/credential"
	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/source/trello"
	"github.com/nhle/pocketboard/internal/store"
)

// board is an adapter together with the resources it holds open.
type board struct {
	*trello.Adapter
	close func() error
}

// Close releases the snapshot cache.
func (b *board) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openBoard builds the Trello adapter from the loaded configuration and
// the stored credentials.
func openBoard(a *App, logger *log.Logger) (*board, error) {
	cfg := a.cfg
	if cfg.Trello.ListID == "" {
		return nil, fmt.Errorf("trello.list_id is not set; run `pocketboard setup`")
	}

	creds, err := loadCredentials(a)
	if err != nil {
		return nil, err
	}

	cache, closeCache, err := openCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	client := trello.NewClient(cfg.Trello.BaseURL, creds.APIKey, creds.Token,
		trello.WithTimeout(cfg.Trello.Timeout()),
		trello.WithRateLimit(cfg.Trello.RateLimit()),
		trello.WithReconnect(cfg.Trello.ReconnectAttempts, cfg.Trello.ReconnectDelay()),
		trello.WithLink(trello.NewProbeLink(cfg.Trello.BaseURL, cfg.Trello.Timeout())),
		trello.WithLogger(logger),
	)

	return &board{
		Adapter: trello.NewAdapter(client, cache, cfg.Trello.ListID, logger),
		close:   closeCache,
	}, nil
}

func loadCredentials(a *App) (credential.Credentials, error) {
	cs, err := a.openCredentials()
	if err != nil {
		return credential.Credentials{}, err
	}
	creds, err := cs.Load()
	if err != nil {
		return credential.Credentials{}, fmt.Errorf("%w; run `pocketboard setup`", err)
	}
	return creds, nil
}

// openCache opens the configured snapshot backend. The returned closer
// is never nil.
func openCache(cfg model.CacheConfig) (store.Snapshots, func() error, error) {
	switch cfg.Backend {
	case model.CacheBackendSQLite:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating cache directory %s: %w", cfg.Dir, err)
		}
		s, err := store.NewSQLiteStore(filepath.Join(cfg.Dir, "cache.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		s, err := store.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	}
}
