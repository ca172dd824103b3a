package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// Snapshots persists the verbatim body of the last successful response
// per logical resource. Existence is the only freshness signal; callers
// that care about staleness use ModTime.
type Snapshots interface {
	// Load returns the stored bytes for key or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the snapshot for key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot for key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every snapshot.
	Clear(ctx context.Context) error

	// ModTime returns when key was last saved, or ErrNotFound.
	ModTime(ctx context.Context, key string) (time.Time, error)
}
