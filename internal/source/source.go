package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/pocketboard/internal/model"
)

// StatusError is returned by board clients for every failed call. It
// carries exactly one classification so callers never branch on raw
// HTTP status codes.
type StatusError struct {
	Status model.APIStatus
	Op     string
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Status, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError builds a StatusError for op.
func NewStatusError(status model.APIStatus, op string, err error) *StatusError {
	return &StatusError{Status: status, Op: op, Err: err}
}

// StatusOf returns the classification carried by err. A nil error is a
// success; an error without a StatusError in its chain is unknown.
func StatusOf(err error) model.APIStatus {
	if err == nil {
		return model.StatusSuccess
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return model.StatusUnknownError
}

// IsAuthError reports whether err (or any error in its chain) is an
// authentication failure.
func IsAuthError(err error) bool {
	return StatusOf(err) == model.StatusAuthError
}

// Origin tells where fetched entities came from.
type Origin int

const (
	OriginLive Origin = iota
	OriginCache
)

func (o Origin) String() string {
	if o == OriginCache {
		return "cache"
	}
	return "live"
}

// Board is the contract of the remote data client for a single list.
type Board interface {
	// Connected reports whether the network link is up.
	Connected(ctx context.Context) bool

	// FetchCardList returns the cards of the configured list. With
	// preferCache, or when the link is down, the local snapshot is
	// tried first.
	FetchCardList(ctx context.Context, preferCache bool) ([]model.CardSummary, Origin, error)

	// FetchCardDetails returns the full card for cardID, with the same
	// cache preference rules as FetchCardList.
	FetchCardDetails(ctx context.Context, cardID string, preferCache bool) (*model.FullCard, Origin, error)

	// CachedCardList and CachedCardDetails read only the snapshot and
	// never touch the network.
	CachedCardList(ctx context.Context) ([]model.CardSummary, error)
	CachedCardDetails(ctx context.Context, cardID string) (*model.FullCard, error)

	// AddComment posts text as a comment on cardID.
	AddComment(ctx context.Context, cardID, text string) error

	// MarkChecklistItemDone marks a check item complete.
	MarkChecklistItemDone(ctx context.Context, cardID, checklistID, itemID string) error

	// CreateCard adds a card to the configured list.
	CreateCard(ctx context.Context, name, description string) error
}
