package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/source"
	"github.com/nhle/pocketboard/internal/store"
)

// Snapshot keys. The list has a fixed key; each card detail is keyed by
// its identifier.
const (
	ListCacheKey       = "cache_list.json"
	detailCacheKeyHead = "cache_detail_"
)

// DetailCacheKey returns the snapshot key for a card's detail response.
func DetailCacheKey(cardID string) string {
	return detailCacheKeyHead + cardID + ".json"
}

// CardURL returns the short link of a card in the Trello web app.
func CardURL(cardID string) string {
	return "https://trello.com/c/" + cardID
}

// Request parameters, matching what the parsers read.
var (
	listParams = url.Values{
		"fields": {"name,id,labels,due,badges"},
	}
	detailParams = url.Values{
		"fields":        {"name,desc,due,labels,badges"},
		"actions":       {actionTypeComment},
		"actions_limit": {"50"},
		"checklists":    {"all"},
	}
)

// Adapter implements source.Board for one Trello list. It is stateless
// with respect to entities: every call returns fresh values and the only
// state it keeps is inside the Client (last-call time) and the cache.
type Adapter struct {
	client *Client
	cache  store.Snapshots
	listID string
	logger *log.Logger
}

var _ source.Board = (*Adapter)(nil)

// NewAdapter creates a Trello board adapter over client, persisting
// snapshots to cache.
func NewAdapter(client *Client, cache store.Snapshots, listID string, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Adapter{
		client: client,
		cache:  cache,
		listID: listID,
		logger: logger,
	}
}

// Connected reports whether the network link is up.
func (a *Adapter) Connected(ctx context.Context) bool {
	return a.client.Connected(ctx)
}

// FetchCardList retrieves the cards of the configured list.
func (a *Adapter) FetchCardList(
	ctx context.Context,
	preferCache bool,
) ([]model.CardSummary, source.Origin, error) {
	if preferCache || !a.client.Connected(ctx) {
		if data, ok := a.loadSnapshot(ctx, ListCacheKey); ok {
			cards, err := ParseCardList(data)
			return cards, source.OriginCache, err
		}
	}

	data, err := a.client.Get(ctx, "/lists/"+a.listID+"/cards", listParams)
	if err != nil {
		return nil, source.OriginLive, fmt.Errorf("fetching card list: %w", err)
	}

	cards, err := ParseCardList(data)
	if err != nil {
		return nil, source.OriginLive, err
	}

	a.saveSnapshot(ctx, ListCacheKey, data)
	return cards, source.OriginLive, nil
}

// FetchCardDetails retrieves the full card for cardID, including its
// comments and checklists.
func (a *Adapter) FetchCardDetails(
	ctx context.Context,
	cardID string,
	preferCache bool,
) (*model.FullCard, source.Origin, error) {
	key := DetailCacheKey(cardID)
	if preferCache || !a.client.Connected(ctx) {
		if data, ok := a.loadSnapshot(ctx, key); ok {
			var card model.FullCard
			if err := ParseCardDetails(data, &card); err != nil {
				return nil, source.OriginCache, err
			}
			return &card, source.OriginCache, nil
		}
	}

	data, err := a.client.Get(ctx, "/cards/"+cardID, detailParams)
	if err != nil {
		return nil, source.OriginLive, fmt.Errorf("fetching card %s: %w", cardID, err)
	}

	var card model.FullCard
	if err := ParseCardDetails(data, &card); err != nil {
		return nil, source.OriginLive, err
	}

	a.saveSnapshot(ctx, key, data)
	return &card, source.OriginLive, nil
}

// RefreshCard re-fetches a card from the network, bypassing the cache.
func (a *Adapter) RefreshCard(ctx context.Context, cardID string) (*model.FullCard, error) {
	card, _, err := a.FetchCardDetails(ctx, cardID, false)
	return card, err
}

// CachedCardList parses the list snapshot without touching the network.
func (a *Adapter) CachedCardList(ctx context.Context) ([]model.CardSummary, error) {
	data, err := a.cache.Load(ctx, ListCacheKey)
	if err != nil {
		return nil, cacheMiss("load cached card list", err)
	}
	return ParseCardList(data)
}

// CachedCardDetails parses a card snapshot without touching the network.
func (a *Adapter) CachedCardDetails(ctx context.Context, cardID string) (*model.FullCard, error) {
	data, err := a.cache.Load(ctx, DetailCacheKey(cardID))
	if err != nil {
		return nil, cacheMiss("load cached card "+cardID, err)
	}
	var card model.FullCard
	if err := ParseCardDetails(data, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// AddComment posts a comment on a card. Local entities and snapshots
// are not updated; callers re-fetch to observe the change.
func (a *Adapter) AddComment(ctx context.Context, cardID, text string) error {
	_, err := a.client.Post(ctx, "/cards/"+cardID+"/actions/comments",
		CommentRequest{Text: text})
	if err != nil {
		return fmt.Errorf("adding comment to card %s: %w", cardID, err)
	}
	return nil
}

// MarkChecklistItemDone sets a check item's state to complete.
func (a *Adapter) MarkChecklistItemDone(ctx context.Context, cardID, checklistID, itemID string) error {
	path := "/cards/" + cardID + "/checklist/" + checklistID + "/checkItem/" + itemID
	_, err := a.client.Put(ctx, path, CheckItemStateRequest{State: checkItemComplete})
	if err != nil {
		return fmt.Errorf("completing check item %s: %w", itemID, err)
	}
	return nil
}

// CreateCard adds a card to the configured list.
func (a *Adapter) CreateCard(ctx context.Context, name, description string) error {
	_, err := a.client.Post(ctx, "/cards", CreateCardRequest{
		Name:   name,
		Desc:   description,
		IDList: a.listID,
	})
	if err != nil {
		return fmt.Errorf("creating card: %w", err)
	}
	return nil
}

// TestConnection verifies credentials by calling GET /members/me.
// Returns the username on success.
func (a *Adapter) TestConnection(ctx context.Context) (string, error) {
	data, err := a.client.Get(ctx, "/members/me", url.Values{"fields": {"username,fullName"}})
	if err != nil {
		return "", fmt.Errorf("validating Trello connection: %w", err)
	}
	var me Me
	if err := json.Unmarshal(data, &me); err != nil {
		return "", source.NewStatusError(model.StatusParseError, "parse member", err)
	}
	return me.Username, nil
}

// ClearCache removes every stored snapshot.
func (a *Adapter) ClearCache(ctx context.Context) error {
	if err := a.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// CacheAge reports how long ago the snapshot for key was written.
func (a *Adapter) CacheAge(ctx context.Context, key string, now time.Time) (time.Duration, error) {
	t, err := a.cache.ModTime(ctx, key)
	if err != nil {
		return 0, err
	}
	return now.Sub(t), nil
}

// loadSnapshot returns a stored body if one exists and is valid JSON.
// Missing, unreadable, and corrupt snapshots are all treated as misses
// so the caller falls through to the network.
func (a *Adapter) loadSnapshot(ctx context.Context, key string) ([]byte, bool) {
	data, err := a.cache.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Printf("cache read %s: %v", key, err)
		}
		return nil, false
	}
	if !json.Valid(data) {
		a.logger.Printf("cache read %s: snapshot is not valid JSON, ignoring", key)
		return nil, false
	}
	return data, true
}

// saveSnapshot writes a successful response through to the cache. A
// failed write is logged and otherwise ignored.
func (a *Adapter) saveSnapshot(ctx context.Context, key string, data []byte) {
	if err := a.cache.Save(ctx, key, data); err != nil {
		a.logger.Printf("cache write %s: %v", key, err)
	}
}

// cacheMiss classifies a failed snapshot read. A missing snapshot is a
// network error from the caller's point of view: there is nothing to
// show without the network.
func cacheMiss(op string, err error) error {
	return source.NewStatusError(model.StatusNetworkError, op, err)
}
