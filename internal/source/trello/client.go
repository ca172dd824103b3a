package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/source"
)

// Client is a thin HTTP client for the Trello REST API v1. It appends
// key/token authentication to every URL, paces calls through a Limiter,
// checks the link before dispatching, and classifies every outcome into
// a model.APIStatus. Calls are serialized: one request is in flight at
// a time.
type Client struct {
	mu         sync.Mutex
	baseURL    string
	apiKey     string
	token      string
	httpClient *http.Client
	limiter    *Limiter
	clock      Clock
	link       Link
	logger     *log.Logger

	reconnectAttempts int
	reconnectDelay    time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request, connect and read included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithClock replaces the wall clock used for pacing and reconnect polls.
func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithLink sets the connectivity collaborator.
func WithLink(link Link) Option {
	return func(c *Client) { c.link = link }
}

// WithLogger sets the logger for request failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit sets the minimum interval between calls.
func WithRateLimit(d time.Duration) Option {
	return func(c *Client) { c.limiter = NewLimiter(d, nil) }
}

// WithReconnect sets the reconnect sequence shape.
func WithReconnect(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.reconnectAttempts = attempts
		c.reconnectDelay = delay
	}
}

// NewClient creates a new Trello HTTP client for baseURL
// (e.g., https://api.trello.com/1).
func NewClient(baseURL, apiKey, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		link:              alwaysUp{},
		logger:            log.New(io.Discard, "", 0),
		reconnectAttempts: 20,
		reconnectDelay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.limiter == nil {
		c.limiter = NewLimiter(5*time.Second, c.clock)
	} else {
		c.limiter.clock = c.clock
	}
	return c
}

// Limiter exposes the client's rate limiter.
func (c *Client) Limiter() *Limiter {
	return c.limiter
}

// Connected reports whether the link is currently up.
func (c *Client) Connected(ctx context.Context) bool {
	return c.link.Connected(ctx)
}

// buildURL joins the base URL and path, then appends the auth
// parameters followed by params. Path segments are used verbatim.
func (c *Client) buildURL(path string, params url.Values) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(path)
	b.WriteString("?key=")
	b.WriteString(url.QueryEscape(c.apiKey))
	b.WriteString("&token=")
	b.WriteString(url.QueryEscape(c.token))
	if len(params) > 0 {
		b.WriteByte('&')
		b.WriteString(params.Encode())
	}
	return b.String()
}

// Get performs an HTTP GET and returns the raw JSON body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post performs an HTTP POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put performs an HTTP PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// ensureLink runs the reconnect sequence when the link is down: one
// connect attempt followed by a bounded number of fixed-delay polls.
func (c *Client) ensureLink(ctx context.Context) bool {
	if c.link.Connected(ctx) {
		return true
	}

	c.logger.Printf("link down, reconnecting (%d polls)", c.reconnectAttempts)
	if err := c.link.Connect(ctx); err != nil {
		c.logger.Printf("reconnect: %v", err)
	}
	for i := 0; i < c.reconnectAttempts; i++ {
		if c.link.Connected(ctx) {
			return true
		}
		if err := c.clock.Sleep(ctx, c.reconnectDelay); err != nil {
			return false
		}
	}
	return c.link.Connected(ctx)
}

// do is the core HTTP method: it checks the link, waits for the rate
// limiter, dispatches the request, and classifies the response. On
// success it returns the body, which is guaranteed to be valid JSON
// (or empty for bodiless write responses).
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	params url.Values,
	body interface{},
) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := method + " " + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, source.NewStatusError(model.StatusUnknownError, op,
				fmt.Errorf("marshaling request body: %w", err))
		}
		payload = data
	}

	if !c.ensureLink(ctx) {
		return nil, source.NewStatusError(model.StatusNetworkError, op,
			fmt.Errorf("network link is down"))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, source.NewStatusError(model.StatusNetworkError, op,
			fmt.Errorf("waiting for rate limiter: %w", err))
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, c.buildURL(path, params), bodyReader,
	)
	if err != nil {
		return nil, source.NewStatusError(model.StatusUnknownError, op,
			fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = redactURL(err)
		c.logger.Printf("%s: transport error: %v", op, err)
		return nil, source.NewStatusError(model.StatusNetworkError, op,
			fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, source.NewStatusError(model.StatusNetworkError, op,
			fmt.Errorf("reading response body: %w", err))
	}

	status := classify(resp.StatusCode)
	if status != model.StatusSuccess {
		c.logger.Printf("%s: HTTP %d (%s)", op, resp.StatusCode, status)
		return nil, source.NewStatusError(status, op,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if len(bytes.TrimSpace(respBody)) == 0 && method != http.MethodGet {
		return nil, nil
	}

	if !json.Valid(respBody) {
		c.logger.Printf("%s: response is not valid JSON", op)
		return nil, source.NewStatusError(model.StatusParseError, op,
			fmt.Errorf("response is not valid JSON"))
	}

	return respBody, nil
}

// classify maps an HTTP status code to an APIStatus. 2xx is success;
// the codes with a meaning of their own are split out and everything
// else counts as a network failure.
func classify(code int) model.APIStatus {
	switch {
	case code >= 200 && code < 300:
		return model.StatusSuccess
	case code == http.StatusUnauthorized:
		return model.StatusAuthError
	case code == http.StatusTooManyRequests:
		return model.StatusRateLimited
	case code == http.StatusNotFound:
		return model.StatusNotFound
	default:
		return model.StatusNetworkError
	}
}

// redactURL strips the query string (which carries the credentials)
// from *url.Error values before they are logged or wrapped.
func redactURL(err error) error {
	if ue, ok := err.(*url.Error); ok {
		if u, perr := url.Parse(ue.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
		}
	}
	return err
}
