package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Route names understood by FakeTrello.Respond.
const (
	RouteListCards = "list-cards"
	RouteCard      = "card"
	RouteComment   = "comment"
	RouteCheckItem = "check-item"
	RouteCreate    = "create-card"
	RouteMe        = "me"
)

// SampleListJSON is a three-card list response: one labelled card with
// a due date, one with a fully checked checklist, and one bare card.
const SampleListJSON = `[
  {"id":"c1","name":"Buy milk","labels":[{"id":"l1","name":"home","color":"green"},{"id":"l2","name":"misc","color":null}],"due":"2024-05-01T12:00:00.000Z","badges":{"checkItems":0,"checkItemsChecked":0,"comments":0}},
  {"id":"c2","name":"Ship release","labels":[],"due":null,"badges":{"checkItems":3,"checkItemsChecked":3,"comments":2}},
  {"id":"c3","name":"Plan trip"}
]`

// SampleCardJSON is a detail response for card c2.
const SampleCardJSON = `{
  "id":"c2","name":"Ship release","desc":"Cut the **tag** and publish.",
  "labels":[{"id":"l3","name":"work","color":"blue"}],
  "due":null,
  "badges":{"checkItems":3,"checkItemsChecked":2,"comments":1},
  "actions":[
    {"id":"a1","type":"commentCard","date":"2024-05-01T10:00:00.000Z","data":{"text":"on it"},"memberCreator":{"id":"m1","username":"ann","fullName":"Ann Lee"}},
    {"id":"a2","type":"updateCard","data":{"text":"ignored"},"memberCreator":{"id":"m1","username":"ann","fullName":"Ann Lee"}}
  ],
  "checklists":[
    {"id":"cl1","name":"Steps","checkItems":[
      {"id":"i1","name":"Build","state":"complete","idChecklist":"cl1"},
      {"id":"i2","name":"Test","state":"complete","idChecklist":"cl1"}
    ]},
    {"id":"cl2","name":"After","checkItems":[
      {"id":"i3","name":"Announce","state":"incomplete"}
    ]}
  ]
}`

// RecordedRequest is one request received by FakeTrello.
type RecordedRequest struct {
	Route       string
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        string
	Vars        map[string]string
}

type response struct {
	status int
	body   string
}

// FakeTrello is an httptest server speaking the subset of the Trello
// REST API the client uses. Responses can be overridden per route and
// every request is recorded.
type FakeTrello struct {
	Server *httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responses map[string]response
}

// NewFakeTrello starts a fake API server that is closed when the test
// completes.
func NewFakeTrello(t *testing.T) *FakeTrello {
	t.Helper()

	f := &FakeTrello{
		responses: map[string]response{
			RouteListCards: {http.StatusOK, SampleListJSON},
			RouteCard:      {http.StatusOK, SampleCardJSON},
			RouteComment:   {http.StatusOK, `{"id":"a9","type":"commentCard"}`},
			RouteCheckItem: {http.StatusOK, `{"id":"i3","state":"complete"}`},
			RouteCreate:    {http.StatusOK, `{"id":"c9","name":"new"}`},
			RouteMe:        {http.StatusOK, `{"id":"m1","username":"ann","fullName":"Ann Lee"}`},
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/lists/{listID}/cards", f.handle(RouteListCards)).Methods(http.MethodGet)
	r.HandleFunc("/cards/{cardID}/actions/comments", f.handle(RouteComment)).Methods(http.MethodPost)
	r.HandleFunc("/cards/{cardID}/checklist/{checklistID}/checkItem/{itemID}", f.handle(RouteCheckItem)).Methods(http.MethodPut)
	r.HandleFunc("/cards/{cardID}", f.handle(RouteCard)).Methods(http.MethodGet)
	r.HandleFunc("/cards", f.handle(RouteCreate)).Methods(http.MethodPost)
	r.HandleFunc("/members/me", f.handle(RouteMe)).Methods(http.MethodGet)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the API base URL.
func (f *FakeTrello) URL() string {
	return f.Server.URL
}

// Respond overrides the status and body returned for route.
func (f *FakeTrello) Respond(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[route] = response{status: status, body: body}
}

// Requests returns every request received so far.
func (f *FakeTrello) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Count returns how many requests hit route.
func (f *FakeTrello) Count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Route == route {
			n++
		}
	}
	return n
}

// Last returns the most recent request, if any.
func (f *FakeTrello) Last() (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}

func (f *FakeTrello) handle(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Route:       route,
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
			Vars:        mux.Vars(r),
		})
		resp := f.responses[route]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		io.WriteString(w, resp.body)
	}
}
