package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"

	"github.com/nhle/pocketboard/internal/credential"
	"github.com/nhle/pocketboard/tests/testutil"
)

type harness struct {
	fake  *testutil.FakeTrello
	ring  keyring.Keyring
	cache string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		fake:  testutil.NewFakeTrello(t),
		ring:  keyring.NewArrayKeyring(nil),
		cache: t.TempDir(),
	}
	t.Setenv(credential.EnvAPIKey, "key")
	t.Setenv(credential.EnvAPIToken, "token")
	t.Setenv("POCKETBOARD_TRELLO_BASE_URL", h.fake.URL())
	t.Setenv("POCKETBOARD_TRELLO_LIST_ID", "list1")
	t.Setenv("POCKETBOARD_TRELLO_RATE_LIMIT_MS", "0")
	t.Setenv("POCKETBOARD_TRELLO_RECONNECT_ATTEMPTS", "0")
	t.Setenv("POCKETBOARD_CACHE_DIR", h.cache)
	return h
}

// run executes the command tree with args and returns stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &App{
		openCredentials: func() (*credential.Store, error) {
			return credential.NewStore(h.ring), nil
		},
	}
	cmd := newRootCmd(a)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeBody(t *testing.T, req testutil.RecordedRequest) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		t.Fatalf("decoding body %q: %v", req.Body, err)
	}
	return body
}

func TestList(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"c1  Buy milk  [due]",
		"c2  Ship release  [done]",
		"c3  Plan trip",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestList_OfflineUsesSnapshot(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run(t, "list"); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := h.run(t, "list", "--offline"); err != nil {
		t.Fatalf("offline list: %v", err)
	}

	if got := h.fake.Count(testutil.RouteListCards); got != 1 {
		t.Errorf("list requests = %d, want 1", got)
	}
}

func TestList_ServerErrorFallsBackToSnapshot(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run(t, "list"); err != nil {
		t.Fatalf("first list: %v", err)
	}
	h.fake.Respond(testutil.RouteListCards, 500, "boom")

	out, err := h.run(t, "list")
	if err != nil {
		t.Fatalf("list after 500: %v", err)
	}
	if !strings.Contains(out, "c2  Ship release") {
		t.Errorf("cached list not printed:\n%s", out)
	}
}

func TestList_ServerErrorWithoutSnapshot(t *testing.T) {
	h := newHarness(t)
	h.fake.Respond(testutil.RouteListCards, 500, "boom")

	_, err := h.run(t, "list")
	if err == nil || !strings.Contains(err.Error(), "Check connection") {
		t.Fatalf("err = %v, want network remedy", err)
	}
}

func TestShow_ServerErrorFallsBackToSnapshot(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run(t, "show", "c2", "--plain"); err != nil {
		t.Fatalf("first show: %v", err)
	}
	h.fake.Respond(testutil.RouteCard, 503, "busy")

	out, err := h.run(t, "show", "c2", "--plain")
	if err != nil {
		t.Fatalf("show after 503: %v", err)
	}
	if !strings.Contains(out, "[ ] Announce") {
		t.Errorf("cached card not printed:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "show", "c2", "--plain")
	if err != nil {
		t.Fatalf("show: %v", err)
	}

	for _, want := range []string{
		"Ship release",
		"Labels: blue",
		"Cut the **tag** and publish.",
		"Checklist (2/3)",
		"[x] Build",
		"[ ] Announce",
		"Comments (1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow_NotFound(t *testing.T) {
	h := newHarness(t)
	h.fake.Respond(testutil.RouteCard, 404, "card not found")

	_, err := h.run(t, "show", "zz")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "refresh the list") {
		t.Errorf("error %q carries no remedy", err)
	}
}

func TestCheck(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.TrimSpace(out) != "Connected as @ann" {
		t.Errorf("output = %q", out)
	}
}

func TestCheck_AuthFailure(t *testing.T) {
	h := newHarness(t)
	h.fake.Respond(testutil.RouteMe, 401, "invalid token")

	_, err := h.run(t, "check")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "pocketboard setup") {
		t.Errorf("error %q does not point at setup", err)
	}
}

func TestComment(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "comment", "c2", "looks", "good")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if !strings.Contains(out, "Comment added.") {
		t.Errorf("output = %q", out)
	}

	req, ok := h.fake.Last()
	if !ok || req.Route != testutil.RouteComment {
		t.Fatalf("last request = %+v", req)
	}
	if req.Vars["cardID"] != "c2" {
		t.Errorf("cardID = %q, want c2", req.Vars["cardID"])
	}
	if body := decodeBody(t, req); body["text"] != "looks good" {
		t.Errorf("text = %q, want %q", body["text"], "looks good")
	}
}

func TestComment_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"blank", []string{"comment", "c2", "  "}, "comment is empty"},
		{"too long", []string{"comment", "c2", strings.Repeat("x", 101)}, "the limit is 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
			if n := len(h.fake.Requests()); n != 0 {
				t.Errorf("%d requests sent for rejected input", n)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run(t, "create", "Write", "notes", "--desc", "for the demo"); err != nil {
		t.Fatalf("create: %v", err)
	}

	req, ok := h.fake.Last()
	if !ok || req.Route != testutil.RouteCreate {
		t.Fatalf("last request = %+v", req)
	}
	body := decodeBody(t, req)
	want := map[string]string{"name": "Write notes", "desc": "for the demo", "idList": "list1"}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("%s = %q, want %q", k, body[k], v)
		}
	}
}

func TestCache(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "cache", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "List: not cached") {
		t.Errorf("status before fetch = %q", out)
	}

	if _, err := h.run(t, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	out, _ = h.run(t, "cache", "status")
	if !strings.Contains(out, "List: cached") {
		t.Errorf("status after fetch = %q", out)
	}

	if _, err := h.run(t, "cache", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, _ = h.run(t, "cache", "status")
	if !strings.Contains(out, "List: not cached") {
		t.Errorf("status after clear = %q", out)
	}
}

func TestMissingListID(t *testing.T) {
	h := newHarness(t)
	t.Setenv("POCKETBOARD_TRELLO_LIST_ID", "")

	_, err := h.run(t, "list")
	if err == nil || !strings.Contains(err.Error(), "trello.list_id is not set") {
		t.Fatalf("err = %v", err)
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	cs := credential.NewStore(h.ring)
	if err := cs.Save(credential.Credentials{APIKey: "k", Token: "t"}); err != nil {
		t.Fatal(err)
	}

	if _, err := h.run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := h.ring.Get(credential.KeyAPIKey); err == nil {
		t.Error("API key still stored after logout")
	}
}
