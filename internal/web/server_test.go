package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"doitlist/internal/persist"
	"doitlist/internal/session"
	"doitlist/internal/storage/memory"
	"doitlist/internal/task"
)

func newTestServer(t *testing.T, seed string) (*httptest.Server, *session.Session, *memory.Store) {
	t.Helper()
	kv := memory.New()
	if seed != "" {
		kv.Put(persist.StorageKey, seed)
	}
	s := session.New(kv, nil)
	s.Hydrate(context.Background())

	srv := httptest.NewServer(NewServer(s, "https://example.com/doitlist", nil).Handler())
	t.Cleanup(srv.Close)
	return srv, s, kv
}

// noRedirect returns a client that reports redirects instead of following them.
func noRedirect(srv *httptest.Server) *http.Client {
	c := srv.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

func postForm(t *testing.T, srv *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := noRedirect(srv).PostForm(srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func TestServer_FormScenario(t *testing.T) {
	srv, s, kv := newTestServer(t, "")

	resp := postForm(t, srv, "/tasks", url.Values{"task": {"buy milk"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Errorf("expected 303 to /, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	postForm(t, srv, "/tasks", url.Values{"task": {"walk dog"}})
	postForm(t, srv, "/tasks", url.Values{"task": {"   "}})
	postForm(t, srv, "/tasks/1/toggle", nil)
	postForm(t, srv, "/tasks/2/remove", nil)
	postForm(t, srv, "/tasks/9/remove", nil)

	want := task.List{{Text: "buy milk", Completed: true}}
	if got := s.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	stored, _, err := persist.Load(context.Background(), kv)
	if err != nil || !reflect.DeepEqual(stored, want) {
		t.Errorf("expected stored %+v, got %+v (err=%v)", want, stored, err)
	}
}

func TestServer_InvalidIndex(t *testing.T) {
	srv, _, _ := newTestServer(t, "")

	resp := postForm(t, srv, "/tasks/abc/toggle", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServer_PageRendering(t *testing.T) {
	srv, _, _ := newTestServer(t, `[{"text":"<b>x</b>","completed":true},{"text":"y","completed":false}]`)

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	page := body.String()

	checks := []string{
		"<h1>DoItList</h1>",
		`alt="Master Ji&#39;s To-Do List"`,
		`href="https://example.com/doitlist"`,
		`action="/sync"`,
		`name="task"`,
		`id="task-1" onchange="this.form.submit()" checked`,
		`class="line-through">&lt;b&gt;x&lt;/b&gt;</label>`,
		`<label for="task-2">y</label>`,
		`action="/tasks/2/remove"`,
	}
	for _, want := range checks {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<b>x</b>") {
		t.Error("task text must be escaped")
	}
}

func TestServer_CorruptStorageBanner(t *testing.T) {
	srv, _, _ := newTestServer(t, "{not json")

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)

	if !strings.Contains(body.String(), session.WarnCorrupt) {
		t.Errorf("expected corrupt storage banner, got %q", body.String())
	}
}

func TestServer_SyncAfterFailure(t *testing.T) {
	srv, _, kv := newTestServer(t, "")

	kv.SetErr = errors.New("quota exceeded")
	postForm(t, srv, "/tasks", url.Values{"task": {"a"}})

	if _, ok, _ := kv.Get(context.Background(), persist.StorageKey); ok {
		t.Fatal("expected nothing stored while storage fails")
	}

	kv.SetErr = nil
	resp := postForm(t, srv, "/sync", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", resp.StatusCode)
	}
	value, _, _ := kv.Get(context.Background(), persist.StorageKey)
	if value != `[{"text":"a","completed":false}]` {
		t.Errorf("expected synced snapshot, got %q", value)
	}
}

func TestServer_API(t *testing.T) {
	srv, _, _ := newTestServer(t, `[{"text":"x","completed":false}]`)
	client := srv.Client()

	resp, err := client.Get(srv.URL + "/api/tasks")
	if err != nil {
		t.Fatalf("GET /api/tasks: %v", err)
	}
	var listed task.List
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if !reflect.DeepEqual(listed, task.List{{Text: "x"}}) {
		t.Errorf("unexpected list %+v", listed)
	}

	resp, err = client.Post(srv.URL+"/api/tasks", "application/json", strings.NewReader(`{"text":" y "}`))
	if err != nil {
		t.Fatalf("POST /api/tasks: %v", err)
	}
	var state listResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	resp.Body.Close()
	if !state.Changed || len(state.Tasks) != 2 || state.Tasks[1].Text != "y" {
		t.Errorf("unexpected add response %+v", state)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/tasks/1", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE /api/tasks/1: %v", err)
	}
	state = listResponse{}
	_ = json.NewDecoder(resp.Body).Decode(&state)
	resp.Body.Close()
	if !state.Changed || !reflect.DeepEqual(state.Tasks, task.List{{Text: "y"}}) {
		t.Errorf("unexpected remove response %+v", state)
	}

	resp, err = client.Post(srv.URL+"/api/tasks", "application/json", strings.NewReader(`nope`))
	if err != nil {
		t.Fatalf("POST bad body: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", resp.StatusCode)
	}
}

func TestServer_APICORS(t *testing.T) {
	srv, _, _ := newTestServer(t, "")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected CORS header, got %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestServer_StaticLogo(t *testing.T) {
	srv, _, _ := newTestServer(t, "")

	resp, err := srv.Client().Get(srv.URL + "/static/logo.svg")
	if err != nil {
		t.Fatalf("GET logo: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := session.New(memory.New(), nil)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewServer(s, "", nil).ServeListener(ctx, listener)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
