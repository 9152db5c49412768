package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]any
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClient_PublishCalls(t *testing.T) {
	var mu sync.Mutex
	var calls []recordedCall

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/lists/@default"):
			_, _ = w.Write([]byte(`{"id":"real-id","title":"My Tasks"}`))
		case r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"id":"task-1","title":"buy milk"}`))
		case r.Method == http.MethodPatch:
			_, _ = w.Write([]byte(`{"id":"task-1","status":"completed"}`))
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	list, err := c.DefaultList(ctx)
	if err != nil {
		t.Fatalf("default list: %v", err)
	}
	if list.ID != DefaultListID || list.Title != "My Tasks" || !list.IsDefault {
		t.Errorf("unexpected list %+v", list)
	}

	id, err := c.CreateTask(ctx, list.ID, "buy milk")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if id != "task-1" {
		t.Errorf("expected task-1, got %q", id)
	}

	if err := c.CompleteTask(ctx, list.ID, id); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %d: %+v", len(calls), calls)
	}
	if calls[1].Body["title"] != "buy milk" {
		t.Errorf("expected title in insert body, got %+v", calls[1].Body)
	}
	if calls[2].Body["status"] != "completed" {
		t.Errorf("expected completed status in patch body, got %+v", calls[2].Body)
	}
}

func TestClient_AuthError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"invalid credentials"}}`))
	})

	_, err := c.DefaultList(context.Background())
	if err == nil || !strings.Contains(err.Error(), "token expired or revoked") {
		t.Errorf("expected token error, got %v", err)
	}
}

func TestWrapError(t *testing.T) {
	if wrapError(nil) != nil {
		t.Error("expected nil")
	}
	if got := wrapError(errors.New("googleapi: Error 404: gone")); got.Error() != "not found" {
		t.Errorf("expected not found, got %v", got)
	}
	if got := wrapError(context.DeadlineExceeded); got.Error() != "request timed out" {
		t.Errorf("expected timeout, got %v", got)
	}
	other := errors.New("boom")
	if got := wrapError(other); got != other {
		t.Errorf("expected passthrough, got %v", got)
	}
}
