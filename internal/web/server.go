// Package web serves the task list as a single HTML page.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"doitlist/internal/persist"
	"doitlist/internal/session"
	"doitlist/internal/task"
)

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 5 * time.Second

// Server serves the page and a small JSON API over one session.
type Server struct {
	session *session.Session
	repoURL string
	logger  *log.Logger
}

// NewServer creates a server for s. If logger is nil, log output is discarded.
func NewServer(s *session.Session, repoURL string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{session: s, repoURL: repoURL, logger: logger}
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/tasks", s.handleAPIList)
	api.HandleFunc("POST /api/tasks", s.handleAPIAdd)
	api.HandleFunc("POST /api/tasks/{n}/toggle", s.handleAPIIndexed(toggleAction))
	api.HandleFunc("DELETE /api/tasks/{n}", s.handleAPIIndexed(removeAction))
	api.HandleFunc("POST /api/sync", s.handleAPISync)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /tasks", s.handleAdd)
	mux.HandleFunc("POST /tasks/{n}/toggle", s.handleIndexed(toggleAction))
	mux.HandleFunc("POST /tasks/{n}/remove", s.handleIndexed(removeAction))
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	mux.Handle("/api/", c.Handler(api))
	return mux
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener is like Serve but uses an existing listener.
func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           otelhttp.NewHandler(s.Handler(), "doitlist.web"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	s.logger.Printf("web view listening at %v", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func toggleAction(i int) task.Action { return task.Toggle{Index: i} }
func removeAction(i int) task.Action { return task.Remove{Index: i} }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view := PageView{
		Tasks:    s.session.Tasks(),
		RepoURL:  s.repoURL,
		Warnings: s.session.Warnings(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(view).Render(r.Context(), w); err != nil {
		s.logger.Printf("render page: %v", err)
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.Context(), task.Add{Text: r.FormValue("task")})
	redirectHome(w, r)
}

func (s *Server) handleIndexed(build func(int) task.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(r)
		if !ok {
			http.Error(w, "invalid task reference", http.StatusBadRequest)
			return
		}
		s.dispatch(r.Context(), build(index))
		redirectHome(w, r)
	}
}

// dispatch applies action. A failed save is kept in memory and surfaces as
// the page banner or the API's degraded flag.
func (s *Server) dispatch(ctx context.Context, action task.Action) bool {
	changed, err := s.session.Dispatch(ctx, action)
	if err != nil {
		s.logger.Printf("dispatch: %v", err)
	}
	return changed
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Sync(r.Context()); err != nil {
		s.logger.Printf("sync: %v", err)
	}
	redirectHome(w, r)
}

type addRequest struct {
	Text string `json:"text"`
}

type listResponse struct {
	Tasks    task.List `json:"tasks"`
	Changed  bool      `json:"changed"`
	Degraded bool      `json:"degraded"`
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	value, err := persist.Encode(s.session.Tasks())
	if err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, value)
}

func (s *Server) handleAPIAdd(w http.ResponseWriter, r *http.Request) {
	var body addRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	changed := s.dispatch(r.Context(), task.Add{Text: body.Text})
	s.writeState(w, changed)
}

func (s *Server) handleAPIIndexed(build func(int) task.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(r)
		if !ok {
			http.Error(w, "invalid task reference", http.StatusBadRequest)
			return
		}
		changed := s.dispatch(r.Context(), build(index))
		s.writeState(w, changed)
	}
}

func (s *Server) handleAPISync(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Sync(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.writeState(w, false)
}

func (s *Server) writeState(w http.ResponseWriter, changed bool) {
	resp := listResponse{
		Tasks:    s.session.Tasks(),
		Changed:  changed,
		Degraded: s.session.Degraded(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

// pathIndex converts the 1-based {n} path value to a 0-based index.
func pathIndex(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
