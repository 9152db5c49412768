// Package session holds the live task list and persists it after every change.
package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"doitlist/internal/persist"
	"doitlist/internal/storage"
	"doitlist/internal/task"
)

var tracer trace.Tracer = otel.Tracer("doitlist/session")

// Warning messages recorded on the session.
const (
	WarnCorrupt     = "stored tasks are corrupt; starting with an empty list"
	WarnUnavailable = "storage unavailable; changes are kept in memory only"
)

// Session owns the in-memory task list for one run of a view.
// All methods are safe for concurrent use; operations are applied one at a time.
type Session struct {
	mu       sync.Mutex
	kv       storage.KV
	logger   *log.Logger
	tasks    task.List
	degraded bool
	warnings []string

	// unhydrated is set while the stored list could not be read. Every task
	// in memory was created since, and the stored list is read again before
	// anything is written.
	unhydrated bool
}

// New creates an empty session backed by kv.
// If logger is nil, log output is discarded.
func New(kv storage.KV, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		kv:     kv,
		logger: logger,
		tasks:  task.List{},
	}
}

// Hydrate replaces the in-memory list with the stored snapshot.
// Missing, corrupt or unreadable storage leaves the list empty and is not an error.
func (s *Session) Hydrate(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.Hydrate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	s.tasks = list
	s.unhydrated = err != nil
	span.SetAttributes(attribute.Int("tasks.count", len(s.tasks)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
}

// Dispatch applies action and, when the list changed, persists the resulting list.
// A failed save keeps the change in memory, marks the session degraded and
// returns an error wrapping persist.ErrPersistenceUnavailable.
func (s *Session) Dispatch(ctx context.Context, action task.Action) (bool, error) {
	ctx, span := tracer.Start(ctx, "session.Dispatch",
		trace.WithAttributes(attribute.String("task.action", actionName(action))))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := task.Reduce(s.tasks, action)
	span.SetAttributes(attribute.Bool("tasks.changed", changed))
	if !changed {
		return false, nil
	}
	s.tasks = next
	if err := s.save(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return true, err
	}
	return true, nil
}

// Sync re-saves the current list.
func (s *Session) Sync(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.Sync")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Tasks returns a snapshot of the current list.
func (s *Session) Tasks() task.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Degraded reports whether the last storage access failed.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Warnings returns the distinct warnings recorded so far, oldest first.
func (s *Session) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// load reads the stored list. Only an unreadable store is returned as an
// error; corrupt or missing snapshots yield an empty list.
// Must be called with s.mu held.
func (s *Session) load(ctx context.Context) (task.List, error) {
	list, ok, err := persist.Load(ctx, s.kv)
	switch {
	case errors.Is(err, persist.ErrCorruptStorage):
		s.logger.Printf("hydrate: %v", err)
		s.warn(WarnCorrupt)
		return task.List{}, nil
	case err != nil:
		s.logger.Printf("hydrate: %v", err)
		s.degraded = true
		s.warn(WarnUnavailable)
		return task.List{}, err
	case !ok:
		return task.List{}, nil
	}
	return list, nil
}

// save must be called with s.mu held.
func (s *Session) save(ctx context.Context) error {
	if s.unhydrated {
		stored, err := s.load(ctx)
		if err != nil {
			return err
		}
		s.tasks = append(stored, s.tasks...)
		s.unhydrated = false
	}
	if err := persist.Save(ctx, s.kv, s.tasks); err != nil {
		s.logger.Printf("save: %v", err)
		s.degraded = true
		s.warn(WarnUnavailable)
		return err
	}
	s.degraded = false
	return nil
}

func (s *Session) warn(msg string) {
	for _, w := range s.warnings {
		if w == msg {
			return
		}
	}
	s.warnings = append(s.warnings, msg)
}

func actionName(action task.Action) string {
	switch action.(type) {
	case task.Add:
		return "add"
	case task.Toggle:
		return "toggle"
	case task.Remove:
		return "remove"
	default:
		return "none"
	}
}
