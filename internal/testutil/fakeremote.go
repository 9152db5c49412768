// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"doitlist/internal/service"
)

// DefaultListID is the ID used for the default list.
const DefaultListID = "@default"

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// RemoteTask is a task stored by FakeRemote.
type RemoteTask struct {
	ID        string
	Title     string
	Completed bool
}

// FakeRemote is an in-memory implementation of service.Remote for testing.
type FakeRemote struct {
	mu     sync.RWMutex
	list   service.TaskList
	tasks  []RemoteTask
	nextID int

	// Error injection for testing
	DefaultListErr  error
	CreateTaskErr   error
	CompleteTaskErr error
}

// NewFakeRemote creates a new FakeRemote with an empty default list.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		list: service.TaskList{ID: DefaultListID, Title: "My Tasks", IsDefault: true},
	}
}

// Tasks returns a copy of the stored tasks in creation order.
func (f *FakeRemote) Tasks() []RemoteTask {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]RemoteTask, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// DefaultList implements service.Remote.
func (f *FakeRemote) DefaultList(ctx context.Context) (service.TaskList, error) {
	if f.DefaultListErr != nil {
		return service.TaskList{}, f.DefaultListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.list, nil
}

// CreateTask implements service.Remote.
func (f *FakeRemote) CreateTask(ctx context.Context, listID, title string) (string, error) {
	if f.CreateTaskErr != nil {
		return "", f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if listID != f.list.ID {
		return "", ErrNotFound
	}
	f.nextID++
	id := fmt.Sprintf("task-%d", f.nextID)
	f.tasks = append(f.tasks, RemoteTask{ID: id, Title: title})
	return id, nil
}

// CompleteTask implements service.Remote.
func (f *FakeRemote) CompleteTask(ctx context.Context, listID, taskID string) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if listID != f.list.ID {
		return ErrNotFound
	}
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].Completed = true
			return nil
		}
	}
	return ErrNotFound
}
