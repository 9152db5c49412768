// Package service defines the backend-agnostic interface for publishing tasks to a remote tracker.
package service

import "context"

// Remote defines the remote task tracker operations used by publish.
// Commands never import the Google SDK directly.
type Remote interface {
	// DefaultList returns the user's default remote task list.
	DefaultList(ctx context.Context) (TaskList, error)

	// CreateTask creates a new open task in the specified list and returns its ID.
	CreateTask(ctx context.Context, listID, title string) (string, error)

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, listID, taskID string) error
}
