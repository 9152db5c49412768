// Package storage defines the string key-value store the task list is persisted to.
package storage

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a store is used after Close or without a backing connection.
var ErrNotConfigured = errors.New("storage is not configured")

// KV is a string-keyed store of string values.
type KV interface {
	// Get returns the value stored under key.
	// The boolean is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}
