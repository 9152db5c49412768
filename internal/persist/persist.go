// Package persist serializes the task list to a single slot of a storage.KV.
//
// The stored value is a bare JSON array of {"text": string, "completed": bool}
// objects with no envelope or version field.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"doitlist/internal/storage"
	"doitlist/internal/task"
)

// StorageKey is the key the task list snapshot is stored under.
const StorageKey = "my-tasks"

var (
	// ErrCorruptStorage indicates the stored snapshot could not be decoded as a task list.
	ErrCorruptStorage = errors.New("corrupt storage")

	// ErrPersistenceUnavailable indicates the store could not be read or written.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// record mirrors task.Task with pointer fields so missing keys can be detected.
type record struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// Encode returns the snapshot representation of list.
func Encode(list task.List) (string, error) {
	if list == nil {
		list = task.List{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a snapshot. Any schema violation is reported as ErrCorruptStorage.
func Decode(value string) (task.List, error) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.DisallowUnknownFields()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStorage, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after task array", ErrCorruptStorage)
	}
	if records == nil && !bytes.HasPrefix(bytes.TrimSpace([]byte(value)), []byte("[")) {
		return nil, fmt.Errorf("%w: expected a task array", ErrCorruptStorage)
	}

	list := make(task.List, 0, len(records))
	for i, r := range records {
		if r.Text == nil {
			return nil, fmt.Errorf("%w: task %d: missing text", ErrCorruptStorage, i)
		}
		if r.Completed == nil {
			return nil, fmt.Errorf("%w: task %d: missing completed", ErrCorruptStorage, i)
		}
		text := strings.TrimSpace(*r.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: task %d: empty text", ErrCorruptStorage, i)
		}
		list = append(list, task.Task{Text: text, Completed: *r.Completed})
	}
	return list, nil
}

// Save writes the snapshot of list under StorageKey.
func Save(ctx context.Context, kv storage.KV, list task.List) error {
	value, err := Encode(list)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := kv.Set(ctx, StorageKey, value); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

// Load reads the snapshot stored under StorageKey.
// The boolean is false when nothing has been stored yet.
func Load(ctx context.Context, kv storage.KV) (task.List, bool, error) {
	value, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	// An empty value counts as never stored.
	if !ok || value == "" {
		return nil, false, nil
	}
	list, err := Decode(value)
	if err != nil {
		return nil, true, err
	}
	return list, true, nil
}
