// Package taskstore defines the port interface for task lifecycle storage.
package taskstore

import (
	"github.com/Strob0t/AgentRelay/internal/domain/task"
)

// UpdateOptions carries optional fields for a task update. Nil pointer means
// "not provided, keep the prior value" — never "clear the field".
type UpdateOptions struct {
	Progress *int
	Message  *string
	Result   any
	Final    bool
}

// Store is the port interface for the task record map and its event logs.
// It is the sole owner of task records; callers hold only task identifiers.
type Store interface {
	// Create allocates a fresh task in state accepted with progress 0 and a
	// seed event (seq 1, final false).
	Create(seedMessage string) *task.Task

	// Get returns the task for the normalized identifier, or nil when unknown.
	Get(id string) *task.Task

	// Update transitions the task to newState, refreshes UpdatedAt, applies
	// the provided optional fields, and appends an event carrying the
	// post-update snapshot. Returns nil when the identifier is unknown.
	Update(id string, newState task.State, opts UpdateOptions) *task.Task
}

// IntPtr returns a pointer to v, for UpdateOptions literals.
func IntPtr(v int) *int { return &v }

// StrPtr returns a pointer to s, for UpdateOptions literals.
func StrPtr(s string) *string { return &s }
