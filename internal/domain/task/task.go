// Package task defines the Task domain entity and its append-only event log.
package task

import (
	"strings"
	"time"
)

// State represents the current lifecycle state of a task.
type State string

const (
	StateAccepted  State = "accepted"
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCanceled  State = "canceled"
	StateExpired   State = "expired"
)

// Terminal reports whether no further transition can occur from s.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCanceled, StateExpired:
		return true
	}
	return false
}

// Task represents one unit of agent work tracked by state and an event log.
type Task struct {
	ID        string    `json:"taskId"`
	State     State     `json:"state"`
	Message   string    `json:"message,omitempty"`
	Progress  int       `json:"progress"`
	Result    any       `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	Events    []Event   `json:"events"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is one immutable snapshot in a task's log. Seq is the stream cursor:
// 1-based, strictly increasing, gap-free within a task.
type Event struct {
	Seq      int       `json:"id"`
	State    State     `json:"state"`
	Message  string    `json:"message,omitempty"`
	Progress int       `json:"progress"`
	Final    bool      `json:"final"`
	At       time.Time `json:"at"`
}

// LastSeq returns the highest event sequence number, or 0 for an empty log.
func (t *Task) LastSeq() int {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].Seq
}

// NormalizeID strips all whitespace from a task identifier. Applied uniformly
// at every store boundary so transport-layer copy/paste artifacts never cause
// a spurious miss.
func NormalizeID(id string) string {
	return strings.Join(strings.Fields(id), "")
}
