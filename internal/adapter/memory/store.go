// Package memory implements the taskstore port with an in-process map.
// Records do not survive a restart; a task left pending across shutdown is
// simply discarded.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/AgentRelay/internal/domain/task"
	"github.com/Strob0t/AgentRelay/internal/port/taskstore"
)

// Store holds all task records in memory, keyed by normalized identifier.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*task.Task
	ttl   time.Duration
	now   func() time.Time // for testing
}

// New creates an empty in-memory store. The TTL is recorded for a future
// eviction pass; no background eviction runs yet.
func New(ttl time.Duration) *Store {
	return &Store{
		tasks: make(map[string]*task.Task),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create allocates a new task in state accepted with its seed event.
func (s *Store) Create(seedMessage string) *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t := &task.Task{
		ID:        task.NormalizeID(uuid.NewString()),
		State:     task.StateAccepted,
		Message:   seedMessage,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
		Events: []task.Event{{
			Seq:      1,
			State:    task.StateAccepted,
			Message:  seedMessage,
			Progress: 0,
			Final:    false,
			At:       now,
		}},
	}
	s.tasks[t.ID] = t
	return snapshot(t)
}

// Get returns a snapshot of the task for the identifier, or nil when
// unknown. Callers get a copy: records are mutated only through Update.
func (s *Store) Get(id string) *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.tasks[task.NormalizeID(id)])
}

// Update applies a state transition and appends the post-update snapshot as a
// new event. Unknown identifiers are a no-op returning nil.
func (s *Store) Update(id string, newState task.State, opts taskstore.UpdateOptions) *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[task.NormalizeID(id)]
	if !ok {
		return nil
	}

	now := s.now().UTC()
	t.State = newState
	t.UpdatedAt = now
	if opts.Progress != nil {
		t.Progress = *opts.Progress
	}
	if opts.Message != nil {
		t.Message = *opts.Message
	}
	if opts.Result != nil {
		t.Result = opts.Result
	}

	t.Events = append(t.Events, task.Event{
		Seq:      t.LastSeq() + 1,
		State:    t.State,
		Message:  t.Message,
		Progress: t.Progress,
		Final:    opts.Final,
		At:       now,
	})
	return snapshot(t)
}

// snapshot copies a record so readers never share the mutable event slice.
func snapshot(t *task.Task) *task.Task {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Events = make([]task.Event, len(t.Events))
	copy(cp.Events, t.Events)
	return &cp
}

var _ taskstore.Store = (*Store)(nil)
