// Package service provides the in-process workers backing the A2A endpoint.
package service

import "sync"

// Scheduler runs deferred task continuations on a single worker goroutine.
// Continuations execute in submission order, so two deferred mutations of
// the same task can never interleave their read-modify-write. The initiating
// request never waits on a submitted continuation.
type Scheduler struct {
	ch chan func()
	wg sync.WaitGroup
}

// NewScheduler creates a scheduler with the given queue capacity and starts
// its worker.
func NewScheduler(capacity int) *Scheduler {
	s := &Scheduler{ch: make(chan func(), capacity)}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *Scheduler) drain() {
	defer s.wg.Done()
	for fn := range s.ch {
		fn()
	}
}

// Submit enqueues fn for execution. Blocks when the queue is full rather
// than dropping work.
func (s *Scheduler) Submit(fn func()) {
	s.ch <- fn
}

// Close stops intake and waits for all queued continuations to finish.
// Submit after Close panics; call only at shutdown.
func (s *Scheduler) Close() {
	close(s.ch)
	s.wg.Wait()
}
