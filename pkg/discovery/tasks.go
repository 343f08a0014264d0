package discovery

import "sync"

// pendingTask is one in-flight describe request. The task goroutine closes
// done when it finishes; the identity snapshot exists for logging only.
type pendingTask struct {
	name   string
	domain string
	done   chan struct{}
}

func newPendingTask(name, domain string) *pendingTask {
	return &pendingTask{
		name:   name,
		domain: domain,
		done:   make(chan struct{}),
	}
}

// finish marks the task complete. Called exactly once, by the task goroutine.
func (t *pendingTask) finish() {
	close(t.done)
}

// finished reports completion without blocking.
func (t *pendingTask) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// wait blocks until the task completes.
func (t *pendingTask) wait() {
	<-t.done
}

// taskSet tracks in-flight describe tasks. A single mutex serializes
// insertion, reaping and draining; it is never held while a describe task
// executes, so tasks finish independently of the lock.
type taskSet struct {
	mu    sync.Mutex
	tasks []*pendingTask
}

// Add appends a task at the tail.
func (s *taskSet) Add(t *pendingTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

// Reap removes every finished task and returns the number removed.
// In-flight tasks are left untouched; the call never blocks.
func (s *taskSet) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.finished() {
			kept = append(kept, t)
		}
	}

	reaped := len(s.tasks) - len(kept)
	// Zero the tail so reaped tasks become collectable.
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
	return reaped
}

// Drain waits for every remaining task to finish and removes it. Only used
// during shutdown; an empty set completes immediately. Returns the number of
// tasks waited on.
func (s *taskSet) Drain() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	drained := len(s.tasks)
	for i, t := range s.tasks {
		t.wait()
		s.tasks[i] = nil
	}
	s.tasks = s.tasks[:0]
	return drained
}

// Len returns the number of tracked tasks.
func (s *taskSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
