package service

import (
	"sync"
	"time"
)

type scheduledTask struct {
	timer *time.Timer
}

// Scheduler runs at most one delayed task per key. Scheduling a key again
// replaces its pending task.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]*scheduledTask
	stopped bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[string]*scheduledTask)}
}

// Schedule runs fn after delay unless the key is cancelled first.
// It reports false once the scheduler has been stopped.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if prev, ok := s.tasks[key]; ok {
		prev.timer.Stop()
	}

	task := &scheduledTask{}
	task.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		current, ok := s.tasks[key]
		if !ok || current != task {
			s.mu.Unlock()
			return
		}
		delete(s.tasks, key)
		s.mu.Unlock()

		fn()
	})
	s.tasks[key] = task
	return true
}

// Cancel drops the pending task for key. It reports whether one was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[key]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(s.tasks, key)
	return true
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every pending task and rejects new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, task := range s.tasks {
		task.timer.Stop()
		delete(s.tasks, key)
	}
	s.stopped = true
}
