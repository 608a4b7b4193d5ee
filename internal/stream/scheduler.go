// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package stream

import (
	"context"
	"sync"
	"time"
)

// Task is a handle to one scheduled loop. Cancel is idempotent and safe to
// call from any goroutine; Done closes once the loop has fully exited.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Cancel stops the task. Subsequent calls are no-ops.
func (t *Task) Cancel() {
	t.once.Do(t.cancel)
}

// Done returns a channel closed when the task's loop has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Scheduler runs periodic callbacks as cancellable tasks.
type Scheduler struct {
	wg sync.WaitGroup
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule runs fn every interval until the parent context is canceled, the
// task is canceled, or fn returns false. The first run happens after one
// interval, not immediately.
func (s *Scheduler) Schedule(parent context.Context, interval time.Duration, fn func(ctx context.Context) bool) *Task {
	ctx, cancel := context.WithCancel(parent)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(task.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !fn(ctx) {
					return
				}
			}
		}
	}()
	return task
}

// Wait blocks until every scheduled task has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
