package transcript

import (
	"context"
	"sync"
	"time"
)

// Task is the handle for one reveal loop. Cancel is idempotent and
// blocks until the loop has stopped, so no mutation of the revealed
// message can happen after it returns. Done is also closed when the
// loop finishes naturally.
type Task struct {
	stop func()
	done chan struct{}
}

// Done reports completion or cancellation of the reveal.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel stops the reveal loop and waits for it to exit.
func (t *Task) Cancel() {
	t.stop()
	<-t.done
}

// completedTask returns an already-finished handle, used on paths
// that have nothing to reveal.
func completedTask() *Task {
	done := make(chan struct{})
	close(done)
	return &Task{stop: func() {}, done: done}
}

// newRevealTask starts a ticker-driven loop growing the revealed text
// by one rune per tick. apply receives each partial string; finish
// runs only when the full text was revealed.
func newRevealTask(interval time.Duration, text string, apply func(partial string), finish func()) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{
		stop: sync.OnceFunc(cancel),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runes := []rune(text)
		for i := 1; i <= len(runes); i++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				apply(string(runes[:i]))
			}
		}
		finish()
	}()

	return t
}
