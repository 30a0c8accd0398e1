package heb

import (
	"context"
	"sync"
)

// taskGroup tracks fire-and-forget goroutines so the dispatcher can wait
// for the whole reaction graph to go quiet. Tasks may spawn further tasks
// while a wait is in progress.
type taskGroup struct {
	mu      sync.Mutex
	pending map[uint64]chan struct{}
	next    uint64
}

func newTaskGroup() *taskGroup {
	return &taskGroup{pending: make(map[uint64]chan struct{})}
}

// Go runs fn on its own goroutine and tracks it until it returns.
func (g *taskGroup) Go(fn func()) {
	g.mu.Lock()
	id := g.next
	g.next++
	done := make(chan struct{})
	g.pending[id] = done
	g.mu.Unlock()

	go func() {
		defer func() {
			g.mu.Lock()
			delete(g.pending, id)
			g.mu.Unlock()
			close(done)
		}()
		fn()
	}()
}

// WaitIdle blocks until no tracked task remains, including tasks spawned
// after the wait began. A task observed in one snapshot may spawn
// successors before it finishes, so a single pass undercounts; the
// snapshot is retaken until one comes back empty.
func (g *taskGroup) WaitIdle(ctx context.Context) error {
	for {
		g.mu.Lock()
		snapshot := make([]chan struct{}, 0, len(g.pending))
		for _, done := range g.pending {
			snapshot = append(snapshot, done)
		}
		g.mu.Unlock()

		if len(snapshot) == 0 {
			return nil
		}
		for _, done := range snapshot {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
