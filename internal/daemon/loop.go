// Package daemon runs the owner instance: the UI loop, the wake listener and the shell around the watchdog.
package daemon

import (
	"context"
	"sync"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// DefaultLoopBuffer is the number of closures that may wait for the UI thread.
const DefaultLoopBuffer = 64

// Loop is the UI thread: a single goroutine running posted closures in order.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(buffer int) *Loop {
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn for the UI thread. Returns false once the loop has exited.
// Blocks while the queue is full.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the UI thread and waits for it to finish.
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}

	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Run drains the queue on the calling goroutine until ctx is canceled.
// Closures still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.closeOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Ensure Loop implements domain.Dispatcher.
var _ domain.Dispatcher = (*Loop)(nil)
