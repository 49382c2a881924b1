package notifier

import (
	"context"
	"errors"
	"sync"
)

// DefaultQueueSize bounds the calls an Async channel holds before dropping.
const DefaultQueueSize = 16

// errQueueFull is reported when a call is dropped because the queue is full.
var errQueueFull = errors.New("notification queue is full")

// asyncCall is one queued Fire or Stop.
type asyncCall struct {
	ctx     context.Context //nolint:containedctx // Carried to the worker for logging.
	kind    string
	message string
}

// Async forwards calls to a slow channel, such as a webhook, from its own
// goroutine. Fire and Stop only enqueue; the worker replays them in order.
type Async struct {
	name  string
	inner Channel
	queue chan asyncCall
	done  chan struct{}

	// mu guards closed and sends on queue.
	mu     sync.Mutex
	closed bool
}

// NewAsync starts a worker for inner. name labels dropped-call reports.
// A non-positive size means DefaultQueueSize.
func NewAsync(name string, inner Channel, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}

	a := &Async{
		name:  name,
		inner: inner,
		queue: make(chan asyncCall, size),
		done:  make(chan struct{}),
	}

	go a.run()

	return a
}

// Fire enqueues a fire call.
func (a *Async) Fire(ctx context.Context, message string) {
	a.enqueue(asyncCall{ctx: ctx, kind: CallFire, message: message})
}

// Stop enqueues a stop call.
func (a *Async) Stop(ctx context.Context) {
	a.enqueue(asyncCall{ctx: ctx, kind: CallStop})
}

// Close stops accepting calls and waits until the queued ones are delivered.
func (a *Async) Close() {
	a.mu.Lock()

	if !a.closed {
		a.closed = true
		close(a.queue)
	}

	a.mu.Unlock()

	<-a.done
}

func (a *Async) enqueue(call asyncCall) {
	// The worker outlives the poll cycle, so it must not inherit its cancellation.
	call.ctx = context.WithoutCancel(call.ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	select {
	case a.queue <- call:
	default:
		report(call.ctx, a.name, call.kind, errQueueFull)
	}
}

func (a *Async) run() {
	defer close(a.done)

	for call := range a.queue {
		switch call.kind {
		case CallFire:
			a.inner.Fire(call.ctx, call.message)
		case CallStop:
			a.inner.Stop(call.ctx)
		}
	}
}
