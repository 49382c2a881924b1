package notifier

import (
	"context"
	"sync"
)

// Call kinds captured by Recorder.
const (
	CallFire = "fire"
	CallStop = "stop"
)

// Call is one recorded channel invocation.
type Call struct {
	Kind    string
	Message string
}

// Recorder remembers every call. Used by tests and dry runs.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return new(Recorder)
}

// Fire records a fire call.
func (r *Recorder) Fire(_ context.Context, message string) {
	r.record(Call{Kind: CallFire, Message: message})
}

// Stop records a stop call.
func (r *Recorder) Stop(context.Context) {
	r.record(Call{Kind: CallStop})
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}

// Fired returns the messages of every fire call in order.
func (r *Recorder) Fired() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var messages []string

	for _, call := range r.calls {
		if call.Kind == CallFire {
			messages = append(messages, call.Message)
		}
	}

	return messages
}

// Stops returns how many stop calls were recorded.
func (r *Recorder) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int

	for _, call := range r.calls {
		if call.Kind == CallStop {
			n++
		}
	}

	return n
}

func (r *Recorder) record(call Call) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, call)
}
