package marker

import (
	"context"
	"sync"
)

// Recorder keeps every marker in memory. Tests and in-process observers use
// it in place of parsing stdout.
type Recorder struct {
	mu      sync.Mutex
	events  []Event
	changed chan struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{changed: make(chan struct{})}
}

// Name returns the sink name.
func (r *Recorder) Name() string { return "recorder" }

// Emit stores ev and wakes anyone in WaitFor.
func (r *Recorder) Emit(ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	close(r.changed)
	r.changed = make(chan struct{})
	r.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded markers in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Texts returns the recorded marker lines in emission order.
func (r *Recorder) Texts() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Text
	}
	return out
}

// OfKind returns the recorded markers of kind.
func (r *Recorder) OfKind(kind Kind) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns how many markers of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	return len(r.OfKind(kind))
}

// WaitFor blocks until at least n markers of kind were recorded or ctx ends.
func (r *Recorder) WaitFor(ctx context.Context, kind Kind, n int) error {
	for {
		r.mu.Lock()
		count := 0
		for _, ev := range r.events {
			if ev.Kind == kind {
				count++
			}
		}
		changed := r.changed
		r.mu.Unlock()

		if count >= n {
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
