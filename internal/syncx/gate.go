package syncx

import (
	"context"
	"sync/atomic"
)

// Gate is a one-shot, multi-waiter synchronization primitive.
//
// A Gate starts closed. Any number of goroutines may block in Wait until the
// owner calls Open, after which every current and future waiter proceeds
// immediately. A Gate never closes again.
//
// Open must be called by a single owner and succeeds only once; later calls
// return ErrGateAlreadyOpen and leave the gate untouched.
type Gate struct {
	name   string
	done   chan struct{}
	opened atomic.Bool
}

// NewGate creates a closed gate. The name only shows up in errors and logs.
func NewGate(name string) *Gate {
	return &Gate{
		name: name,
		done: make(chan struct{}),
	}
}

// Name returns the gate's diagnostic name.
func (g *Gate) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Open releases all waiters. It returns ErrGateAlreadyOpen if the gate was
// opened before.
func (g *Gate) Open() error {
	if g == nil {
		return ErrNilGate
	}
	if !g.opened.CompareAndSwap(false, true) {
		return &GateError{Gate: g.name, Err: ErrGateAlreadyOpen}
	}
	close(g.done)
	return nil
}

// Wait blocks until the gate is opened. There is no timeout.
func (g *Gate) Wait() error {
	if g == nil {
		return ErrNilGate
	}
	<-g.done
	return nil
}

// WaitContext blocks until the gate is opened or ctx is done.
func (g *Gate) WaitContext(ctx context.Context) error {
	if g == nil {
		return ErrNilGate
	}
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed once the gate opens.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// IsOpen reports whether Open has been called.
func (g *Gate) IsOpen() bool {
	if g == nil {
		return false
	}
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}
