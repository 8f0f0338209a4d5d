package fixture

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig indicates a missing or malformed worker count.
	ErrConfig = errors.New("invalid configuration")
	// ErrSyncPrimitive indicates a gate could not be built, waited on or opened.
	ErrSyncPrimitive = errors.New("synchronization primitive failure")
	// ErrSpawn indicates a worker failed before it reached the start gate.
	ErrSpawn = errors.New("worker spawn failed")
	// ErrJoin indicates a worker ended with an error after it started.
	ErrJoin = errors.New("worker join failed")
	// ErrAlreadyRan indicates Run was called more than once.
	ErrAlreadyRan = errors.New("coordinator already ran")
)

// WorkerError describes one failed worker. errors.Is matches both its Kind
// (ErrSpawn or ErrJoin) and the underlying cause.
type WorkerError struct {
	Index    int
	ThreadID uint64
	State    State
	Kind     error
	Err      error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("%v: worker %d (thread %d) in %s: %v", e.Kind, e.Index, e.ThreadID, e.State, e.Err)
}

func (e *WorkerError) Unwrap() []error { return []error{e.Kind, e.Err} }

// PanicError wraps a value recovered from a panicking worker.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
