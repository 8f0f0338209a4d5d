package syncx

import (
	"errors"
	"fmt"
)

// Gate errors
var (
	ErrNilGate         = errors.New("gate is nil")
	ErrGateAlreadyOpen = errors.New("gate already open")
)

// GateError ties a gate failure to the gate it happened on.
type GateError struct {
	Gate string
	Err  error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate %q: %v", e.Gate, e.Err)
}

func (e *GateError) Unwrap() error { return e.Err }
