package fixture

import (
	"github.com/a2y-d5l/waitthread/internal/threadid"
	"github.com/a2y-d5l/waitthread/marker"
	"github.com/a2y-d5l/waitthread/observability"
)

// config holds the tunables of a run (via functional options).
type config struct {
	// Output
	Announcer *marker.Announcer
	Sinks     []marker.Sink

	// Identity
	PID      int
	ThreadID func() uint64

	// Hooks run on the coordinator or worker thread at the checkpoints. They
	// stand in for a debugger stopping there and are nil in normal runs.
	StartHook      func()
	TermHook       func()
	CheckpointHook func(index int)

	// Observability
	Logger  observability.Logger
	Metrics observability.MetricsCollector
}

func defaultConfig() config {
	return config{
		PID:      threadid.PID(),
		ThreadID: threadid.Current,
	}
}
