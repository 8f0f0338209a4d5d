package fixture

import (
	"github.com/a2y-d5l/waitthread/marker"
	"github.com/a2y-d5l/waitthread/observability"
)

// Option configures the Coordinator.
type Option func(*config)

// WithAnnouncer sends markers through a. It takes precedence over WithSinks.
func WithAnnouncer(a *marker.Announcer) Option { return func(c *config) { c.Announcer = a } }

// WithSinks sets the marker sinks (default: stdout).
func WithSinks(sinks ...marker.Sink) Option { return func(c *config) { c.Sinks = sinks } }

// WithPID overrides the process id printed in the first marker.
func WithPID(pid int) Option { return func(c *config) { c.PID = pid } }

// WithThreadIDFunc overrides the thread id resolver.
func WithThreadIDFunc(f func() uint64) Option { return func(c *config) { c.ThreadID = f } }

// WithStartHook runs f after the start notification, before the start gate
// opens.
func WithStartHook(f func()) Option { return func(c *config) { c.StartHook = f } }

// WithTermHook runs f after the termination notification, before the
// termination gate opens.
func WithTermHook(f func()) Option { return func(c *config) { c.TermHook = f } }

// WithCheckpointHook runs f on each worker thread right after its checkpoint
// call.
func WithCheckpointHook(f func(index int)) Option { return func(c *config) { c.CheckpointHook = f } }

// WithLogger injects a diagnostic logger.
func WithLogger(l observability.Logger) Option { return func(c *config) { c.Logger = l } }

// WithMetrics records run metrics on m.
func WithMetrics(m observability.MetricsCollector) Option { return func(c *config) { c.Metrics = m } }
