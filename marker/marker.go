package marker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/a2y-d5l/waitthread/internal/syncx"
	"github.com/a2y-d5l/waitthread/observability"
)

// Kind identifies the phase transition a marker reports.
type Kind string

const (
	KindPID               Kind = "pid"
	KindWaitingStart      Kind = "waiting-start"
	KindObtainedStart     Kind = "obtained-start"
	KindReleasedStart     Kind = "released-start"
	KindCheckpoint        Kind = "checkpoint"
	KindWaitingTerm       Kind = "waiting-term"
	KindObtainedTerm      Kind = "obtained-term"
	KindReleasedTerm      Kind = "released-term"
	KindStartNotification Kind = "start-notification"
	KindStartReceived     Kind = "start-received"
	KindStartOpened       Kind = "start-opened"
	KindTermNotification  Kind = "term-notification"
	KindTermReceived      Kind = "term-received"
	KindTermOpened        Kind = "term-opened"
	KindJoined            Kind = "joined"
	KindSignal            Kind = "signal"
	KindSignalDone        Kind = "signal-done"
)

// Coordinator is the Worker value of markers emitted by the main thread.
const Coordinator = -1

// Event is one observable marker.
type Event struct {
	Seq      uint64    `json:"seq"`
	Kind     Kind      `json:"kind"`
	PID      int       `json:"pid"`
	ThreadID uint64    `json:"threadId,omitempty"`
	Worker   int       `json:"worker"`
	Text     string    `json:"text"`
	Time     time.Time `json:"time"`
}

// Sink receives markers in emission order.
type Sink interface {
	Name() string
	Emit(ev Event) error
}

// Closer is implemented by sinks that hold resources.
type Closer interface {
	Close(ctx context.Context) error
}

// Announcer stamps markers with a sequence number and hands them to every
// sink while holding a lock, so all sinks see the same order and that order
// matches the happens-before order of the Announce calls.
type Announcer struct {
	mu      sync.Mutex
	seq     uint64
	pid     int
	sinks   []Sink
	logger  observability.Logger
	metrics *observability.RunMetrics
	now     func() time.Time
}

// Option configures an Announcer.
type Option func(*Announcer)

// WithLogger sets the logger sink failures are reported to.
func WithLogger(l observability.Logger) Option { return func(a *Announcer) { a.logger = l } }

// WithMetrics counts emitted markers and sink failures.
func WithMetrics(m *observability.RunMetrics) Option { return func(a *Announcer) { a.metrics = m } }

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option { return func(a *Announcer) { a.now = now } }

// NewAnnouncer creates an announcer for process pid writing to sinks.
func NewAnnouncer(pid int, sinks []Sink, opts ...Option) *Announcer {
	a := &Announcer{
		pid:    pid,
		sinks:  sinks,
		logger: observability.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PID returns the process id stamped on every event.
func (a *Announcer) PID() int {
	return a.pid
}

// Announce emits a marker. A failing sink is logged and skipped; markers are
// never dropped for the remaining sinks.
func (a *Announcer) Announce(kind Kind, worker int, tid uint64, format string, args ...any) Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.seq++
	ev := Event{
		Seq:      a.seq,
		Kind:     kind,
		PID:      a.pid,
		ThreadID: tid,
		Worker:   worker,
		Text:     fmt.Sprintf(format, args...),
		Time:     a.now(),
	}

	for _, s := range a.sinks {
		if err := s.Emit(ev); err != nil {
			a.logger.Warn("marker sink failed",
				observability.Operation("emit"),
				observability.ErrorField(err),
			)
			if a.metrics != nil {
				a.metrics.RecordSinkError(s.Name())
			}
		}
	}
	if a.metrics != nil {
		a.metrics.RecordMarker(string(kind))
	}
	return ev
}

// Close closes every sink that implements Closer.
func (a *Announcer) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	errs := syncx.NewMultiError()
	for _, s := range a.sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(ctx); err != nil {
				errs.Add(fmt.Errorf("close sink %s: %w", s.Name(), err))
			}
		}
	}
	return errs.ToError()
}
