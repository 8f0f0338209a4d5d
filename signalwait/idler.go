package signalwait

import (
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/a2y-d5l/waitthread/marker"
	"github.com/a2y-d5l/waitthread/observability"
)

// Category is the abstract kind of a watched signal.
type Category int

const (
	User1 Category = iota
	Fault
	User2
)

func (c Category) String() string {
	switch c {
	case User1:
		return "user1"
	case Fault:
		return "fault"
	case User2:
		return "user2"
	}
	return "unknown"
}

// DefaultPause is how long the idler stays busy after each signal.
const DefaultPause = 5 * time.Second

// Idler waits for signals and, for each one, marks it, stays busy for a
// fixed pause and marks that it is done. Stop ends the loop; the stop flag is
// an atomic and the wakeup is a channel close, so Run observes Stop with a
// proper happens-before edge.
type Idler struct {
	announcer *marker.Announcer
	logger    observability.Logger
	pause     time.Duration
	tid       func() uint64

	stopped atomic.Bool
	stop    chan struct{}
	handled atomic.Int64
}

// IdlerOption configures an Idler.
type IdlerOption func(*Idler)

// WithPause overrides DefaultPause.
func WithPause(d time.Duration) IdlerOption { return func(i *Idler) { i.pause = d } }

// WithLogger sets the diagnostic logger.
func WithLogger(l observability.Logger) IdlerOption { return func(i *Idler) { i.logger = l } }

// WithThreadIDFunc sets the resolver used to tag markers.
func WithThreadIDFunc(f func() uint64) IdlerOption { return func(i *Idler) { i.tid = f } }

// NewIdler creates an idler that reports through a.
func NewIdler(a *marker.Announcer, opts ...IdlerOption) *Idler {
	i := &Idler{
		announcer: a,
		logger:    observability.Default(),
		pause:     DefaultPause,
		tid:       func() uint64 { return 0 },
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run handles signals from sigs until Stop is called or sigs is closed.
func (i *Idler) Run(sigs <-chan os.Signal) {
	for !i.stopped.Load() {
		select {
		case <-i.stop:
			return
		case sig, ok := <-sigs:
			if !ok {
				return
			}
			i.handle(sig)
		}
	}
}

// Stop ends Run and cuts short any pause in progress. Safe to call more than
// once.
func (i *Idler) Stop() {
	if i.stopped.CompareAndSwap(false, true) {
		close(i.stop)
	}
}

// Stopped reports whether Stop was called.
func (i *Idler) Stopped() bool {
	return i.stopped.Load()
}

// Handled returns how many signals were handled.
func (i *Idler) Handled() int64 {
	return i.handled.Load()
}

func (i *Idler) handle(sig os.Signal) {
	tid := i.tid()
	category, watched := Watched[sig]
	if !watched {
		i.logger.Warn("unwatched signal received", observability.Signal(sig.String()))
	}
	i.logger.Info("signal received",
		observability.Signal(sig.String()),
		observability.ThreadID(tid),
		slog.String("category", category.String()),
	)

	i.announcer.Announce(marker.KindSignal, marker.Coordinator, tid, "Received signal %d", signalNumber(sig))
	i.handled.Add(1)

	timer := time.NewTimer(i.pause)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-i.stop:
	}

	i.announcer.Announce(marker.KindSignalDone, marker.Coordinator, tid, "Done sleeping")
}

// Notify subscribes to sigs and returns the channel and a function that
// unsubscribes.
func Notify(sigs ...os.Signal) (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 4)
	if len(sigs) == 0 {
		return ch, func() {}
	}
	signal.Notify(ch, sigs...)
	return ch, func() { signal.Stop(ch) }
}

// WatchedSignals returns the keys of Watched.
func WatchedSignals() []os.Signal {
	out := make([]os.Signal, 0, len(Watched))
	for sig := range Watched {
		out = append(out, sig)
	}
	return out
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return -1
}
