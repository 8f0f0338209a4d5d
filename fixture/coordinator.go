package fixture

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/a2y-d5l/waitthread/internal/syncx"
	"github.com/a2y-d5l/waitthread/marker"
	"github.com/a2y-d5l/waitthread/observability"
)

// Coordinator owns one run: both gates, the worker fan-out and the join.
// Run it from the main goroutine locked to the main OS thread so the
// coordinator's thread id is the process's initial thread.
type Coordinator struct {
	cfg       config
	workers   int
	start     *syncx.Gate
	term      *syncx.Gate
	announcer *marker.Announcer
	log       *observability.RunLogger
	metrics   *observability.RunMetrics
	handles   []*worker
	ran       atomic.Bool
}

// New creates a coordinator for the given worker count. Counts below 1 are
// clamped to 1. Both gates are created closed here.
func New(workers int, opts ...Option) *Coordinator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if workers < 1 {
		workers = 1
	}

	if cfg.Logger == nil {
		cfg.Logger = observability.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewInMemoryMetricsCollector()
	}

	metrics := observability.NewRunMetrics(cfg.Metrics)
	announcer := cfg.Announcer
	if announcer == nil {
		sinks := cfg.Sinks
		if len(sinks) == 0 {
			sinks = []marker.Sink{marker.NewLineSink("stdout", os.Stdout)}
		}
		announcer = marker.NewAnnouncer(cfg.PID, sinks,
			marker.WithLogger(cfg.Logger),
			marker.WithMetrics(metrics),
		)
	}

	handles := make([]*worker, workers)
	for i := range handles {
		handles[i] = newWorker()
	}

	return &Coordinator{
		cfg:       cfg,
		workers:   workers,
		start:     syncx.NewGate("start"),
		term:      syncx.NewGate("term"),
		announcer: announcer,
		log:       observability.NewRunLogger(cfg.Logger, cfg.PID, workers),
		metrics:   metrics,
		handles:   handles,
	}
}

// Workers returns the effective worker count.
func (c *Coordinator) Workers() int { return c.workers }

// StartGate returns the gate workers park on before the checkpoint.
func (c *Coordinator) StartGate() *syncx.Gate { return c.start }

// TermGate returns the gate workers park on before exiting.
func (c *Coordinator) TermGate() *syncx.Gate { return c.term }

// States returns a snapshot of every worker's state, by index.
func (c *Coordinator) States() []State {
	out := make([]State, len(c.handles))
	for i, w := range c.handles {
		out[i] = w.State()
	}
	return out
}

// Run executes the whole gate sequence and blocks until every worker has been
// joined. It can be called once.
func (c *Coordinator) Run() (err error) {
	if !c.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRan
	}

	began := time.Now()
	tid := c.cfg.ThreadID()
	defer func() {
		c.metrics.RecordRunDuration(time.Since(began))
		c.log.LogRunComplete(time.Since(began), err)
	}()

	c.announcer.Announce(marker.KindPID, marker.Coordinator, tid, "%d", c.cfg.PID)
	c.log.Info("coordinator started", observability.ThreadID(tid))

	c.spawn()

	StartNotification(c.announcer, tid)
	if c.cfg.StartHook != nil {
		c.cfg.StartHook()
	}
	c.announcer.Announce(marker.KindStartReceived, marker.Coordinator, tid, "Received start notification")

	if err := c.openGate(c.start, tid); err != nil {
		return c.abort(err)
	}
	c.announcer.Announce(marker.KindStartOpened, marker.Coordinator, tid, "Unlocked mutex, waiting for breakpoint notification")

	TermNotification(c.announcer, tid)
	if c.cfg.TermHook != nil {
		c.cfg.TermHook()
	}
	c.announcer.Announce(marker.KindTermReceived, marker.Coordinator, tid, "Received term notification")

	if err := c.openGate(c.term, tid); err != nil {
		return c.abort(err)
	}
	c.announcer.Announce(marker.KindTermOpened, marker.Coordinator, tid, "Unlocked term mutex, joining")

	return c.join()
}

func (c *Coordinator) spawn() {
	env := workerEnv{
		announcer:      c.announcer,
		log:            c.log,
		metrics:        c.metrics,
		threadID:       c.cfg.ThreadID,
		checkpointHook: c.cfg.CheckpointHook,
	}

	for i, w := range c.handles {
		go w.run(Descriptor{Index: i, Start: c.start, Term: c.term}, env)
	}
	c.log.Debug("workers spawned", observability.Operation("spawn"))
}

func (c *Coordinator) openGate(g *syncx.Gate, tid uint64) error {
	err := g.Open()
	c.log.LogGate(g.Name(), tid, err)
	if err != nil {
		return fmt.Errorf("%w: open %s gate: %w", ErrSyncPrimitive, g.Name(), err)
	}
	c.metrics.RecordGateOpen(g.Name())
	return nil
}

// join waits for every worker in index order.
func (c *Coordinator) join() error {
	errs := syncx.NewMultiError()
	for i, w := range c.handles {
		<-w.done

		werr := w.result(i)
		c.log.LogJoin(i, w.tid.Load(), werr)
		if werr != nil {
			errs.Add(werr)
			kind := "join"
			if errors.Is(werr, ErrSpawn) {
				kind = "spawn"
			}
			c.metrics.RecordWorkerFailure(kind)
			continue
		}

		c.announcer.Announce(marker.KindJoined, marker.Coordinator, w.tid.Load(), "Joined thread %d", i)
	}
	return errs.ToError()
}

// abort releases whatever is still parked after a gate failure so the run
// can be joined, then reports cause together with any worker failures.
func (c *Coordinator) abort(cause error) error {
	_ = c.start.Open()
	_ = c.term.Open()

	errs := syncx.NewMultiError()
	errs.Add(cause)
	if err := c.join(); err != nil {
		errs.Add(err)
	}
	return errs.ToError()
}
