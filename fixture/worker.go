package fixture

import (
	"runtime"
	"sync/atomic"

	"github.com/a2y-d5l/waitthread/internal/syncx"
	"github.com/a2y-d5l/waitthread/marker"
	"github.com/a2y-d5l/waitthread/observability"
)

// Descriptor is what a worker is given at spawn. It is passed by value and
// never modified. Index is informational only.
type Descriptor struct {
	Index int
	Start *syncx.Gate
	Term  *syncx.Gate
}

// workerEnv is shared, read-only state every worker uses.
type workerEnv struct {
	announcer      *marker.Announcer
	log            *observability.RunLogger
	metrics        *observability.RunMetrics
	threadID       func() uint64
	checkpointHook func(index int)
}

// worker is the coordinator's handle on one running worker. err and failedIn
// are written by the worker before done is closed and read only after.
type worker struct {
	state    atomic.Int32
	tid      atomic.Uint64
	done     chan struct{}
	err      error
	failedIn State
}

func newWorker() *worker {
	return &worker{done: make(chan struct{})}
}

// State returns the worker's current state.
func (w *worker) State() State {
	return State(w.state.Load())
}

// run is the worker body. The goroutine stays locked to its OS thread and
// never unlocks, so the thread exits together with the worker.
func (w *worker) run(desc Descriptor, env workerEnv) {
	runtime.LockOSThread()
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.fail(&PanicError{Value: r})
		}
	}()

	env.metrics.WorkerStarted()
	defer env.metrics.WorkerStopped()

	tid := env.threadID()
	w.tid.Store(tid)

	w.enter(AwaitingStart, desc.Index, env)
	env.announcer.Announce(marker.KindWaitingStart, desc.Index, tid, "%d waiting on lock", tid)

	if err := desc.Start.Wait(); err != nil {
		w.fail(err)
		return
	}

	env.announcer.Announce(marker.KindObtainedStart, desc.Index, tid, "%d obtained lock", tid)
	env.announcer.Announce(marker.KindReleasedStart, desc.Index, tid, "%d released lock", tid)

	w.enter(AtCheckpoint, desc.Index, env)
	BreakpointThrFunc(env.announcer, desc.Index, tid)
	if env.checkpointHook != nil {
		env.checkpointHook(desc.Index)
	}

	w.enter(AwaitingTermination, desc.Index, env)
	env.announcer.Announce(marker.KindWaitingTerm, desc.Index, tid, "%d waiting on term lock", tid)

	if err := desc.Term.Wait(); err != nil {
		w.fail(err)
		return
	}

	env.announcer.Announce(marker.KindObtainedTerm, desc.Index, tid, "%d obtained term lock", tid)
	env.announcer.Announce(marker.KindReleasedTerm, desc.Index, tid, "%d released term lock", tid)

	w.enter(Finished, desc.Index, env)
}

func (w *worker) enter(s State, index int, env workerEnv) {
	w.state.Store(int32(s))
	env.metrics.RecordPhase(s.String())
	env.log.LogPhase(index, w.tid.Load(), s.String())
}

func (w *worker) fail(err error) {
	w.failedIn = w.State()
	w.err = err
	w.state.Store(int32(Failed))
}

// result must only be called after done is closed.
func (w *worker) result(index int) error {
	if w.err == nil {
		return nil
	}

	kind := ErrJoin
	if w.failedIn == Created {
		kind = ErrSpawn
	}
	return &WorkerError{
		Index:    index,
		ThreadID: w.tid.Load(),
		State:    w.failedIn,
		Kind:     kind,
		Err:      w.err,
	}
}
