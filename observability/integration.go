package observability

import (
	"log/slog"
	"time"
)

// RunLogger provides run-scoped logging for one fixture run.
type RunLogger struct {
	Logger
	pid int
}

// NewRunLogger creates a logger tagged with the process id and worker count.
func NewRunLogger(logger Logger, pid, workers int) *RunLogger {
	if logger == nil {
		logger = Default()
	}
	return &RunLogger{
		Logger: logger.With(PID(pid), WorkerCount(workers)),
		pid:    pid,
	}
}

// PID returns the process id the logger is tagged with.
func (rl *RunLogger) PID() int {
	return rl.pid
}

// ForWorker returns a logger tagged with a worker's index and thread id.
func (rl *RunLogger) ForWorker(index int, tid uint64) Logger {
	return rl.With(WorkerIndex(index), ThreadID(tid))
}

// LogPhase logs a worker phase transition at debug level.
func (rl *RunLogger) LogPhase(index int, tid uint64, phase string) {
	rl.Debug("worker phase",
		WorkerIndex(index),
		ThreadID(tid),
		Phase(phase),
	)
}

// LogGate logs a gate being opened by the coordinator.
func (rl *RunLogger) LogGate(gate string, tid uint64, err error) {
	logger := rl.With(
		GateName(gate),
		ThreadID(tid),
		Operation("gate-open"),
	)

	if err != nil {
		logger.Error("gate open failed",
			ErrorField(err),
			slog.String("failure_reason", "sync_primitive"),
		)
		return
	}
	logger.Info("gate opened")
}

// LogJoin logs the coordinator joining a worker.
func (rl *RunLogger) LogJoin(index int, tid uint64, err error) {
	logger := rl.With(
		WorkerIndex(index),
		ThreadID(tid),
		Operation("join"),
	)

	if err != nil {
		logger.Error("worker join failed", ErrorField(err))
		return
	}
	logger.Debug("worker joined")
}

// LogRunComplete logs the outcome of a run.
func (rl *RunLogger) LogRunComplete(elapsed time.Duration, err error) {
	logger := rl.With(
		Duration("run_duration", elapsed),
		Operation("run"),
	)

	if err != nil {
		logger.Error("run failed", ErrorField(err))
		return
	}
	logger.Info("run complete")
}
