// Package observability provides the diagnostic side of the fixture:
// structured logging and in-memory metrics.
//
// # Structured Logging
//
// Logging is built on log/slog and writes to stderr by default so that
// stdout stays reserved for the phase markers a tester parses:
//
//	logger := observability.NewLogger(observability.LoggerConfig{
//		Level:  slog.LevelDebug,
//		Format: observability.JSON,
//	})
//
//	run := observability.NewRunLogger(logger, os.Getpid(), 3)
//	run.LogPhase(0, tid, "awaiting-start")
//
// # Metrics
//
// RunMetrics counts phase transitions, gate opens and worker failures on a
// MetricsCollector. Tests read the in-memory collector to check that every
// worker went through every phase exactly once:
//
//	collector := observability.NewInMemoryMetricsCollector()
//	metrics := observability.NewRunMetrics(collector)
//	metrics.RecordPhase("at-checkpoint")
//
//	collector.Value(observability.MetricPhaseTransitions,
//		map[string]string{"phase": "at-checkpoint"})
package observability
