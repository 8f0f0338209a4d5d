// Package fixture implements the multi-thread wait fixture: a coordinator on
// the main thread, N workers each locked to its own OS thread, and two
// one-shot gates that hold the workers at fixed points.
//
// Every worker goes through the same sequence:
//
//	created → awaiting-start → at-checkpoint → awaiting-termination → finished
//
// and the coordinator guarantees that no worker reaches its checkpoint before
// StartNotification has run, and that no worker finishes before
// TermNotification has run. A debugger attached to the process sets
// breakpoints on BreakpointThrFunc, StartNotification and TermNotification
// and correlates the thread ids printed in the markers with the threads it
// sees.
//
// Example:
//
//	c := fixture.New(3, fixture.WithLogger(logger))
//	if err := c.Run(); err != nil {
//		os.Exit(1)
//	}
package fixture
