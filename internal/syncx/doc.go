// Package syncx provides the synchronization utilities used by the fixture.
//
// Key Components:
//
// • Gate: one-shot, multi-waiter primitive that starts closed and is opened
// exactly once by its owner
// • MultiError: thread-safe error collection and reporting
//
// Gates are built on channel close, so a goroutine parked in Gate.Wait sits in
// the runtime scheduler and its locked OS thread sleeps in the kernel, which
// is where an attached debugger expects to find it.
package syncx
