// Package threadid resolves the kernel identifier of the calling OS thread.
//
// The value is what a debugger or /proc shows for the thread, not a goroutine
// id and not the process id. It is only meaningful while the calling
// goroutine is locked to its thread with runtime.LockOSThread.
package threadid

import "os"

// Current returns the kernel id of the calling thread. It is resolved on every
// call. Platforms without a resolver return 0; see Supported.
func Current() uint64 {
	return current()
}

// PID returns the process id.
func PID() int {
	return os.Getpid()
}
