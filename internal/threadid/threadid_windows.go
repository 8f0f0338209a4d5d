//go:build windows

package threadid

import "golang.org/x/sys/windows"

// Supported reports whether Current returns real thread ids on this platform.
const Supported = true

func current() uint64 {
	return uint64(windows.GetCurrentThreadId())
}
