//go:build freebsd

package threadid

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Supported reports whether Current returns real thread ids on this platform.
const Supported = true

func current() uint64 {
	var tid int64
	_, _, errno := unix.Syscall(unix.SYS_THR_SELF, uintptr(unsafe.Pointer(&tid)), 0, 0)
	if errno != 0 {
		return 0
	}
	return uint64(tid)
}
