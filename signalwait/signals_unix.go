//go:build unix

package signalwait

import (
	"os"
	"syscall"
)

// Watched maps the signals the idle fixture handles to their category.
var Watched = map[os.Signal]Category{
	syscall.SIGUSR1: User1,
	syscall.SIGSEGV: Fault,
	syscall.SIGUSR2: User2,
}

// Reported are the signals the multi-thread fixture reports and ignores.
var Reported = []os.Signal{syscall.SIGUSR1}

// Shutdown are the signals that stop the idle fixture.
var Shutdown = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
