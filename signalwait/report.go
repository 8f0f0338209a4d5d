package signalwait

import (
	"os"
	"runtime"

	"github.com/a2y-d5l/waitthread/marker"
)

// Report marks every signal from sigs with the id of the thread that picked
// it up, until sigs is closed or done is. The reporting goroutine is locked
// to one OS thread for its whole life.
func Report(a *marker.Announcer, sigs <-chan os.Signal, threadID func() uint64, done <-chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case <-done:
			return
		case sig, ok := <-sigs:
			if !ok {
				return
			}
			tid := threadID()
			a.Announce(marker.KindSignal, marker.Coordinator, tid, "Received %d on thread %d", signalNumber(sig), tid)
		}
	}
}
