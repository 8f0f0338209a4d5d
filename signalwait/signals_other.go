//go:build !unix && !windows

package signalwait

import "os"

// Watched maps the signals the idle fixture handles to their category.
var Watched = map[os.Signal]Category{}

// Reported are the signals the multi-thread fixture reports and ignores.
var Reported []os.Signal

// Shutdown are the signals that stop the idle fixture.
var Shutdown = []os.Signal{os.Interrupt}
