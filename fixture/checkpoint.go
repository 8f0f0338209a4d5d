package fixture

import "github.com/a2y-d5l/waitthread/marker"

// The functions below are the locations a debugger sets breakpoints on. They
// must stay real, non-inlined calls with stable symbols.

// BreakpointThrFunc is called by every worker once the start gate opens.
//
//go:noinline
func BreakpointThrFunc(a *marker.Announcer, index int, tid uint64) {
	a.Announce(marker.KindCheckpoint, index, tid, "In breakpoint_thr_func")
}

// StartNotification is called by the coordinator right before it opens the
// start gate.
//
//go:noinline
func StartNotification(a *marker.Announcer, tid uint64) {
	a.Announce(marker.KindStartNotification, marker.Coordinator, tid, "In start_notification")
}

// TermNotification is called by the coordinator right before it opens the
// termination gate.
//
//go:noinline
func TermNotification(a *marker.Announcer, tid uint64) {
	a.Announce(marker.KindTermNotification, marker.Coordinator, tid, "In term_notification")
}

// Checkpoint names a breakpoint location.
type Checkpoint struct {
	Name string
	Func any
}

// Checkpoints lists the breakpoint locations under their conventional names.
func Checkpoints() []Checkpoint {
	return []Checkpoint{
		{Name: "breakpoint_thr_func", Func: BreakpointThrFunc},
		{Name: "start_notification", Func: StartNotification},
		{Name: "term_notification", Func: TermNotification},
	}
}
