// Package signalwait implements the single-threaded companion fixture: a
// process that sits idle and reacts to a small set of signals so a debugger
// can test signal interception. It also holds the signal reporter used by
// the multi-thread fixture.
package signalwait
