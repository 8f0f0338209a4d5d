// Package marker emits the observable phase markers of the fixture.
//
// Every marker is a single line of text (for example "4242 waiting on lock")
// plus structured context: a sequence number, the kind of transition, the
// process id, the kernel thread id and the logical worker index. An Announcer
// hands each marker to its sinks under one lock:
//
//   - LineSink writes the text to stdout, which is what a debugger test
//     harness parses
//   - NATSSink publishes the marker as JSON on <prefix>.<pid>.<kind>
//   - Recorder keeps markers in memory for tests
package marker
