package marker

import (
	"io"
	"sync"
)

// LineSink writes each marker's text as one line.
type LineSink struct {
	name string
	mu   sync.Mutex
	w    io.Writer
}

// NewLineSink writes markers to w. Markers are written unbuffered so that a
// debugger stopping the process sees every line emitted so far.
func NewLineSink(name string, w io.Writer) *LineSink {
	return &LineSink{name: name, w: w}
}

// Name returns the sink name.
func (s *LineSink) Name() string { return s.name }

// Emit writes ev.Text followed by a newline.
func (s *LineSink) Emit(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := io.WriteString(s.w, ev.Text+"\n")
	return err
}
