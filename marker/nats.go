package marker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
)

// Header names set on every published marker.
const (
	HeaderKind   = "Waitthread-Kind"
	HeaderSeq    = "Waitthread-Seq"
	HeaderThread = "Waitthread-Thread"
)

// DefaultSubjectPrefix is the subject prefix used when none is configured.
const DefaultSubjectPrefix = "waitthread"

// NATSSink publishes markers as JSON on <prefix>.<pid>.<kind>, so a remote
// observer can follow one process with a wildcard subscription such as
// "waitthread.1234.>".
type NATSSink struct {
	nc           *nats.Conn
	prefix       string
	owned        bool
	flushTimeout time.Duration
}

// NewNATSSink publishes on an existing connection. Close flushes but leaves
// the connection open.
func NewNATSSink(nc *nats.Conn, prefix string) *NATSSink {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSSink{
		nc:           nc,
		prefix:       prefix,
		flushTimeout: 2 * time.Second,
	}
}

// DialNATSSink connects to url and publishes on the new connection, which
// Close drains.
func DialNATSSink(url, prefix string, opts ...nats.Option) (*NATSSink, error) {
	opts = append([]nats.Option{
		nats.Name("waitthread"),
		nats.Timeout(2 * time.Second),
	}, opts...)

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}

	s := NewNATSSink(nc, prefix)
	s.owned = true
	return s, nil
}

// Name returns the sink name.
func (s *NATSSink) Name() string { return "nats" }

// Subject returns the subject a marker of kind from pid is published on.
func (s *NATSSink) Subject(pid int, kind Kind) string {
	return fmt.Sprintf("%s.%d.%s", s.prefix, pid, kind)
}

// Emit publishes ev. Publishing only buffers; Close flushes.
func (s *NATSSink) Emit(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal marker: %w", err)
	}

	msg := &nats.Msg{
		Subject: s.Subject(ev.PID, ev.Kind),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set(HeaderKind, string(ev.Kind))
	msg.Header.Set(HeaderSeq, strconv.FormatUint(ev.Seq, 10))
	if ev.ThreadID != 0 {
		msg.Header.Set(HeaderThread, strconv.FormatUint(ev.ThreadID, 10))
	}

	if err := s.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	return nil
}

// Close flushes pending markers and drains the connection if the sink
// dialed it.
func (s *NATSSink) Close(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.flushTimeout)
		defer cancel()
	}

	if err := s.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush markers: %w", err)
	}
	if s.owned {
		return s.nc.Drain()
	}
	return nil
}
