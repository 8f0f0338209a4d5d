// Package embeddednats runs an in-process NATS server. The marker sink tests
// use it as the remote observer's broker.
package embeddednats

import (
	"context"
	"fmt"
	"time"

	nserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// Server is an embedded nats-server.
type Server struct {
	s *nserver.Server
}

// DefaultOptions listens on a random loopback port with logging and signal
// handling turned off.
func DefaultOptions() *nserver.Options {
	return &nserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoSigs: true,
		NoLog:  true,
	}
}

// Start creates the server, launches it and blocks until a client can
// connect or ctx expires. nil opts means DefaultOptions.
func Start(ctx context.Context, opts *nserver.Options) (*Server, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	ns, err := nserver.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("nats server create: %w", err)
	}

	e := &Server{s: ns}
	go ns.Start()

	if err := e.ready(ctx); err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready: %w", err)
	}
	return e, nil
}

// ClientURL returns the nats:// URL clients should connect to.
func (e *Server) ClientURL() string { return e.s.ClientURL() }

// ready polls with a real client connection rather than trusting
// ReadyForConnections alone.
func (e *Server) ready(ctx context.Context) error {
	t := time.NewTicker(25 * time.Millisecond)
	defer t.Stop()

	for {
		if e.s.ReadyForConnections(0) && e.canConnect() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (e *Server) canConnect() bool {
	nc, err := nats.Connect(e.s.ClientURL(), nats.Timeout(100*time.Millisecond))
	if err != nil {
		return false
	}
	nc.Close()
	return true
}

// Shutdown stops the server and waits for it, up to ctx.
func (e *Server) Shutdown(ctx context.Context) error {
	e.s.Shutdown()
	wait := make(chan struct{})
	go func() {
		e.s.WaitForShutdown()
		close(wait)
	}()
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("server wait canceled: %w", ctx.Err())
	}
}
