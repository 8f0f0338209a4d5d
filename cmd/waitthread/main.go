// Command waitthread is the multi-thread debugger fixture.
//
//	waitthread <num. of threads>
//
// It prints its pid, starts the requested number of worker threads and walks
// them through the start and termination gates, printing a marker line at
// every step. "waitthread symbols" prints the checkpoint locations as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/a2y-d5l/waitthread/fixture"
	"github.com/a2y-d5l/waitthread/internal/threadid"
	"github.com/a2y-d5l/waitthread/marker"
	"github.com/a2y-d5l/waitthread/observability"
	"github.com/a2y-d5l/waitthread/signalwait"
)

// The coordinator must run on the process's initial thread.
func init() {
	runtime.LockOSThread()
}

const usageLine = "Usage: waitthread <num. of threads>"

// errUsage is returned after the usage line has been printed.
var errUsage = errors.New("usage")

type options struct {
	logLevel    string
	logFormat   string
	natsURL     string
	natsSubject string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(normalizeArgs(args))

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "waitthread: %v\n", err)
		}
		return 1
	}
	return 0
}

// normalizeArgs stops flag parsing in front of a negative count so that
// "waitthread -1" is clamped instead of rejected as an unknown flag.
func normalizeArgs(args []string) []string {
	for i, a := range args {
		if a == "--" {
			return args
		}
		if strings.HasPrefix(a, "-") {
			if _, err := strconv.Atoi(a); err == nil {
				out := make([]string, 0, len(args)+1)
				out = append(out, args[:i]...)
				out = append(out, "--")
				return append(out, args[i:]...)
			}
		}
	}
	return args
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	usage := func() error {
		fmt.Fprintln(stdout, usageLine)
		return errUsage
	}

	cmd := &cobra.Command{
		Use:           "waitthread <num. of threads>",
		Short:         "Multi-thread debugger fixture",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usage()
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return usage()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := strconv.Atoi(args[0])
			return runFixture(n, opts, stdout, stderr)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error { return usage() })

	flags := cmd.Flags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "diagnostic log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "diagnostic log format (text, json)")
	flags.StringVar(&opts.natsURL, "nats-url", "", "also publish markers to this NATS server")
	flags.StringVar(&opts.natsSubject, "nats-subject", marker.DefaultSubjectPrefix, "subject prefix for published markers")

	cmd.AddCommand(newSymbolsCommand(stdout))
	return cmd
}

func newLogger(opts *options, stderr io.Writer) (observability.Logger, error) {
	level, err := observability.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fixture.ErrConfig, err)
	}
	format, err := observability.ParseFormat(opts.logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fixture.ErrConfig, err)
	}
	return observability.NewLogger(observability.LoggerConfig{
		Level:  level,
		Format: format,
		Output: stderr,
	}), nil
}

func runFixture(n int, opts *options, stdout, stderr io.Writer) error {
	logger, err := newLogger(opts, stderr)
	if err != nil {
		return err
	}

	collector := observability.NewInMemoryMetricsCollector()
	sinks := []marker.Sink{marker.NewLineSink("stdout", stdout)}
	if opts.natsURL != "" {
		ns, err := marker.DialNATSSink(opts.natsURL, opts.natsSubject)
		if err != nil {
			return err
		}
		sinks = append(sinks, ns)
	}

	pid := threadid.PID()
	announcer := marker.NewAnnouncer(pid, sinks,
		marker.WithLogger(logger),
		marker.WithMetrics(observability.NewRunMetrics(collector)),
	)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := announcer.Close(ctx); err != nil {
			logger.Warn("closing marker sinks", observability.ErrorField(err))
		}
	}()

	sigs, stopSignals := signalwait.Notify(signalwait.Reported...)
	done := make(chan struct{})
	go signalwait.Report(announcer, sigs, threadid.Current, done)
	defer func() {
		stopSignals()
		close(done)
	}()

	c := fixture.New(n,
		fixture.WithAnnouncer(announcer),
		fixture.WithPID(pid),
		fixture.WithLogger(logger),
		fixture.WithMetrics(collector),
	)
	return c.Run()
}

func newSymbolsCommand(stdout io.Writer) *cobra.Command {
	var executable string

	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Print checkpoint symbols and binary metadata as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := executable
			if path == "" {
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("locate executable: %w", err)
				}
				path = exe
			}

			md, err := fixture.Describe(path)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(md)
		},
	}
	cmd.Flags().StringVar(&executable, "executable", "", "binary to hash (default: this executable)")
	return cmd
}
