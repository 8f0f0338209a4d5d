// Command signalwait is the single-threaded companion fixture. It idles until
// it receives SIGUSR1, SIGSEGV or SIGUSR2, reports each one, stays busy for a
// fixed pause and goes back to waiting. SIGINT or SIGTERM ends it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/a2y-d5l/waitthread/internal/threadid"
	"github.com/a2y-d5l/waitthread/marker"
	"github.com/a2y-d5l/waitthread/observability"
	"github.com/a2y-d5l/waitthread/signalwait"
)

type options struct {
	pause     time.Duration
	logLevel  string
	logFormat string
}

func main() {
	ctx := context.Background()
	if len(signalwait.Shutdown) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, signalwait.Shutdown...)
		defer stop()
	}

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "signalwait: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "signalwait",
		Short:         "Idle until signalled; companion debugger fixture",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return idle(cmd.Context(), opts, stdout, stderr)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.DurationVar(&opts.pause, "pause", signalwait.DefaultPause, "how long to stay busy after each signal")
	flags.StringVar(&opts.logLevel, "log-level", "info", "diagnostic log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "diagnostic log format (text, json)")
	return cmd
}

func idle(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	level, err := observability.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	format, err := observability.ParseFormat(opts.logFormat)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(observability.LoggerConfig{
		Level:  level,
		Format: format,
		Output: stderr,
	})

	pid := threadid.PID()
	announcer := marker.NewAnnouncer(pid, []marker.Sink{marker.NewLineSink("stdout", stdout)},
		marker.WithLogger(logger),
	)

	announcer.Announce(marker.KindPID, marker.Coordinator, threadid.Current(), "%d", pid)

	idler := signalwait.NewIdler(announcer,
		signalwait.WithPause(opts.pause),
		signalwait.WithLogger(logger),
		signalwait.WithThreadIDFunc(threadid.Current),
	)

	sigs, stop := signalwait.Notify(signalwait.WatchedSignals()...)
	defer stop()

	go func() {
		<-ctx.Done()
		idler.Stop()
	}()

	logger.Info("waiting for signals", observability.Duration("pause", opts.pause))
	idler.Run(sigs)
	logger.Info("stopped", slog.Int64("handled", idler.Handled()))
	return nil
}
