package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2y-d5l/waitthread/fixture"
	"github.com/a2y-d5l/waitthread/internal/embeddednats"
)

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func countLines(out []string, pred func(string) bool) int {
	n := 0
	for _, l := range out {
		if pred(l) {
			n++
		}
	}
	return n
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "two arguments", args: []string{"1", "2"}},
		{name: "non-numeric", args: []string{"three"}},
		{name: "trailing garbage", args: []string{"3abc"}},
		{name: "unknown flag", args: []string{"--bogus", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCmd(t, tt.args...)

			assert.Equal(t, 1, code)
			assert.Equal(t, usageLine+"\n", stdout, "nothing but the usage line: no pid, no workers")
		})
	}
}

func TestRun_ThreeWorkers(t *testing.T) {
	code, stdout, stderr := runCmd(t, "3")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	out := lines(stdout)
	assert.Equal(t, strconv.Itoa(os.Getpid()), out[0])

	suffix := func(s string) func(string) bool {
		return func(l string) bool { return strings.HasSuffix(l, s) }
	}
	assert.Equal(t, 3, countLines(out, suffix(" waiting on lock")))
	assert.Equal(t, 3, countLines(out, suffix(" waiting on term lock")))
	assert.Equal(t, 3, countLines(out, suffix(" released term lock")))
	assert.Equal(t, 3, countLines(out, func(l string) bool { return l == "In breakpoint_thr_func" }))
	assert.Equal(t, 3, countLines(out, func(l string) bool { return strings.HasPrefix(l, "Joined thread ") }))

	startIdx, checkpointIdx := -1, -1
	for i, l := range out {
		if l == "In start_notification" && startIdx < 0 {
			startIdx = i
		}
		if l == "In breakpoint_thr_func" && checkpointIdx < 0 {
			checkpointIdx = i
		}
	}
	assert.Less(t, startIdx, checkpointIdx, "no checkpoint before the start notification")
	assert.Contains(t, stderr, "run complete")
}

func TestRun_ClampsNonPositive(t *testing.T) {
	for _, args := range [][]string{{"0"}, {"-4"}, {"--", "-4"}, {"--log-level", "warn", "-1"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, stdout, _ := runCmd(t, args...)
			require.Equal(t, 0, code)

			out := lines(stdout)
			assert.Equal(t, 1, countLines(out, func(l string) bool { return l == "In breakpoint_thr_func" }))
			assert.Equal(t, "Joined thread 0", out[len(out)-1])
		})
	}
}

func TestNormalizeArgs(t *testing.T) {
	assert.Equal(t, []string{"3"}, normalizeArgs([]string{"3"}))
	assert.Equal(t, []string{"--", "-3"}, normalizeArgs([]string{"-3"}))
	assert.Equal(t, []string{"--log-level", "debug", "--", "-3"}, normalizeArgs([]string{"--log-level", "debug", "-3"}))
	assert.Equal(t, []string{"--", "-3"}, normalizeArgs([]string{"--", "-3"}))
	assert.Equal(t, []string{"-h"}, normalizeArgs([]string{"-h"}))
}

func TestRun_BadLogLevel(t *testing.T) {
	code, stdout, stderr := runCmd(t, "--log-level", "loud", "1")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestRun_JSONLogs(t *testing.T) {
	code, _, stderr := runCmd(t, "--log-format", "json", "1")
	require.Equal(t, 0, code)

	for _, l := range lines(stderr) {
		var entry map[string]any
		assert.NoError(t, json.Unmarshal([]byte(l), &entry), "line %q", l)
	}
}

func TestRun_PublishesToNATS(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv, err := embeddednats.Start(ctx, nil)
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync("fixturetest." + strconv.Itoa(os.Getpid()) + ".checkpoint")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	code, _, stderr := runCmd(t, "--nats-url", srv.ClientURL(), "--nats-subject", "fixturetest", "2")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	for i := 0; i < 2; i++ {
		msg, err := sub.NextMsg(2 * time.Second)
		require.NoError(t, err)
		assert.Contains(t, string(msg.Data), "In breakpoint_thr_func")
	}
}

func TestRun_NATSUnreachable(t *testing.T) {
	code, stdout, stderr := runCmd(t, "--nats-url", "nats://127.0.0.1:1", "1")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "nats connect")
}

func TestSymbols(t *testing.T) {
	code, stdout, stderr := runCmd(t, "symbols")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	var md fixture.Metadata
	require.NoError(t, json.Unmarshal([]byte(stdout), &md))
	assert.Len(t, md.Checkpoints, 3)
	assert.NotEmpty(t, md.ExecutableSHA256)
	assert.NotEmpty(t, md.Executable)
}
