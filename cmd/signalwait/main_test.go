package main

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer read by the test while run writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var stdout, stderr syncBuffer

	done := make(chan int, 1)
	go func() { done <- run(ctx, []string{"--pause", "10ms"}, &stdout, &stderr) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "waiting for signals")
	}, 5*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", stdout.String(), "only the pid marker without signals")
	assert.Contains(t, stderr.String(), "handled=0")
}

func TestRun_RejectsArguments(t *testing.T) {
	var stdout, stderr syncBuffer
	code := run(context.Background(), []string{"extra"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "signalwait:")
}

func TestRun_BadLogFormat(t *testing.T) {
	var stdout, stderr syncBuffer
	code := run(context.Background(), []string{"--log-format", "xml"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown log format")
}
