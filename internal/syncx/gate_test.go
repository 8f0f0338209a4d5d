package syncx

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// --------------------- Gate Tests ---------------------

func TestGate_StartsClosed(t *testing.T) {
	g := NewGate("start")

	if g.IsOpen() {
		t.Fatal("New gate should be closed")
	}

	if g.Name() != "start" {
		t.Errorf("Expected name 'start', got %q", g.Name())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := g.WaitContext(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded while closed, got %v", err)
	}
}

func TestGate_OpenReleasesAllWaiters(t *testing.T) {
	g := NewGate("start")

	const waiters = 50
	var released int64
	var parked sync.WaitGroup
	var done sync.WaitGroup

	parked.Add(waiters)
	done.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer done.Done()
			parked.Done()
			if err := g.Wait(); err != nil {
				t.Errorf("Wait failed: %v", err)
				return
			}
			atomic.AddInt64(&released, 1)
		}()
	}

	parked.Wait()
	time.Sleep(10 * time.Millisecond)

	if n := atomic.LoadInt64(&released); n != 0 {
		t.Fatalf("Expected no waiter to pass a closed gate, %d did", n)
	}

	if err := g.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	finished := make(chan struct{})
	go func() {
		done.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Waiters were not released after Open")
	}

	if n := atomic.LoadInt64(&released); n != waiters {
		t.Errorf("Expected %d released waiters, got %d", waiters, n)
	}
}

func TestGate_WaitAfterOpenReturnsImmediately(t *testing.T) {
	g := NewGate("term")
	if err := g.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if !g.IsOpen() {
		t.Error("Gate should report open")
	}

	for i := 0; i < 3; i++ {
		if err := g.Wait(); err != nil {
			t.Errorf("Wait on open gate failed: %v", err)
		}
	}

	select {
	case <-g.Done():
	default:
		t.Error("Done channel should be closed once open")
	}
}

func TestGate_SecondOpenIsRejected(t *testing.T) {
	g := NewGate("start")

	if err := g.Open(); err != nil {
		t.Fatalf("First Open failed: %v", err)
	}

	err := g.Open()
	if !errors.Is(err, ErrGateAlreadyOpen) {
		t.Fatalf("Expected ErrGateAlreadyOpen, got %v", err)
	}

	var gateErr *GateError
	if !errors.As(err, &gateErr) {
		t.Fatalf("Expected *GateError, got %T", err)
	}
	if gateErr.Gate != "start" {
		t.Errorf("Expected gate name 'start', got %q", gateErr.Gate)
	}

	if !g.IsOpen() {
		t.Error("Gate must stay open after a rejected second Open")
	}
}

func TestGate_ConcurrentOpenSucceedsOnce(t *testing.T) {
	g := NewGate("race")

	const openers = 16
	var successes int64
	var wg sync.WaitGroup

	wg.Add(openers)
	for i := 0; i < openers; i++ {
		go func() {
			defer wg.Done()
			if g.Open() == nil {
				atomic.AddInt64(&successes, 1)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("Expected exactly one successful Open, got %d", successes)
	}
}

func TestGate_Nil(t *testing.T) {
	var g *Gate

	if err := g.Wait(); !errors.Is(err, ErrNilGate) {
		t.Errorf("Expected ErrNilGate from Wait, got %v", err)
	}
	if err := g.Open(); !errors.Is(err, ErrNilGate) {
		t.Errorf("Expected ErrNilGate from Open, got %v", err)
	}
	if err := g.WaitContext(context.Background()); !errors.Is(err, ErrNilGate) {
		t.Errorf("Expected ErrNilGate from WaitContext, got %v", err)
	}
	if g.IsOpen() {
		t.Error("Nil gate should not report open")
	}
}
