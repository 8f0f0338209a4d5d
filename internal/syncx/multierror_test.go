package syncx

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestMultiError(t *testing.T) {
	me := NewMultiError()

	if me.Count() != 0 {
		t.Error("New MultiError should not have errors")
	}

	if me.ToError() != nil {
		t.Error("ToError should return nil for empty MultiError")
	}

	me.Add(nil)
	if me.Count() != 0 {
		t.Error("Adding nil should be a no-op")
	}
}

func TestMultiError_AddErrors(t *testing.T) {
	me := NewMultiError()
	first := errors.New("first")
	second := errors.New("second")

	me.Add(first)
	if me.Error() != "first" {
		t.Errorf("Single error message should be passed through, got %q", me.Error())
	}

	me.Add(second)
	if me.Count() != 2 {
		t.Fatalf("Expected 2 errors, got %d", me.Count())
	}

	msg := me.Error()
	if !strings.Contains(msg, "[1] first") || !strings.Contains(msg, "[2] second") {
		t.Errorf("Unexpected message: %q", msg)
	}

	err := me.ToError()
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Error("errors.Is should find every collected error")
	}
}

func TestMultiError_ConcurrentAccess(t *testing.T) {
	me := NewMultiError()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			me.Add(errors.New("worker failed"))
		}()
	}
	wg.Wait()

	if me.Count() != 64 {
		t.Errorf("Expected 64 errors, got %d", me.Count())
	}
	if len(me.Errors()) != 64 {
		t.Errorf("Errors() copy should have 64 entries")
	}
}
