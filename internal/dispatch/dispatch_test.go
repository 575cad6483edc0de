package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestInline(t *testing.T) {
	var d Dispatcher = Inline{}

	if !d.IsControlThread() {
		t.Error("Inline should always report the control thread")
	}

	ran := false
	d.Dispatch(func() { ran = true })
	if !ran {
		t.Error("Inline.Dispatch should run the callback synchronously")
	}

	// nil callbacks are ignored
	d.Dispatch(nil)
}

func TestGoroutineID(t *testing.T) {
	main := GoroutineID()
	if main == 0 {
		t.Fatal("GoroutineID() returned 0")
	}

	var other int64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		other = GoroutineID()
	}()
	wg.Wait()

	if other == 0 || other == main {
		t.Errorf("expected a distinct goroutine id, got main=%d other=%d", main, other)
	}
}

func TestLoop_RunAndControlThread(t *testing.T) {
	loop := NewLoop(4)

	if loop.IsControlThread() {
		t.Error("no goroutine owns the loop before Run")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	result := make(chan bool, 1)
	loop.Dispatch(func() { result <- loop.IsControlThread() })

	select {
	case onControl := <-result:
		if !onControl {
			t.Error("callback should run on the control goroutine")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}

	if loop.IsControlThread() {
		t.Error("test goroutine must not be the control goroutine")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestLoop_Drain(t *testing.T) {
	loop := NewLoop(0)

	var order []int
	loop.Dispatch(func() { order = append(order, 1) })
	loop.Dispatch(func() { order = append(order, 2) })
	loop.Dispatch(nil)

	if n := loop.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("callbacks ran out of order: %v", order)
	}
	if loop.IsControlThread() {
		t.Error("ownership should be released after Drain")
	}
}
