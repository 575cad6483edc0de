// Package dispatch schedules work onto the single control goroutine that owns
// a table's live data and talks to its rendering host.
package dispatch

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
)

// Dispatcher runs callbacks on the control goroutine.
type Dispatcher interface {
	// IsControlThread reports whether the caller is already on the control goroutine.
	IsControlThread() bool
	// Dispatch schedules fn on the control goroutine and returns immediately.
	Dispatch(fn func())
}

// Inline treats every caller as the control goroutine. Suitable for CLI
// rendering and tests where a single goroutine drives everything.
type Inline struct{}

// IsControlThread always returns true.
func (Inline) IsControlThread() bool { return true }

// Dispatch runs fn immediately.
func (Inline) Dispatch(fn func()) {
	if fn != nil {
		fn()
	}
}

// Loop is a queue drained by Run. The goroutine that calls Run becomes the
// control goroutine for as long as Run is executing.
type Loop struct {
	queue chan func()
	owner atomic.Int64
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{queue: make(chan func(), capacity)}
}

// IsControlThread reports whether the caller is the goroutine running Run.
func (l *Loop) IsControlThread() bool {
	owner := l.owner.Load()
	return owner != 0 && owner == GoroutineID()
}

// Dispatch enqueues fn. It blocks only when the queue is full.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	l.queue <- fn
}

// Run drains the queue on the calling goroutine until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.owner.Store(GoroutineID())
	defer l.owner.Store(0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Drain runs every queued callback on the calling goroutine and returns how
// many ran. The caller is treated as the control goroutine while draining.
func (l *Loop) Drain() int {
	prev := l.owner.Swap(GoroutineID())
	defer l.owner.Store(prev)

	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

var goroutinePrefix = []byte("goroutine ")

// GoroutineID returns the id of the calling goroutine, parsed from its stack
// header. Zero means the header could not be parsed.
func GoroutineID() int64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
