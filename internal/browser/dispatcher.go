package browser

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/tablekit/internal/dispatch"
)

// Sender delivers messages to a running Bubble Tea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// drainMsg asks the model to run queued callbacks.
type drainMsg struct{}

// ProgramDispatcher makes the Bubble Tea event loop the control goroutine
// for a table. Until a program is attached every caller counts as the
// control goroutine and callbacks run inline.
type ProgramDispatcher struct {
	mu      sync.Mutex
	sender  Sender
	queue   []func()
	pending bool

	owner atomic.Int64
}

var _ dispatch.Dispatcher = (*ProgramDispatcher)(nil)

// NewDispatcher creates a dispatcher with no program attached.
func NewDispatcher() *ProgramDispatcher {
	return &ProgramDispatcher{}
}

// Attach routes later callbacks through s.
func (d *ProgramDispatcher) Attach(s Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sender = s
}

// IsControlThread implements dispatch.Dispatcher.
func (d *ProgramDispatcher) IsControlThread() bool {
	d.mu.Lock()
	attached := d.sender != nil
	d.mu.Unlock()
	if !attached {
		return true
	}

	owner := d.owner.Load()
	return owner != 0 && owner == dispatch.GoroutineID()
}

// Dispatch implements dispatch.Dispatcher. Callbacks run in the order they
// were dispatched, the next time the model handles a message.
func (d *ProgramDispatcher) Dispatch(fn func()) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	if d.sender == nil {
		d.mu.Unlock()
		fn()
		return
	}
	d.queue = append(d.queue, fn)
	wake := !d.pending
	d.pending = true
	s := d.sender
	d.mu.Unlock()

	if wake {
		// Send blocks until the event loop reads it, and the caller may be
		// the event loop itself.
		go s.Send(drainMsg{})
	}
}

// enter records the calling goroutine as the control goroutine. The model
// calls it at the top of every Update.
func (d *ProgramDispatcher) enter() {
	d.owner.Store(dispatch.GoroutineID())
}

// drain runs every queued callback and returns how many ran.
func (d *ProgramDispatcher) drain() int {
	d.mu.Lock()
	queue := d.queue
	d.queue = nil
	d.pending = false
	d.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}
