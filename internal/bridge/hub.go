package bridge

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/dispatch"
	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/table"
)

// Hub is a table.Host whose rendering happens elsewhere: every host request
// is broadcast as an Event to the connected viewers, and viewer commands are
// run against the table on its control goroutine.
//
// Host methods are called by the table on the control goroutine. Everything
// else may be called from any goroutine.
type Hub struct {
	dispatcher dispatch.Dispatcher

	mu        sync.RWMutex
	table     *table.Table
	clients   map[*client]struct{}
	templates map[string]table.Template

	seq atomic.Uint64
}

var _ table.Host = (*Hub)(nil)

// NewHub creates a hub that reaches the control goroutine through d.
func NewHub(d dispatch.Dispatcher) *Hub {
	if d == nil {
		d = dispatch.Inline{}
	}
	return &Hub{
		dispatcher: d,
		clients:    make(map[*client]struct{}),
		templates:  make(map[string]table.Template),
	}
}

// Bind sets the table whose snapshots are sent and whose rows commands act on.
func (h *Hub) Bind(t *table.Table) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table = t
}

func (h *Hub) bound() *table.Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Templates returns the templates registered so far, keyed by reuse key.
func (h *Hub) Templates() map[string]table.Template {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]table.Template, len(h.templates))
	for k, v := range h.templates {
		out[k] = v
	}
	return out
}

// snapshot must run on the control goroutine.
func (h *Hub) snapshot() *table.Snapshot {
	t := h.bound()
	if t == nil {
		return nil
	}
	snap := t.Snapshot()
	return &snap
}

// Snapshot asks the control goroutine for a snapshot and waits for it.
func (h *Hub) Snapshot(ctx context.Context) (table.Snapshot, error) {
	if h.bound() == nil {
		return table.Snapshot{}, &CommandError{Type: ErrTypeUnavailable, Command: CommandSnapshot, Message: "no table bound"}
	}

	result := make(chan table.Snapshot, 1)
	h.dispatcher.Dispatch(func() {
		result <- *h.snapshot()
	})

	select {
	case snap := <-result:
		return snap, nil
	case <-ctx.Done():
		return table.Snapshot{}, &CommandError{Type: ErrTypeUnavailable, Command: CommandSnapshot, Message: "control goroutine did not answer", Err: ctx.Err()}
	}
}

// ReloadData implements table.Host.
func (h *Hub) ReloadData() {
	h.broadcast(Event{Type: EventReload, Snapshot: h.snapshot()})
}

// DeleteRows implements table.Host.
func (h *Hub) DeleteRows(paths []table.IndexPath, animation table.RowAnimation) {
	h.broadcast(Event{Type: EventDeleteRows, Paths: paths, Animation: animation.String()})
}

// ReloadRows implements table.Host. The new row contents travel with the
// event so viewers need not keep a table of their own.
func (h *Hub) ReloadRows(paths []table.IndexPath, animation table.RowAnimation) {
	h.broadcast(Event{Type: EventReloadRows, Paths: paths, Animation: animation.String(), Snapshot: h.snapshot()})
}

// SelectRow implements table.Host.
func (h *Hub) SelectRow(path table.IndexPath, animated bool) {
	h.broadcast(Event{Type: EventSelect, Path: &path, Animated: animated})
}

// DeselectRow implements table.Host.
func (h *Hub) DeselectRow(path table.IndexPath, animated bool) {
	h.broadcast(Event{Type: EventDeselect, Path: &path, Animated: animated})
}

// ReloadSectionIndexTitles implements table.Host.
func (h *Hub) ReloadSectionIndexTitles() {
	var titles []string
	if t := h.bound(); t != nil {
		titles = t.SectionIndexTitles()
	}
	h.broadcast(Event{Type: EventReloadIndex, Titles: titles})
}

// DequeueCell implements table.Host. Viewers draw their own cells, so there
// is never one to reuse.
func (h *Hub) DequeueCell(string) *table.Cell {
	return nil
}

// RegisterTemplate implements table.Host.
func (h *Hub) RegisterTemplate(template table.Template, reuseKey string) {
	h.mu.Lock()
	h.templates[reuseKey] = template
	h.mu.Unlock()

	h.broadcast(Event{Type: EventTemplate, Template: string(template), ReuseKey: reuseKey})
}

func (h *Hub) encode(evt Event) ([]byte, bool) {
	evt.Seq = h.seq.Add(1)
	data, err := json.Marshal(evt)
	if err != nil {
		logging.Error("Failed to encode event", zap.String("type", evt.Type), zap.Error(err))
		return nil, false
	}
	return data, true
}

func (h *Hub) broadcast(evt Event) {
	logging.LogHostRequest(evt.Type, zap.Int("viewers", h.ClientCount()))

	data, ok := h.encode(evt)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.enqueue(data) {
			logging.Warn("Viewer is not keeping up, disconnecting", zap.String("remote_addr", c.remoteAddr))
			delete(h.clients, c)
			c.close()
		}
	}
}

// sendTo delivers evt to a single viewer if it is still connected.
func (h *Hub) sendTo(c *client, evt Event) {
	data, ok := h.encode(evt)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, connected := h.clients[c]; !connected {
		return
	}
	if !c.enqueue(data) {
		delete(h.clients, c)
		c.close()
	}
}

// register adds c on the control goroutine, so that its hello snapshot and
// the broadcasts that follow it are in order.
func (h *Hub) register(c *client) {
	h.dispatcher.Dispatch(func() {
		h.mu.Lock()
		if c.gone {
			h.mu.Unlock()
			return
		}
		h.clients[c] = struct{}{}
		h.mu.Unlock()

		hello := Event{Type: EventHello, Snapshot: h.snapshot()}
		if hello.Snapshot != nil {
			hello.Title = titleOf(hello.Snapshot)
		}
		h.sendTo(c, hello)
		logging.LogConnection(c.remoteAddr, "viewer_registered")
	})
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	c.gone = true
	delete(h.clients, c)
	c.close()
	h.mu.Unlock()
}

func titleOf(snap *table.Snapshot) string {
	if len(snap.Sections) == 0 {
		return ""
	}
	return snap.Sections[0].Title
}

// handle decodes a viewer message and runs it on the control goroutine.
// Rejected commands are answered with an error event.
func (h *Hub) handle(c *client, data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		h.reject(c, &CommandError{Type: ErrTypeParse, Message: "command is not valid JSON", Err: err})
		return
	}
	if err := validate(cmd); err != nil {
		h.reject(c, err)
		return
	}

	h.dispatcher.Dispatch(func() {
		if err := h.run(c, cmd); err != nil {
			h.reject(c, err)
		}
	})
}

func validate(cmd Command) error {
	switch cmd.Type {
	case CommandTap, CommandAccessory, CommandDelete:
		if cmd.Path == nil {
			return &CommandError{Type: ErrTypeValidation, Command: cmd.Type, Message: "path is required"}
		}
	case CommandIndexTitle:
		if cmd.Title == "" {
			return &CommandError{Type: ErrTypeValidation, Command: cmd.Type, Message: "title is required"}
		}
	case CommandSnapshot:
	default:
		return &CommandError{Type: ErrTypeValidation, Command: cmd.Type, Message: "unknown command"}
	}
	return nil
}

// run executes cmd. Control goroutine only.
func (h *Hub) run(c *client, cmd Command) error {
	t := h.bound()
	if t == nil {
		return &CommandError{Type: ErrTypeUnavailable, Command: cmd.Type, Message: "no table bound"}
	}

	if cmd.Path != nil {
		if _, err := t.InfoFor(*cmd.Path); err != nil {
			return &CommandError{Type: ErrTypeLookup, Command: cmd.Type, Message: "no row at " + cmd.Path.String(), Err: err}
		}
	}

	logging.Debug("Running viewer command", zap.String("type", cmd.Type), zap.String("remote_addr", c.remoteAddr))

	switch cmd.Type {
	case CommandTap:
		t.DidSelectRow(*cmd.Path)
	case CommandAccessory:
		t.AccessoryButtonTapped(*cmd.Path)
	case CommandDelete:
		if !t.CanEditRow(*cmd.Path) {
			return &CommandError{Type: ErrTypeNotEditable, Command: cmd.Type, Message: "row " + cmd.Path.String() + " cannot be deleted"}
		}
		t.CommitEditingStyle(table.EditingStyleDelete, *cmd.Path)
	case CommandIndexTitle:
		t.SectionForSectionIndexTitle(cmd.Title, cmd.Index)
	case CommandSnapshot:
		h.sendTo(c, Event{Type: EventSnapshot, Snapshot: h.snapshot()})
	}
	return nil
}

func (h *Hub) reject(c *client, err error) {
	logging.Warn("Viewer command rejected", zap.String("remote_addr", c.remoteAddr), zap.Error(err))
	h.sendTo(c, Event{Type: EventError, Message: err.Error()})
}

// closeAll disconnects every viewer.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.gone = true
		delete(h.clients, c)
		c.close()
	}
}
