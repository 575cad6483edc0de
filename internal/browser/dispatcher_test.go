package browser

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/tablekit/internal/table"
	"github.com/muurk/tablekit/internal/ui"
)

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func receive(t *testing.T, c chanSender) tea.Msg {
	t.Helper()
	select {
	case msg := <-c:
		return msg
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for a message")
		return nil
	}
}

func TestDispatcher_Unattached(t *testing.T) {
	d := NewDispatcher()

	if !d.IsControlThread() {
		t.Error("Unattached dispatcher should treat every caller as the control goroutine")
	}

	ran := false
	d.Dispatch(func() { ran = true })
	if !ran {
		t.Error("Unattached dispatcher should run callbacks inline")
	}

	d.Dispatch(nil)
}

func TestDispatcher_Attached(t *testing.T) {
	d := NewDispatcher()
	sender := make(chanSender, 4)
	d.Attach(sender)

	if d.IsControlThread() {
		t.Error("No goroutine is the control goroutine before the model runs")
	}

	d.enter()
	if !d.IsControlThread() {
		t.Error("The goroutine that entered should be the control goroutine")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var other bool
	go func() {
		defer wg.Done()
		other = d.IsControlThread()
	}()
	wg.Wait()
	if other {
		t.Error("Other goroutines should not be the control goroutine")
	}

	var order []int
	d.Dispatch(func() { order = append(order, 1) })
	d.Dispatch(func() { order = append(order, 2) })

	if _, ok := receive(t, sender).(drainMsg); !ok {
		t.Fatal("Dispatch should wake the model with a drainMsg")
	}
	select {
	case <-sender:
		t.Error("Only one wake-up should be sent per batch")
	case <-time.After(50 * time.Millisecond):
	}

	if n := d.drain(); n != 2 {
		t.Fatalf("drain() ran %d callbacks, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Callbacks ran in order %v, want [1 2]", order)
	}

	d.Dispatch(func() {})
	if _, ok := receive(t, sender).(drainMsg); !ok {
		t.Error("A new batch should send a new wake-up")
	}
}

func TestDispatcher_OffThreadApply(t *testing.T) {
	host := ui.NewTerminalHost()
	d := NewDispatcher()
	tbl := table.New(table.WithHost(host), table.WithDispatcher(d))
	tbl.StartDataUpdate()
	tbl.AddTitledSection("First")
	tbl.AddRow(table.NewRow("One"))
	tbl.ApplyDataUpdate()

	m := New(Options{Title: "Test", Table: tbl, Host: host, Dispatcher: d})

	sender := make(chanSender, 4)
	d.Attach(sender)

	done := make(chan struct{})
	go func() {
		defer close(done)
		tbl.StartDataUpdate()
		tbl.AddTitledSection("Second")
		tbl.AddRows(table.NewRow("Two"), table.NewRow("Three"))
		tbl.ApplyDataUpdate()
	}()
	<-done

	if got := tbl.NumberOfRows(0); got != 1 {
		t.Fatalf("Live rows changed before the model drained: %d", got)
	}

	msg := receive(t, sender)
	updated, _ := m.Update(msg)
	m = updated.(Model)

	if got := tbl.NumberOfRows(0); got != 2 {
		t.Errorf("NumberOfRows(0) = %d after drain, want 2", got)
	}
	if cursor, ok := m.Cursor(); !ok || cursor != (table.IndexPath{Section: 0, Row: 0}) {
		t.Errorf("Cursor() = %v, %v after reload", cursor, ok)
	}
}
