package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/muurk/tablekit/internal/dispatch"
	"github.com/muurk/tablekit/internal/table"
)

func newTestClient(h *Hub, buffer int) *client {
	return &client{hub: h, remoteAddr: "test", send: make(chan []byte, buffer)}
}

func decode(t *testing.T, data []byte) Event {
	t.Helper()
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	return evt
}

func next(t *testing.T, c *client) Event {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("Expected an event, client was closed")
		}
		return decode(t, data)
	default:
		t.Fatal("Expected an event, queue was empty")
	}
	return Event{}
}

func fruitTable(h *Hub) *table.Table {
	tbl := table.New(table.WithHost(h))
	h.Bind(tbl)

	banana := table.NewRow("Banana")
	banana.EditingStyle = table.Ptr(table.EditingStyleDelete)
	banana.DeleteHandler = table.SimpleDeleteHandler

	tbl.StartDataUpdate()
	tbl.AddTitledSection("Fruit")
	tbl.AddRows(table.NewRow("Apple"), banana)
	tbl.ApplyDataUpdate()
	return tbl
}

func TestHub_RegisterSendsHello(t *testing.T) {
	h := NewHub(nil)
	fruitTable(h)

	c := newTestClient(h, 8)
	h.register(c)

	if h.ClientCount() != 1 {
		t.Fatalf("Expected 1 client, got %d", h.ClientCount())
	}

	evt := next(t, c)
	if evt.Type != EventHello {
		t.Fatalf("Expected hello, got %q", evt.Type)
	}
	if evt.Snapshot == nil || len(evt.Snapshot.Sections) != 1 {
		t.Fatalf("Expected hello to carry a one-section snapshot, got %+v", evt.Snapshot)
	}
	if evt.Title != "Fruit" {
		t.Errorf("Expected title 'Fruit', got %q", evt.Title)
	}
	if evt.Seq == 0 {
		t.Error("Expected a non-zero sequence number")
	}
}

func TestHub_BroadcastsHostRequests(t *testing.T) {
	h := NewHub(nil)
	tbl := fruitTable(h)
	c := newTestClient(h, 16)
	h.register(c)
	next(t, c) // hello

	t.Run("reload carries snapshot", func(t *testing.T) {
		tbl.StartDataUpdate()
		tbl.AddTitledSection("Veg")
		tbl.AddRow(table.NewRow("Leek"))
		tbl.ApplyDataUpdate()

		evt := next(t, c)
		if evt.Type != EventReload {
			t.Fatalf("Expected reload, got %q", evt.Type)
		}
		if evt.Snapshot == nil || evt.Snapshot.Sections[0].Rows[0].Title != "Leek" {
			t.Errorf("Expected snapshot with Leek, got %+v", evt.Snapshot)
		}
	})

	t.Run("select and deselect", func(t *testing.T) {
		h.SelectRow(table.IndexPath{Section: 0, Row: 0}, true)
		evt := next(t, c)
		if evt.Type != EventSelect || evt.Path == nil || *evt.Path != (table.IndexPath{}) || !evt.Animated {
			t.Errorf("Expected animated select at 0:0, got %+v", evt)
		}

		h.DeselectRow(table.IndexPath{Section: 0, Row: 0}, false)
		evt = next(t, c)
		if evt.Type != EventDeselect {
			t.Errorf("Expected deselect, got %q", evt.Type)
		}
	})

	t.Run("templates are remembered", func(t *testing.T) {
		h.RegisterTemplate("fruit-cell", "key")
		evt := next(t, c)
		if evt.Type != EventTemplate || evt.Template != "fruit-cell" || evt.ReuseKey != "key" {
			t.Errorf("Expected template event, got %+v", evt)
		}
		if h.Templates()["key"] != "fruit-cell" {
			t.Errorf("Expected template to be stored, got %v", h.Templates())
		}
	})

	t.Run("no cell reuse", func(t *testing.T) {
		if h.DequeueCell("anything") != nil {
			t.Error("Expected DequeueCell to return nil")
		}
	})
}

func TestHub_SequenceIncreases(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient(h, 8)
	h.register(c)

	first := next(t, c)
	h.ReloadSectionIndexTitles()
	second := next(t, c)

	if second.Seq <= first.Seq {
		t.Errorf("Expected increasing sequence, got %d then %d", first.Seq, second.Seq)
	}
	if first.Snapshot != nil {
		t.Error("Expected no snapshot without a bound table")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient(h, 1)
	h.register(c) // hello fills the buffer

	h.ReloadData()

	if h.ClientCount() != 0 {
		t.Fatalf("Expected slow client to be dropped, %d remain", h.ClientCount())
	}

	<-c.send
	if _, ok := <-c.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// Unregistering again must not close twice.
	h.unregister(c)
	c.close()
}

func TestHub_DisconnectBeforeRegister(t *testing.T) {
	loop := dispatch.NewLoop(8)
	h := NewHub(loop)
	fruitTable(h)
	loop.Drain()

	c := newTestClient(h, 8)
	h.register(c) // queued on the loop
	h.unregister(c)
	loop.Drain()

	if h.ClientCount() != 0 {
		t.Errorf("Expected a disconnected viewer to stay unregistered, got %d", h.ClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("Expected send channel to be closed without a hello")
	}
}

func TestHub_Commands(t *testing.T) {
	h := NewHub(nil)
	tbl := fruitTable(h)
	taps := 0
	rows := tbl.Sections()[0].Rows()
	rows[0].ClickHandler = func(*table.Row) { taps++ }

	c := newTestClient(h, 16)
	h.register(c)
	next(t, c) // hello

	t.Run("tap runs handler and deselects", func(t *testing.T) {
		h.handle(c, []byte(`{"type":"tap","path":{"section":0,"row":0}}`))
		if taps != 1 {
			t.Errorf("Expected 1 tap, got %d", taps)
		}
		evt := next(t, c)
		if evt.Type != EventDeselect || *evt.Path != (table.IndexPath{Section: 0, Row: 0}) {
			t.Errorf("Expected deselect of 0:0, got %+v", evt)
		}
	})

	t.Run("delete removes row", func(t *testing.T) {
		h.handle(c, []byte(`{"type":"delete","path":{"section":0,"row":1}}`))
		evt := next(t, c)
		if evt.Type != EventDeleteRows {
			t.Fatalf("Expected delete_rows, got %+v", evt)
		}
		if len(evt.Paths) != 1 || evt.Paths[0] != (table.IndexPath{Section: 0, Row: 1}) {
			t.Errorf("Expected path 0:1, got %v", evt.Paths)
		}
		if tbl.NumberOfRows(0) != 1 {
			t.Errorf("Expected 1 row left, got %d", tbl.NumberOfRows(0))
		}
	})

	t.Run("snapshot on request", func(t *testing.T) {
		h.handle(c, []byte(`{"type":"snapshot"}`))
		evt := next(t, c)
		if evt.Type != EventSnapshot || evt.Snapshot == nil {
			t.Errorf("Expected snapshot event, got %+v", evt)
		}
	})

	errorCases := []struct {
		name    string
		message string
	}{
		{"invalid json", `{not json`},
		{"unknown command", `{"type":"launch"}`},
		{"missing path", `{"type":"tap"}`},
		{"missing title", `{"type":"index_title"}`},
		{"no such row", `{"type":"tap","path":{"section":4,"row":0}}`},
		{"not editable", `{"type":"delete","path":{"section":0,"row":0}}`},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			h.handle(c, []byte(tc.message))
			evt := next(t, c)
			if evt.Type != EventError || evt.Message == "" {
				t.Errorf("Expected error event, got %+v", evt)
			}
		})
	}
}

func TestHub_Snapshot(t *testing.T) {
	t.Run("unbound", func(t *testing.T) {
		h := NewHub(nil)
		_, err := h.Snapshot(context.Background())
		if !IsCommandError(err, ErrTypeUnavailable) {
			t.Errorf("Expected unavailable error, got %v", err)
		}
	})

	t.Run("through loop", func(t *testing.T) {
		loop := dispatch.NewLoop(8)
		h := NewHub(loop)
		fruitTable(h)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = loop.Run(ctx) }()

		reqCtx, reqCancel := context.WithTimeout(ctx, 2*time.Second)
		defer reqCancel()
		snap, err := h.Snapshot(reqCtx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(snap.Sections) != 1 || len(snap.Sections[0].Rows) != 2 {
			t.Errorf("Expected 1 section with 2 rows, got %+v", snap)
		}
	})

	t.Run("loop not running", func(t *testing.T) {
		loop := dispatch.NewLoop(8)
		h := NewHub(loop)
		h.Bind(table.New(table.WithHost(h), table.WithDispatcher(loop)))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := h.Snapshot(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline exceeded, got %v", err)
		}
	})
}

func TestCommandError(t *testing.T) {
	cause := errors.New("boom")
	err := &CommandError{Type: ErrTypeLookup, Command: CommandTap, Message: "no row", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to cause")
	}
	if !IsCommandError(err, ErrTypeLookup) {
		t.Error("Expected IsCommandError to match lookup")
	}
	if IsCommandError(err, ErrTypeParse) {
		t.Error("Expected IsCommandError not to match parse")
	}
	if got := err.Error(); got != "Lookup Error (tap): no row (caused by: boom)" {
		t.Errorf("Unexpected message %q", got)
	}
}
