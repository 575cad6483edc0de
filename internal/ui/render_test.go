package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/tablekit/internal/table"
)

const defaultReuseKey = "subtitle_*table.Row_nil_nil_false"

func fruitTable(h *TerminalHost) (*table.Table, []*table.Row) {
	t := table.New(table.WithHost(h))
	t.StartDataUpdate()
	t.AddTitledSection("Fruit")

	apple := table.NewSubtitleRow("Apple", "Red")
	apple.AccessoryType = table.Ptr(table.AccessoryCheckmark)
	banana := table.NewRow("Banana")
	banana.SetHidden(true)
	cherry := table.NewRow("Cherry")
	cherry.AccessoryType = table.Ptr(table.AccessoryDisclosureIndicator)

	t.AddRows(apple, banana, cherry)
	t.ApplyDataUpdate()
	return t, []*table.Row{apple, banana, cherry}
}

func TestRender_Detailed(t *testing.T) {
	h := NewTerminalHost()
	tbl, _ := fruitTable(h)

	out, rows := h.Render(tbl, RenderOptions{Width: 60})

	for _, want := range []string{"FRUIT", "Apple", "Red", "Cherry", "✓", "›"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output should contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Banana") {
		t.Error("Hidden rows should not be drawn")
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rendered rows, got %d", len(rows))
	}
	if rows[1].Path != (table.IndexPath{Section: 0, Row: 2}) {
		t.Errorf("Second rendered row = %v, want 0:2", rows[1].Path)
	}
	if rows[1].Line <= rows[0].Line {
		t.Error("Rendered rows should be in line order")
	}
}

func TestRender_RecyclesCells(t *testing.T) {
	h := NewTerminalHost()
	tbl, _ := fruitTable(h)

	h.Render(tbl, RenderOptions{Width: 60})
	if got := h.PoolSize(defaultReuseKey); got != 3 {
		t.Fatalf("PoolSize() after first render = %d, want 3", got)
	}

	h.Render(tbl, RenderOptions{Width: 60})
	stats := h.Stats()
	if stats.PoolMisses != 3 || stats.PoolHits != 3 {
		t.Errorf("PoolMisses/PoolHits = %d/%d, want 3/3", stats.PoolMisses, stats.PoolHits)
	}
}

func TestRender_ShowHidden(t *testing.T) {
	h := NewTerminalHost()
	tbl, _ := fruitTable(h)

	out, rows := h.Render(tbl, RenderOptions{Width: 60, ShowHidden: true})
	if !strings.Contains(out, "Banana") {
		t.Error("ShowHidden should draw hidden rows")
	}
	if len(rows) != 3 {
		t.Errorf("Expected 3 rendered rows, got %d", len(rows))
	}
}

func TestRender_Compact(t *testing.T) {
	h := NewTerminalHost()
	tbl, _ := fruitTable(h)

	cursor := table.IndexPath{Section: 0, Row: 2}
	out, _ := h.Render(tbl, RenderOptions{Width: 60, Format: FormatCompact, Cursor: &cursor, ShowHidden: true})
	lines := strings.Split(out, "\n")

	want := []string{
		"# Fruit",
		"0:0    Apple - Red [checkmark]",
		"0:1    Banana (hidden)",
		CursorMarker + " 0:2    Cherry [disclosure]",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(want), len(lines), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRender_IndexGutter(t *testing.T) {
	h := NewTerminalHost()
	tbl := table.New(table.WithHost(h))
	tbl.SetSectionForIndex(table.Ptr(0))
	tbl.StartDataUpdate()
	tbl.AddTitledSection("")
	tbl.AddRows(table.NewRow("apple"), table.NewRow("kiwi"), table.NewRow("zucchini"))
	tbl.ApplyDataUpdate()

	out, _ := h.Render(tbl, RenderOptions{Width: 60, Format: FormatCompact, ShowIndex: true})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d:\n%s", len(lines), out)
	}
	for i, title := range []string{"A", "K", "Z"} {
		if !strings.HasSuffix(strings.TrimRight(lines[i], " "), title) {
			t.Errorf("Line %d should end with index title %q: %q", i, title, lines[i])
		}
	}

	plain, _ := h.Render(tbl, RenderOptions{Width: 60, Format: FormatCompact})
	if strings.Contains(plain, " K") {
		t.Error("Index gutter should only be drawn with ShowIndex")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatDetailed, false},
		{"detailed", FormatDetailed, false},
		{"compact", FormatCompact, false},
		{"yaml", FormatDetailed, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	h := NewTerminalHost()
	tbl, rows := fruitTable(h)
	rows[2].EditingStyle = table.Ptr(table.EditingStyleDelete)

	s := Summarize(tbl.Snapshot())
	if s.Sections != 1 || s.Rows != 3 || s.HiddenRows != 1 || s.Checked != 1 || s.Editable != 1 {
		t.Errorf("Unexpected summary: %+v", s)
	}
	if got := s.VisibleRatio(); got < 0.66 || got > 0.67 {
		t.Errorf("VisibleRatio() = %v, want 2/3", got)
	}
	if (Summary{}).VisibleRatio() != 0 {
		t.Error("Empty summary should have a zero ratio")
	}

	out := s.Render(60)
	if !strings.Contains(out, "3 (1 hidden)") {
		t.Errorf("Summary should show row counts:\n%s", out)
	}
}

func TestHeaderAndResult(t *testing.T) {
	header := NewHeader("Settings", "built-in sample", Param{"Sections", "4"}, Param{"Index", "Fruit"}).SetWidth(70).Render()
	for _, want := range []string{"SETTINGS", "built-in sample", "Sections:", "Fruit"} {
		if !strings.Contains(header, want) {
			t.Errorf("Header should contain %q:\n%s", want, header)
		}
	}

	ok := NewSuccessResult("Preferences reset").AddDetail("Removed", "3").SetWidth(70).Render()
	if !strings.Contains(ok, "SUCCESS") || !strings.Contains(ok, "Removed:") {
		t.Errorf("Unexpected success box:\n%s", ok)
	}

	fail := NewFailureResult("Load failed", errors.New("boom"), "Check the path").SetWidth(70).Render()
	for _, want := range []string{"FAILED", "Error: boom", "Troubleshooting:", "Check the path"} {
		if !strings.Contains(fail, want) {
			t.Errorf("Failure box should contain %q:\n%s", want, fail)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"typed phrase", "RESET\n", true},
		{"phrase without newline", "RESET", true},
		{"wrong phrase", "reset\n", false},
		{"no input", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmPreferenceReset(strings.NewReader(tt.input), &out, 2)
			if got != tt.want {
				t.Errorf("ConfirmPreferenceReset() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "2 stored preference(s)") {
				t.Error("Warning box should mention the preference count")
			}
			if tt.input == "reset\n" && !strings.Contains(out.String(), "Operation cancelled.") {
				t.Error("A wrong phrase should print a cancellation")
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(70)

	h := NewTerminalHost()
	tbl, _ := fruitTable(h)
	p.PrintTable(h, tbl, RenderOptions{Format: FormatCompact})
	if !strings.Contains(buf.String(), "0:2    Cherry") {
		t.Errorf("PrintTable output:\n%s", buf.String())
	}

	buf.Reset()
	if err := p.PrintJSON(tbl.Snapshot()); err != nil {
		t.Fatalf("PrintJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"title": "Apple"`) {
		t.Errorf("PrintJSON output:\n%s", buf.String())
	}
}
