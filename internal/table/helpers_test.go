package table

import "testing"

type memStore map[string]bool

func (m memStore) Bool(key string) bool          { return m[key] }
func (m memStore) SetBool(key string, value bool) { m[key] = value }

func displayCell(tbl *Table, path IndexPath) *Cell {
	cell := tbl.CellForRow(path)
	tbl.WillDisplayCell(cell, path)
	return cell
}

func TestHandleCheckmark(t *testing.T) {
	host := newRecordingHost()
	tbl, _, rows := buildTable(host, "Wi-Fi")
	path := IndexPath{Section: 0, Row: 0}

	value := false
	rows[0].HandleCheckmark(Ptr("On"), Ptr("Off"),
		func() bool { return value },
		func(v bool) { value = v },
	)

	cell := displayCell(tbl, path)
	if cell.DetailText != "Off" || cell.AccessoryType != AccessoryNone {
		t.Errorf("Expected unchecked display, got %q / %v", cell.DetailText, cell.AccessoryType)
	}

	tbl.DidSelectRow(path)

	if !value {
		t.Fatal("Tap should toggle the value")
	}
	if len(host.reloadedRows) != 1 || host.reloadedRows[0][0] != path {
		t.Errorf("Expected redraw of %v, got %v", path, host.reloadedRows)
	}
	if host.animations[0] != RowAnimationFade {
		t.Errorf("Expected fade animation, got %v", host.animations[0])
	}
	if len(host.deselected) != 1 {
		t.Errorf("Expected auto-deselect after tap, got %v", host.deselected)
	}

	cell = displayCell(tbl, path)
	if cell.DetailText != "On" || cell.AccessoryType != AccessoryCheckmark {
		t.Errorf("Expected checked display, got %q / %v", cell.DetailText, cell.AccessoryType)
	}
}

func TestHandleCheckmark_WithoutSubtitles(t *testing.T) {
	tbl, _, rows := buildTable(nil, "Sound")
	rows[0].Subtitle = Ptr("Own subtitle")

	rows[0].HandleCheckmark(nil, nil, func() bool { return true }, func(bool) {})

	cell := displayCell(tbl, IndexPath{})
	if cell.DetailText != "Own subtitle" {
		t.Errorf("Row subtitle should be kept, got %q", cell.DetailText)
	}
	if cell.AccessoryType != AccessoryCheckmark {
		t.Errorf("Expected checkmark, got %v", cell.AccessoryType)
	}
}

func TestHandleCheckmark_PairedSubtitles(t *testing.T) {
	row := NewRow("x")
	get, set := func() bool { return false }, func(bool) {}

	expectPrecondition(t, func() { row.HandleCheckmark(Ptr("on"), nil, get, set) })
	expectPrecondition(t, func() { row.HandleCheckmark(nil, Ptr("off"), get, set) })
}

func TestHandlePreference(t *testing.T) {
	tests := []struct {
		name          string
		stored        bool
		showsForFalse bool
		wantChecked   bool
	}{
		{"true shows checkmark", true, false, true},
		{"false hides checkmark", false, false, false},
		{"inverted false shows checkmark", false, true, true},
		{"inverted true hides checkmark", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memStore{"sync": tt.stored}
			tbl, _, rows := buildTable(nil, "Sync")
			rows[0].HandlePreference(store, "sync", nil, nil, tt.showsForFalse)

			cell := displayCell(tbl, IndexPath{})
			if got := cell.AccessoryType == AccessoryCheckmark; got != tt.wantChecked {
				t.Errorf("checked = %v, want %v", got, tt.wantChecked)
			}

			tbl.DidSelectRow(IndexPath{})
			if store["sync"] == tt.stored {
				t.Error("Tap should flip the stored value")
			}

			cell = displayCell(tbl, IndexPath{})
			if got := cell.AccessoryType == AccessoryCheckmark; got == tt.wantChecked {
				t.Error("Checkmark should flip after tap")
			}
		})
	}
}

func TestSimpleDeleteHandler(t *testing.T) {
	host := newRecordingHost()
	tbl, section, _ := buildTable(host, "Keep", "Drop")
	section.Info.EditingStyle = Ptr(EditingStyleDelete)
	section.Info.DeleteHandler = SimpleDeleteHandler

	path := IndexPath{Section: 0, Row: 1}
	if !tbl.CanEditRow(path) {
		t.Fatal("Row should be editable")
	}

	tbl.CommitEditingStyle(EditingStyleDelete, path)

	if got := tbl.NumberOfRows(0); got != 1 {
		t.Errorf("Expected 1 row after delete, got %d", got)
	}
	if len(host.deleted) != 1 || host.deleted[0][0] != path {
		t.Errorf("Expected removal of %v, got %v", path, host.deleted)
	}

	// Detached rows are ignored.
	SimpleDeleteHandler(NewRow("detached"))
}
