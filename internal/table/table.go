package table

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/muurk/tablekit/internal/dispatch"
	"github.com/muurk/tablekit/internal/logging"
)

// Table holds the live sequence of sections shown by its host and an
// optional pending sequence under construction.
//
// Changes are made to the pending sequence and swapped in on the control
// goroutine:
//
//	t.StartDataUpdate()
//	t.AddTitledSection("Fruit")
//	t.AddRow(table.NewRow("Apple"))
//	t.ApplyDataUpdate()
//
// Only ApplyDataUpdate may be called off the control goroutine. Nothing in
// Table takes a lock.
type Table struct {
	info *SectionInfo

	host       Host
	dispatcher dispatch.Dispatcher
	locale     language.Tag

	sections []*Section
	pending  []*Section
	updating bool

	sectionForIndex    *int
	sectionIndexTitles []string
}

// Option configures a Table.
type Option func(*Table)

// WithHost attaches the rendering host.
func WithHost(h Host) Option {
	return func(t *Table) { t.SetHost(h) }
}

// WithDispatcher sets how ApplyDataUpdate reaches the control goroutine.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(t *Table) {
		if d != nil {
			t.dispatcher = d
		}
	}
}

// WithLocale sets the collation locale for section index titles.
func WithLocale(tag language.Tag) Option {
	return func(t *Table) { t.locale = tag }
}

// New creates an empty table. Without options it has no host and runs
// everything inline.
func New(opts ...Option) *Table {
	t := &Table{
		host:       nopHost{},
		dispatcher: dispatch.Inline{},
		locale:     language.English,
	}
	t.SetInfo(&SectionInfo{})

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Info returns the root of the attribute chain. Attributes set here are
// defaults for every section and row.
func (t *Table) Info() *SectionInfo { return t.info }

// SetInfo replaces the table-level attributes.
func (t *Table) SetInfo(info *SectionInfo) {
	precondition(info != nil, "table info cannot be nil")
	info.table = t
	info.section = nil
	info.root = true
	t.info = info
}

// SetHost attaches a rendering host. A nil host detaches it.
func (t *Table) SetHost(h Host) {
	if h == nil {
		h = nopHost{}
	}
	t.host = h
}

// Host returns the attached rendering host.
func (t *Table) Host() Host { return t.host }

// Sections returns the live sequence.
func (t *Table) Sections() []*Section {
	out := make([]*Section, len(t.sections))
	copy(out, t.sections)
	return out
}

// IsUpdating reports whether a pending sequence exists.
func (t *Table) IsUpdating() bool { return t.updating }

// StartDataUpdate begins a new pending sequence, discarding any previous
// uncommitted one. Call it before AddSection and AddRow.
func (t *Table) StartDataUpdate() {
	if t.updating && len(t.pending) > 0 {
		logging.Debug("Discarding uncommitted pending sections", zap.Int("sections", len(t.pending)))
	}
	t.pending = make([]*Section, 0)
	t.updating = true
}

// ApplyDataUpdate replaces the live sequence with the pending one and asks
// the host to reload. Off the control goroutine the swap is dispatched and
// ApplyDataUpdate returns before it is visible.
func (t *Table) ApplyDataUpdate() {
	precondition(t.updating, "you can't apply an update without starting one")

	staged := t.pending
	t.pending = nil
	t.updating = false

	apply := func() {
		t.sections = staged
		t.reloadData()
		if t.sectionForIndex != nil {
			t.prepareSectionIndex()
		}
	}

	if t.dispatcher.IsControlThread() {
		apply()
		return
	}

	logging.Debug("Dispatching data update to control goroutine", zap.Int("sections", len(staged)))
	t.dispatcher.Dispatch(apply)
}

// AddSection appends s to the pending sequence and links it to the table.
func (t *Table) AddSection(s *Section) *Section {
	precondition(t.updating, "call StartDataUpdate before using AddSection")
	precondition(s != nil, "section cannot be nil")

	s.attach(t)
	t.pending = append(t.pending, s)
	return s
}

// AddTitledSection appends a section whose header is generated from title.
// An empty title adds a section without a header.
func (t *Table) AddTitledSection(title string) *Section {
	s := NewSection()
	if title != "" {
		s.Info.Title = Ptr(title)
	}
	return t.AddSection(s)
}

// AddHeaderSection appends a section with a host view as its header.
func (t *Table) AddHeaderSection(view any, height float64) *Section {
	s := NewSection()
	s.Info.Header = view
	s.Info.HeaderHeight = Ptr(height)
	return t.AddSection(s)
}

// AddRow appends row to the most recently added pending section.
func (t *Table) AddRow(row *Row) *Row {
	precondition(t.updating, "call StartDataUpdate before using AddRow")
	precondition(len(t.pending) > 0, "add a section before adding a row")
	precondition(row != nil, "row cannot be nil")

	t.pending[len(t.pending)-1].addRow(row)
	return row
}

// AddRows appends rows in order to the most recently added pending section.
func (t *Table) AddRows(rows ...*Row) {
	for _, r := range rows {
		t.AddRow(r)
	}
}

// SectionFor returns the live section at index.
func (t *Table) SectionFor(index int) (*Section, error) {
	if index < 0 || index >= len(t.sections) {
		return nil, newSectionNotFound(index)
	}
	return t.sections[index], nil
}

// InfoFor returns the row at path and records path as its last position.
func (t *Table) InfoFor(path IndexPath) (*Row, error) {
	section, err := t.SectionFor(path.Section)
	if err != nil {
		return nil, err
	}

	if path.Row < 0 || path.Row >= len(section.rows) {
		return nil, newRowNotFound(path)
	}

	row := section.rows[path.Row]
	p := path
	row.lastIndexPath = &p
	return row, nil
}

// SectionInfoFor returns the attributes of the live section at index.
func (t *Table) SectionInfoFor(index int) (*SectionInfo, error) {
	section, err := t.SectionFor(index)
	if err != nil {
		return nil, err
	}
	return section.Info, nil
}

// IndexPathOf finds row in the live sequence by identity.
func (t *Table) IndexPathOf(row *Row) (IndexPath, bool) {
	for si, s := range t.sections {
		for ri, r := range s.rows {
			if r == row {
				return IndexPath{Section: si, Row: ri}, true
			}
		}
	}
	return IndexPath{}, false
}

// Delete removes rows from their sections immediately and asks the host to
// remove just their last known positions. Control goroutine only.
func (t *Table) Delete(rows ...*Row) {
	paths := make([]IndexPath, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		if row.section != nil {
			row.section.removeRow(row)
		}
		if row.lastIndexPath != nil {
			paths = append(paths, *row.lastIndexPath)
		}
	}

	logging.LogHostRequest("delete_rows", zap.Int("count", len(paths)))
	t.host.DeleteRows(paths, RowAnimationAutomatic)
}

// Filter hides every row for which show returns false and reloads.
func (t *Table) Filter(show RowFilter) {
	for _, section := range t.sections {
		for _, row := range section.rows {
			row.SetHidden(!show(row))
		}
	}
	t.reloadData()
}

// ShowSection sets the visibility of a live section. A nil visibility
// toggles it. When apply is false the host is not asked to reload.
func (t *Table) ShowSection(index int, visibility *bool, apply bool) {
	info, err := t.SectionInfoFor(index)
	if err != nil {
		logging.Debug("ShowSection on missing section", zap.Int("section", index))
		return
	}

	visible := info.Hidden() == nil
	if visibility != nil {
		visible = *visibility
	} else {
		visible = !visible
	}

	info.SetHidden(!visible)

	if apply {
		t.reloadData()
	}
}

// SectionHidden reports whether the section at index carries a hidden override.
func (t *Table) SectionHidden(index int) (bool, error) {
	info, err := t.SectionInfoFor(index)
	if err != nil {
		return false, err
	}
	h := info.Hidden()
	return h != nil && *h, nil
}

func (t *Table) reloadData() {
	logging.LogHostRequest("reload_data", zap.Int("sections", len(t.sections)))
	t.host.ReloadData()
}

func (t *Table) hostReloadRows(paths []IndexPath, animation RowAnimation) {
	logging.LogHostRequest("reload_rows", zap.Int("count", len(paths)), zap.Stringer("animation", animation))
	t.host.ReloadRows(paths, animation)
}

func (t *Table) hostSelectRow(path IndexPath, animated bool) {
	logging.LogHostRequest("select_row", zap.Stringer("index_path", path))
	t.host.SelectRow(path, animated)
}

func (t *Table) hostDeselectRow(path IndexPath, animated bool) {
	logging.LogHostRequest("deselect_row", zap.Stringer("index_path", path))
	t.host.DeselectRow(path, animated)
}
