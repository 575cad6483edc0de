package table

// SectionInfo holds the attributes of a section, or of the table itself when
// it is the root of the chain. Row-level attributes set here act as defaults
// for every row below.
type SectionInfo struct {
	Attributes

	// HeaderHeight defaults to DefaultHeaderHeight when the section has a
	// header or title, and to 0 otherwise.
	HeaderHeight *float64
	// FooterHeight defaults to 0.
	FooterHeight *float64
	// Header is an opaque host view shown above the section.
	Header any

	table   *Table
	section *Section
	root    bool

	memo sectionMemo
}

type sectionMemo struct {
	headerHeight lazy[*float64]
	footerHeight lazy[*float64]
}

// Attrs implements Responder.
func (si *SectionInfo) Attrs() *Attributes { return &si.Attributes }

// NextResponder returns the table info for a section, and nil for the table.
func (si *SectionInfo) NextResponder() Responder {
	if si.root || si.table == nil || si.table.info == nil {
		return nil
	}
	return si.table.info
}

// Section returns the section this info describes; nil for the table info.
func (si *SectionInfo) Section() *Section { return si.section }

func (si *SectionInfo) ResolvedTitle() *string {
	return resolvePtr(si, func(a *Attributes) *string { return a.Title })
}

func (si *SectionInfo) resolvedHeaderHeight() *float64 {
	return si.memo.headerHeight.get(func() *float64 {
		return resolveSectionPtr(si, func(s *SectionInfo) *float64 { return s.HeaderHeight })
	})
}

func (si *SectionInfo) resolvedFooterHeight() *float64 {
	return si.memo.footerHeight.get(func() *float64 {
		return resolveSectionPtr(si, func(s *SectionInfo) *float64 { return s.FooterHeight })
	})
}

func resolveSectionPtr[T any](start Responder, pick func(*SectionInfo) *T) *T {
	v, _ := Resolve(start, func(r Responder) (*T, bool) {
		si, ok := r.(*SectionInfo)
		if !ok {
			return nil, false
		}
		p := pick(si)
		return p, p != nil
	})
	return v
}

// viewForHeader returns the explicit header, or a centred label built from
// the resolved title.
func (si *SectionInfo) viewForHeader() any {
	if si.Header != nil {
		return si.Header
	}

	if title := si.ResolvedTitle(); title != nil {
		return &Label{
			Text:     *title,
			Centered: true,
		}
	}

	return nil
}

func (si *SectionInfo) heightForHeader() float64 {
	// No header and no title to generate one from
	if si.Header == nil && si.ResolvedTitle() == nil {
		return 0
	}

	if h := si.resolvedHeaderHeight(); h != nil {
		return *h
	}
	return DefaultHeaderHeight
}

func (si *SectionInfo) heightForFooter() float64 {
	if h := si.resolvedFooterHeight(); h != nil {
		return *h
	}
	return 0
}

// Section is an ordered group of rows plus the section's own attributes.
type Section struct {
	Info *SectionInfo

	rows  []*Row
	table *Table
}

// NewSection creates an empty section. It joins a table's chain when it is
// passed to Table.AddSection.
func NewSection() *Section {
	s := &Section{}
	s.Info = &SectionInfo{section: s}
	return s
}

// Rows returns the rows of the section in display order.
func (s *Section) Rows() []*Row {
	out := make([]*Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// RowCount returns the number of rows in the section.
func (s *Section) RowCount() int {
	return len(s.rows)
}

func (s *Section) attach(t *Table) {
	s.table = t
	if s.Info == nil {
		s.Info = &SectionInfo{}
	}
	s.Info.section = s
	s.Info.table = t
	for _, r := range s.rows {
		r.table = t
	}
}

func (s *Section) addRow(r *Row) {
	r.section = s
	r.table = s.table
	s.rows = append(s.rows, r)
}

// removeRow drops r by identity. It reports whether the row was found.
func (s *Section) removeRow(r *Row) bool {
	for i, candidate := range s.rows {
		if candidate == r {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true
		}
	}
	return false
}
