package table

// Snapshot is a resolved, host-neutral copy of the live sequence. It is what
// remote viewers and the JSON output receive.
type Snapshot struct {
	Sections     []SectionSnapshot `json:"sections"`
	IndexTitles  []string          `json:"index_titles,omitempty"`
	IndexSection *int              `json:"index_section,omitempty"`
}

// SectionSnapshot is one section of a Snapshot.
type SectionSnapshot struct {
	Title        string        `json:"title,omitempty"`
	HeaderHeight float64       `json:"header_height"`
	FooterHeight float64       `json:"footer_height"`
	Hidden       bool          `json:"hidden,omitempty"`
	Rows         []RowSnapshot `json:"rows"`
}

// RowSnapshot is one row of a SectionSnapshot, with every attribute resolved.
type RowSnapshot struct {
	IndexPath       IndexPath `json:"index_path"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle,omitempty"`
	TitleColor      Color     `json:"title_color,omitempty"`
	SubtitleColor   Color     `json:"subtitle_color,omitempty"`
	BackgroundColor Color     `json:"background_color,omitempty"`
	TintColor       Color     `json:"tint_color,omitempty"`
	Image           string    `json:"image,omitempty"`
	ImageTint       Color     `json:"image_tint,omitempty"`
	Style           string    `json:"style"`
	Accessory       string    `json:"accessory"`
	Selection       string    `json:"selection"`
	Editing         string    `json:"editing"`
	Height          float64   `json:"height"`
	Hidden          bool      `json:"hidden,omitempty"`
	TintedChevron   bool      `json:"tinted_chevron,omitempty"`
	ReuseKey        string    `json:"reuse_key"`
	Clickable       bool      `json:"clickable,omitempty"`
	AccessoryAction bool      `json:"accessory_action,omitempty"`
}

// Snapshot resolves every row of the live sequence as the host would see it,
// including the before-display styler. Cells are built fresh; the host's
// reuse pool and template registration are not touched.
func (t *Table) Snapshot() Snapshot {
	snap := Snapshot{
		Sections:    make([]SectionSnapshot, 0, len(t.sections)),
		IndexTitles: t.SectionIndexTitles(),
	}
	if t.sectionForIndex != nil {
		snap.IndexSection = Ptr(*t.sectionForIndex)
	}

	for si, section := range t.sections {
		info := section.Info
		ss := SectionSnapshot{
			Title:        deref(info.ResolvedTitle()),
			HeaderHeight: t.HeightForHeader(si),
			FooterHeight: t.HeightForFooter(si),
			Rows:         make([]RowSnapshot, 0, len(section.rows)),
		}
		if h := info.Hidden(); h != nil {
			ss.Hidden = *h
		}

		for ri := range section.rows {
			path := IndexPath{Section: si, Row: ri}
			row, err := t.InfoFor(path)
			if err != nil {
				continue
			}
			ss.Rows = append(ss.Rows, row.snapshot(path))
		}
		snap.Sections = append(snap.Sections, ss)
	}

	return snap
}

func (r *Row) snapshot(path IndexPath) RowSnapshot {
	cell := r.makeNewCell(r.ReuseKey(), r.ResolvedStyle())
	r.configure(cell)
	r.willDisplay(cell)

	return RowSnapshot{
		IndexPath:       path,
		Title:           cell.Text,
		Subtitle:        cell.DetailText,
		TitleColor:      derefColor(cell.TextColor),
		SubtitleColor:   derefColor(cell.DetailTextColor),
		BackgroundColor: derefColor(cell.BackgroundColor),
		TintColor:       derefColor(cell.TintColor),
		Image:           cell.Image,
		ImageTint:       derefColor(cell.ImageTint),
		Style:           cell.Style.String(),
		Accessory:       cell.AccessoryType.String(),
		Selection:       cell.SelectionStyle.String(),
		Editing:         r.ResolvedEditingStyle().String(),
		Height:          r.heightForRow(),
		Hidden:          cell.Hidden,
		TintedChevron:   cell.TintedDisclosure,
		ReuseKey:        cell.ReuseIdentifier,
		Clickable:       r.ResolvedClickHandler() != nil,
		AccessoryAction: r.ResolvedAccessoryClickHandler() != nil,
	}
}

func derefColor(c *Color) Color {
	if c == nil {
		return ""
	}
	return *c
}
