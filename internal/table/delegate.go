package table

// Host-facing answers. Every method tolerates stale coordinates: the host may
// call back mid-update with a position that no longer exists, in which case
// an inert value is returned instead of an error.

// NumberOfSections returns the number of live sections.
func (t *Table) NumberOfSections() int {
	return len(t.sections)
}

// NumberOfRows returns the number of rows in a live section.
func (t *Table) NumberOfRows(section int) int {
	s, err := t.SectionFor(section)
	if err != nil {
		return 0
	}
	return len(s.rows)
}

// CellForRow returns a configured cell for path. Stale paths get an empty
// placeholder cell.
func (t *Table) CellForRow(path IndexPath) *Cell {
	row, err := t.InfoFor(path)
	if err != nil {
		return placeholderCell()
	}
	return row.cell(t.host)
}

// WillDisplayCell applies visibility, disclosure tinting and the
// before-display styler just before the host shows cell.
func (t *Table) WillDisplayCell(cell *Cell, path IndexPath) {
	row, err := t.InfoFor(path)
	if err != nil || cell == nil {
		return
	}
	row.willDisplay(cell)
}

// DidSelectRow runs the tap handler and deselects when auto-deselect applies.
func (t *Table) DidSelectRow(path IndexPath) {
	row, err := t.InfoFor(path)
	if err != nil {
		return
	}
	row.didSelect()
}

// AccessoryButtonTapped runs the accessory handler.
func (t *Table) AccessoryButtonTapped(path IndexPath) {
	row, err := t.InfoFor(path)
	if err != nil {
		return
	}
	row.accessoryTapped()
}

// HeightForRow is 0 for hidden rows.
func (t *Table) HeightForRow(path IndexPath) float64 {
	row, err := t.InfoFor(path)
	if err != nil {
		return 0
	}
	return row.heightForRow()
}

// EstimatedHeightForRow is 0 for hidden rows.
func (t *Table) EstimatedHeightForRow(path IndexPath) float64 {
	row, err := t.InfoFor(path)
	if err != nil {
		return 0
	}
	if row.ResolvedHidden() {
		return 0
	}
	return row.estimatedHeightForRow()
}

func (t *Table) HeightForHeader(section int) float64 {
	info, err := t.SectionInfoFor(section)
	if err != nil {
		return 0
	}
	return info.heightForHeader()
}

func (t *Table) HeightForFooter(section int) float64 {
	info, err := t.SectionInfoFor(section)
	if err != nil {
		return 0
	}
	return info.heightForFooter()
}

// ViewForHeader returns the section's header view, a *Label generated from
// its title, or nil.
func (t *Table) ViewForHeader(section int) any {
	info, err := t.SectionInfoFor(section)
	if err != nil {
		return nil
	}
	return info.viewForHeader()
}

// CanEditRow is true for rows whose editing style is delete.
func (t *Table) CanEditRow(path IndexPath) bool {
	row, err := t.InfoFor(path)
	if err != nil {
		return false
	}
	return row.ResolvedEditingStyle() == EditingStyleDelete
}

func (t *Table) EditingStyleForRow(path IndexPath) EditingStyle {
	row, err := t.InfoFor(path)
	if err != nil {
		return EditingStyleNone
	}
	return row.ResolvedEditingStyle()
}

// CommitEditingStyle runs the delete handler when style is delete.
func (t *Table) CommitEditingStyle(style EditingStyle, path IndexPath) {
	if style != EditingStyleDelete {
		return
	}
	row, err := t.InfoFor(path)
	if err != nil {
		return
	}
	row.didDelete()
}
