package table

// PreferenceStore is a boolean key-value store a row can be bound to.
type PreferenceStore interface {
	Bool(key string) bool
	SetBool(key string, value bool)
}

// HandleCheckmark turns the row into a toggle. A tap flips the value through
// get and set and redraws the row; before display the row shows a checkmark
// when the value is true and, if given, the matching subtitle.
//
// checked and unchecked must both be set or both be nil.
func (r *Row) HandleCheckmark(checked, unchecked *string, get func() bool, set func(bool)) {
	precondition((checked == nil) == (unchecked == nil),
		"if you provide a checked or unchecked subtitle, you must provide both")

	r.ClickHandler = func(row *Row) {
		set(!get())
		row.RedrawCell(RowAnimationFade)
	}

	r.StyleBeforeDisplayHandler = func(_ *Row, cell *Cell) {
		value := get()

		if value && checked != nil {
			cell.DetailText = *checked
		} else if !value && unchecked != nil {
			cell.DetailText = *unchecked
		}

		if value {
			cell.AccessoryType = AccessoryCheckmark
		} else {
			cell.AccessoryType = AccessoryNone
		}
	}
}

// HandlePreference binds the checkmark to key in store. With showsForFalse
// the checkmark is shown while the stored value is false.
func (r *Row) HandlePreference(store PreferenceStore, key string, checked, unchecked *string, showsForFalse bool) {
	r.HandleCheckmark(checked, unchecked,
		func() bool {
			return store.Bool(key) != showsForFalse
		},
		func(v bool) {
			store.SetBool(key, v != showsForFalse)
		},
	)
}

// SimpleDeleteHandler removes the row from its table. Use it as a
// DeleteHandler.
func SimpleDeleteHandler(row *Row) {
	if row.table == nil {
		return
	}
	row.table.Delete(row)
}
