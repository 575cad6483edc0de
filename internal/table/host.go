package table

// Host is the rendering widget a Table drives. The table calls it only from
// the control goroutine.
type Host interface {
	// ReloadData redisplays every section and row.
	ReloadData()
	// DeleteRows removes the given positions from the display.
	DeleteRows(paths []IndexPath, animation RowAnimation)
	// ReloadRows redisplays the given positions only.
	ReloadRows(paths []IndexPath, animation RowAnimation)
	SelectRow(path IndexPath, animated bool)
	DeselectRow(path IndexPath, animated bool)
	// ReloadSectionIndexTitles refreshes the sticky index titles.
	ReloadSectionIndexTitles()
	// DequeueCell returns a pooled cell for the reuse key, or nil.
	DequeueCell(reuseKey string) *Cell
	// RegisterTemplate tells the host which template builds cells for reuseKey.
	RegisterTemplate(template Template, reuseKey string)
}

// nopHost is used until a real host is attached.
type nopHost struct{}

func (nopHost) ReloadData() {}
func (nopHost) DeleteRows([]IndexPath, RowAnimation) {}
func (nopHost) ReloadRows([]IndexPath, RowAnimation) {}
func (nopHost) SelectRow(IndexPath, bool) {}
func (nopHost) DeselectRow(IndexPath, bool) {}
func (nopHost) ReloadSectionIndexTitles() {}
func (nopHost) DequeueCell(string) *Cell { return nil }
func (nopHost) RegisterTemplate(Template, string) {}
