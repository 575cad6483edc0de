package table

// Cell is the host-neutral description of a rendered row. Hosts keep a pool
// of cells keyed by ReuseIdentifier and hand them back through
// Host.DequeueCell; the table overwrites the fields it owns on every use.
type Cell struct {
	ReuseIdentifier string
	Style           CellStyle
	ClipsToBounds   bool

	Text            string
	TextColor       *Color
	DetailText      string
	DetailTextColor *Color

	Image         string
	ImageTemplate bool
	ImageTint     *Color

	SelectionStyle  SelectionStyle
	AccessoryType   AccessoryType
	TintColor       *Color
	BackgroundColor *Color

	Hidden bool

	// TintedDisclosure is set when disclosure glyphs should be drawn in the
	// tint colour instead of the host default.
	TintedDisclosure bool

	// Custom carries host specific state (a view, a style) across reuse.
	Custom any
}

// NewCell is the default CellFactory.
func NewCell(style CellStyle, reuseIdentifier string) *Cell {
	return &Cell{
		Style:           style,
		ReuseIdentifier: reuseIdentifier,
	}
}

// placeholderCell is handed to the host for coordinates that no longer exist.
func placeholderCell() *Cell {
	return NewCell(CellStyleDefault, "")
}
