package table

// Attributes is the set of optional style and behaviour settings shared by
// rows, sections and the table. A nil field means "not set here" and defers
// to the next responder.
type Attributes struct {
	// Title is always written to the cell text, even when nil.
	Title *string
	// Subtitle is always written to the cell detail text, even when nil.
	Subtitle      *string
	TitleColor    *Color
	SubtitleColor *Color

	BackgroundColor *Color
	TintColor       *Color

	LeftImageName *string
	// LeftImageColor renders the left image as a template in this colour.
	LeftImageColor *Color
	// TintChevronDisclosures draws disclosure glyphs in the tint colour.
	TintChevronDisclosures *bool

	Style          *CellStyle
	SelectionStyle *SelectionStyle
	AccessoryType  *AccessoryType
	EditingStyle   *EditingStyle

	RowHeight *float64
	// EstimatedRowHeight is ignored when RowHeight resolves to a fixed value.
	EstimatedRowHeight *float64
	AutoDeselect       *bool

	// ReuseIdentifier overrides the generated reuse key. Set it when the host
	// has a cell registered under a known identifier.
	ReuseIdentifier *string
	// ReuseTag is mixed into the generated reuse key.
	ReuseTag *string
	Template *Template
	// CellFactory builds cells when nothing can be reused.
	CellFactory CellFactory

	ClickHandler              ClickHandler
	DeleteHandler             ClickHandler
	AccessoryClickHandler     ClickHandler
	StyleAfterCreateHandler   CellStyler
	StyleBeforeDisplayHandler CellStyler

	hidden *bool
}

// SetHidden hides the node when hidden is true. Passing false clears the
// override at this level so that an ancestor can still hide the node.
func (a *Attributes) SetHidden(hidden bool) {
	if !hidden {
		a.hidden = nil
		return
	}
	a.hidden = Ptr(true)
}

// Hidden returns the override stored at this level: nil or true.
func (a *Attributes) Hidden() *bool {
	return a.hidden
}

// Responder is a link in the attribute chain.
type Responder interface {
	Attrs() *Attributes
	NextResponder() Responder
}

// Resolve walks from start up the responder chain and returns the first
// value get reports as present.
func Resolve[T any](start Responder, get func(Responder) (T, bool)) (T, bool) {
	for r := start; r != nil; r = r.NextResponder() {
		if v, ok := get(r); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// resolvePtr resolves a pointer attribute, returning nil when unset everywhere.
func resolvePtr[T any](start Responder, pick func(*Attributes) *T) *T {
	v, _ := Resolve(start, func(r Responder) (*T, bool) {
		p := pick(r.Attrs())
		return p, p != nil
	})
	return v
}

func resolveOr[T any](start Responder, pick func(*Attributes) *T, fallback T) T {
	if p := resolvePtr(start, pick); p != nil {
		return *p
	}
	return fallback
}

func resolveHandler(start Responder, pick func(*Attributes) ClickHandler) ClickHandler {
	h, _ := Resolve(start, func(r Responder) (ClickHandler, bool) {
		h := pick(r.Attrs())
		return h, h != nil
	})
	return h
}

func resolveStyler(start Responder, pick func(*Attributes) CellStyler) CellStyler {
	s, _ := Resolve(start, func(r Responder) (CellStyler, bool) {
		s := pick(r.Attrs())
		return s, s != nil
	})
	return s
}

// lazy holds a value computed on first use and never recomputed.
type lazy[T any] struct {
	done bool
	v    T
}

func (l *lazy[T]) get(compute func() T) T {
	if !l.done {
		l.v = compute()
		l.done = true
	}
	return l.v
}
