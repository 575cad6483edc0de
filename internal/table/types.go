package table

import "fmt"

// AutomaticDimension asks the host to size a row or header from its content.
const AutomaticDimension = -1.0

// DefaultHeaderHeight is used for sections that have a header or a title but
// no explicit header height anywhere in the chain.
const DefaultHeaderHeight = 40.0

// Color is a host-interpreted colour value, e.g. "#7D56F4" or an ANSI index.
type Color string

// Template names an externally defined cell layout the host knows how to load.
type Template string

// IndexPath addresses a row within the live sequence.
type IndexPath struct {
	Section int `json:"section"`
	Row     int `json:"row"`
}

// String returns "section:row"
func (p IndexPath) String() string {
	return fmt.Sprintf("%d:%d", p.Section, p.Row)
}

// CellStyle selects one of the host's built-in cell layouts.
type CellStyle int

const (
	CellStyleDefault CellStyle = iota
	CellStyleValue1
	CellStyleValue2
	CellStyleSubtitle
)

func (s CellStyle) String() string {
	switch s {
	case CellStyleDefault:
		return "default"
	case CellStyleValue1:
		return "value1"
	case CellStyleValue2:
		return "value2"
	case CellStyleSubtitle:
		return "subtitle"
	default:
		return fmt.Sprintf("CellStyle(%d)", int(s))
	}
}

// SelectionStyle controls how a cell looks while selected.
type SelectionStyle int

const (
	SelectionStyleNone SelectionStyle = iota
	SelectionStyleBlue
	SelectionStyleGray
	SelectionStyleDefault
)

func (s SelectionStyle) String() string {
	switch s {
	case SelectionStyleNone:
		return "none"
	case SelectionStyleBlue:
		return "blue"
	case SelectionStyleGray:
		return "gray"
	case SelectionStyleDefault:
		return "default"
	default:
		return fmt.Sprintf("SelectionStyle(%d)", int(s))
	}
}

// AccessoryType is the trailing decoration of a cell.
type AccessoryType int

const (
	AccessoryNone AccessoryType = iota
	AccessoryDisclosureIndicator
	AccessoryDetailDisclosureButton
	AccessoryCheckmark
	AccessoryDetailButton
)

func (a AccessoryType) String() string {
	switch a {
	case AccessoryNone:
		return "none"
	case AccessoryDisclosureIndicator:
		return "disclosure"
	case AccessoryDetailDisclosureButton:
		return "detail_disclosure"
	case AccessoryCheckmark:
		return "checkmark"
	case AccessoryDetailButton:
		return "detail"
	default:
		return fmt.Sprintf("AccessoryType(%d)", int(a))
	}
}

// EditingStyle is the edit affordance offered for a row.
type EditingStyle int

const (
	EditingStyleNone EditingStyle = iota
	EditingStyleDelete
	EditingStyleInsert
)

func (e EditingStyle) String() string {
	switch e {
	case EditingStyleNone:
		return "none"
	case EditingStyleDelete:
		return "delete"
	case EditingStyleInsert:
		return "insert"
	default:
		return fmt.Sprintf("EditingStyle(%d)", int(e))
	}
}

// RowAnimation is a hint passed to the host with incremental updates.
type RowAnimation int

const (
	RowAnimationFade RowAnimation = iota
	RowAnimationRight
	RowAnimationLeft
	RowAnimationTop
	RowAnimationBottom
	RowAnimationNone
	RowAnimationMiddle
	RowAnimationAutomatic RowAnimation = 100
)

func (a RowAnimation) String() string {
	switch a {
	case RowAnimationFade:
		return "fade"
	case RowAnimationRight:
		return "right"
	case RowAnimationLeft:
		return "left"
	case RowAnimationTop:
		return "top"
	case RowAnimationBottom:
		return "bottom"
	case RowAnimationNone:
		return "none"
	case RowAnimationMiddle:
		return "middle"
	case RowAnimationAutomatic:
		return "automatic"
	default:
		return fmt.Sprintf("RowAnimation(%d)", int(a))
	}
}

// ClickHandler reacts to taps, accessory taps and delete confirmations.
type ClickHandler func(row *Row)

// CellStyler adjusts a cell after the table has configured it.
type CellStyler func(row *Row, cell *Cell)

// RowFilter returns true for rows that should be shown.
type RowFilter func(row *Row) bool

// CellFactory creates a new cell when the host has none to reuse.
type CellFactory func(style CellStyle, reuseIdentifier string) *Cell

// Label is the header view generated for sections that only have a title.
type Label struct {
	Text      string
	Centered  bool
	TextColor Color
	Fill      Color
}

// Ptr returns a pointer to v. Attributes use pointers so that an unset value
// can be told apart from a zero value.
func Ptr[T any](v T) *T {
	return &v
}

// ParseCellStyle parses the name returned by CellStyle.String.
func ParseCellStyle(s string) (CellStyle, error) {
	return parseEnum("cell style", s, CellStyleDefault, CellStyleValue1, CellStyleValue2, CellStyleSubtitle)
}

// ParseSelectionStyle parses the name returned by SelectionStyle.String.
func ParseSelectionStyle(s string) (SelectionStyle, error) {
	return parseEnum("selection style", s, SelectionStyleNone, SelectionStyleBlue, SelectionStyleGray, SelectionStyleDefault)
}

// ParseAccessoryType parses the name returned by AccessoryType.String.
func ParseAccessoryType(s string) (AccessoryType, error) {
	return parseEnum("accessory", s,
		AccessoryNone,
		AccessoryDisclosureIndicator,
		AccessoryDetailDisclosureButton,
		AccessoryCheckmark,
		AccessoryDetailButton,
	)
}

// ParseEditingStyle parses the name returned by EditingStyle.String.
func ParseEditingStyle(s string) (EditingStyle, error) {
	return parseEnum("editing style", s, EditingStyleNone, EditingStyleDelete, EditingStyleInsert)
}

func parseEnum[T fmt.Stringer](kind, s string, values ...T) (T, error) {
	for _, v := range values {
		if v.String() == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}
