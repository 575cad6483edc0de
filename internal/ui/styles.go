package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/tablekit/internal/table"
)

// Color palette for terminal tables
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders, default selection
	SuccessColor = lipgloss.Color("#43BF6D") // Green - checkmarks, success
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - subtitles, hidden rows, gray selection
	TextColor    = lipgloss.Color("#FFFFFF") // White - row titles
	BlueColor    = lipgloss.Color("#1F6FEB") // Blue selection
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultPadding   = 2   // Default padding inside boxes
)

// Shared styles
var (
	// HeaderTitleStyle is for the table title in the banner
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the source line under the title
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for banner parameter keys (e.g., "Sections:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for banner parameter values
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// SectionHeaderStyle is for generated section header labels
	SectionHeaderStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// RowTitleStyle is the default style of a row title
	RowTitleStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// RowSubtitleStyle is the default style of a row subtitle
	RowSubtitleStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// HiddenRowStyle is used when hidden rows are shown on request
	HiddenRowStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Strikethrough(true)

	// CursorStyle is for the cursor marker in the browser
	CursorStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// IndexStyle is for the section index gutter
	IndexStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			PaddingLeft(1)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// TroubleshootingTitleStyle is for "Troubleshooting:" headers
	TroubleshootingTitleStyle = lipgloss.NewStyle().
					Foreground(MutedColor).
					Bold(true)

	// TroubleshootingItemStyle is for troubleshooting bullet points
	TroubleshootingItemStyle = lipgloss.NewStyle().
					Foreground(MutedColor)
)

// Markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
	CursorMarker  = "▸"
	ImageMarker   = "●"
)

// accessoryGlyphs maps accessory types to the glyph drawn at the row's end.
var accessoryGlyphs = map[table.AccessoryType]string{
	table.AccessoryNone:                   "",
	table.AccessoryDisclosureIndicator:    "›",
	table.AccessoryDetailDisclosureButton: "ⓘ ›",
	table.AccessoryCheckmark:              "✓",
	table.AccessoryDetailButton:           "ⓘ",
}

// AccessoryGlyph returns the glyph drawn for an accessory type.
func AccessoryGlyph(a table.AccessoryType) string {
	return accessoryGlyphs[a]
}

// hostColor converts a table colour to a lipgloss colour. ok is false for nil.
func hostColor(c *table.Color) (lipgloss.Color, bool) {
	if c == nil || *c == "" {
		return "", false
	}
	return lipgloss.Color(string(*c)), true
}

// selectionBackground returns the highlight for a selected row.
func selectionBackground(s table.SelectionStyle) (lipgloss.Color, bool) {
	switch s {
	case table.SelectionStyleNone:
		return "", false
	case table.SelectionStyleBlue:
		return BlueColor, true
	case table.SelectionStyleGray:
		return MutedColor, true
	default:
		return PrimaryColor, true
	}
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// GetTerminalSize returns the current terminal width and height
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24 // Default fallback
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}
	return width, height
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	if width < 0 {
		width = 0
	}
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
