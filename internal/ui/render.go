package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tablekit/internal/table"
)

// Format selects how rows are laid out.
type Format int

const (
	// FormatDetailed draws styled rows with subtitles under their titles.
	FormatDetailed Format = iota
	// FormatCompact draws one plain line per row.
	FormatCompact
)

// ParseFormat maps a --format value to a Format. "json" is handled by the
// caller and is not a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "detailed":
		return FormatDetailed, nil
	case "compact":
		return FormatCompact, nil
	default:
		return FormatDetailed, fmt.Errorf("unknown format %q (expected detailed, compact or json)", s)
	}
}

// RenderOptions controls a single Render call.
type RenderOptions struct {
	Width  int
	Format Format
	// Cursor marks the row the browser's cursor is on.
	Cursor *table.IndexPath
	// ShowHidden draws hidden rows struck through instead of skipping them.
	ShowHidden bool
	// ShowIndex draws the section index gutter when the table has one.
	ShowIndex bool
}

// RenderedRow records where a row ended up in the output.
type RenderedRow struct {
	Path table.IndexPath
	Line int
}

// Render draws every visible row of t the way a list widget would: it asks
// the table for each cell, lets it style the cell for display, draws it and
// recycles it. It returns the text and the rows that were drawn in order.
func (h *TerminalHost) Render(t *table.Table, opts RenderOptions) (string, []RenderedRow) {
	width := opts.Width
	if width <= 0 {
		width = GetTerminalWidth()
	}

	titles := t.SectionIndexTitles()
	gutter := opts.ShowIndex && len(titles) > 0
	contentWidth := width
	if gutter {
		contentWidth -= 3
	}

	var lines []string
	var rows []RenderedRow
	var drawn []*table.Cell

	for s := 0; s < t.NumberOfSections(); s++ {
		if t.HeightForHeader(s) > 0 {
			if header := headerText(t.ViewForHeader(s)); header != "" {
				if len(lines) > 0 {
					lines = append(lines, "")
				}
				lines = append(lines, h.renderHeader(header, contentWidth, opts.Format))
			}
		}

		for r := 0; r < t.NumberOfRows(s); r++ {
			path := table.IndexPath{Section: s, Row: r}
			cell := t.CellForRow(path)
			t.WillDisplayCell(cell, path)
			drawn = append(drawn, cell)

			if cell.Hidden && !opts.ShowHidden {
				continue
			}

			cursor := opts.Cursor != nil && *opts.Cursor == path
			rows = append(rows, RenderedRow{Path: path, Line: len(lines)})

			var block string
			if opts.Format == FormatCompact {
				block = renderCompactCell(cell, path, cursor)
			} else {
				block = renderCell(cell, contentWidth, cursor, h.IsSelected(path))
			}
			lines = append(lines, strings.Split(block, "\n")...)
		}

		if t.HeightForFooter(s) > 0 && opts.Format == FormatDetailed {
			lines = append(lines, "")
		}
	}

	h.Recycle(drawn...)

	body := strings.Join(lines, "\n")
	if gutter {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(contentWidth).Render(body),
			IndexStyle.Render(strings.Join(titles, "\n")),
		)
	}
	return body, rows
}

func headerText(view any) string {
	switch v := view.(type) {
	case nil:
		return ""
	case *table.Label:
		return v.Text
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (h *TerminalHost) renderHeader(text string, width int, format Format) string {
	if format == FormatCompact {
		return "# " + text
	}
	label := SectionHeaderStyle.Render(strings.ToUpper(text))
	pad := (width - lipgloss.Width(label)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + label
}

// renderCell draws a cell in its cell style:
//   - default: title only
//   - value1: title left, detail right
//   - value2: detail as a muted label, then title
//   - subtitle: title with the detail on the line below
func renderCell(cell *table.Cell, width int, cursor, selected bool) string {
	titleStyle := RowTitleStyle
	if c, ok := hostColor(cell.TextColor); ok {
		titleStyle = titleStyle.Foreground(c)
	}
	detailStyle := RowSubtitleStyle
	if c, ok := hostColor(cell.DetailTextColor); ok {
		detailStyle = detailStyle.Foreground(c)
	}
	if cell.Hidden {
		titleStyle = HiddenRowStyle
		detailStyle = HiddenRowStyle
	}

	prefix := "  "
	if cursor {
		prefix = CursorStyle.Render(CursorMarker) + " "
	}
	if cell.Image != "" {
		marker := ImageMarker
		if c, ok := hostColor(cell.ImageTint); ok && cell.ImageTemplate {
			marker = lipgloss.NewStyle().Foreground(c).Render(marker)
		}
		prefix += marker + " "
	}

	accessory := accessoryText(cell)

	var first, second string
	switch cell.Style {
	case table.CellStyleValue1:
		first = titleStyle.Render(cell.Text)
		if cell.DetailText != "" {
			first = spread(prefix+first, detailStyle.Render(cell.DetailText)+suffix(accessory), width)
			accessory = ""
			prefix = ""
		}
	case table.CellStyleValue2:
		first = detailStyle.Render(cell.DetailText) + "  " + titleStyle.Render(cell.Text)
	case table.CellStyleSubtitle:
		first = titleStyle.Render(cell.Text)
		if cell.DetailText != "" {
			second = strings.Repeat(" ", lipgloss.Width(prefix)) + detailStyle.Render(cell.DetailText)
		}
	default:
		first = titleStyle.Render(cell.Text)
	}

	if prefix != "" || accessory != "" {
		first = spread(prefix+first, accessory, width)
	}

	block := first
	if second != "" {
		block += "\n" + second
	}

	style := lipgloss.NewStyle()
	if c, ok := hostColor(cell.BackgroundColor); ok {
		style = style.Background(c)
	}
	if selected {
		if bg, ok := selectionBackground(cell.SelectionStyle); ok {
			style = style.Background(bg)
		}
	}
	return style.Render(block)
}

func accessoryText(cell *table.Cell) string {
	glyph := AccessoryGlyph(cell.AccessoryType)
	if glyph == "" {
		return ""
	}

	style := RowSubtitleStyle
	switch {
	case cell.AccessoryType == table.AccessoryCheckmark:
		style = lipgloss.NewStyle().Foreground(SuccessColor)
	case cell.TintedDisclosure:
		if c, ok := hostColor(cell.TintColor); ok {
			style = lipgloss.NewStyle().Foreground(c)
		}
	}
	return style.Render(glyph)
}

func suffix(accessory string) string {
	if accessory == "" {
		return ""
	}
	return " " + accessory
}

// spread places left and right at the two ends of a line of width columns.
func spread(left, right string, width int) string {
	if right == "" {
		return left
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func renderCompactCell(cell *table.Cell, path table.IndexPath, cursor bool) string {
	var b strings.Builder
	if cursor {
		b.WriteString(CursorMarker + " ")
	}
	fmt.Fprintf(&b, "%-6s %s", path.String(), cell.Text)
	if cell.DetailText != "" {
		b.WriteString(" - " + cell.DetailText)
	}
	if glyph := AccessoryGlyph(cell.AccessoryType); glyph != "" {
		b.WriteString(" [" + cell.AccessoryType.String() + "]")
	}
	if cell.Hidden {
		b.WriteString(" (hidden)")
	}
	return b.String()
}
