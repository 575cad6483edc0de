package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tablekit/internal/table"
)

// Summary counts what a table snapshot contains.
type Summary struct {
	Sections       int `json:"sections"`
	HiddenSections int `json:"hidden_sections"`
	Rows           int `json:"rows"`
	HiddenRows     int `json:"hidden_rows"`
	Checked        int `json:"checked"`
	Editable       int `json:"editable"`
	IndexTitles    int `json:"index_titles"`
}

// Summarize counts rows and sections in a snapshot.
func Summarize(snap table.Snapshot) Summary {
	s := Summary{Sections: len(snap.Sections), IndexTitles: len(snap.IndexTitles)}
	for _, sec := range snap.Sections {
		if sec.Hidden {
			s.HiddenSections++
		}
		for _, row := range sec.Rows {
			s.Rows++
			if row.Hidden {
				s.HiddenRows++
			}
			if row.Accessory == table.AccessoryCheckmark.String() {
				s.Checked++
			}
			if row.Editing != table.EditingStyleNone.String() {
				s.Editable++
			}
		}
	}
	return s
}

// VisibleRatio is the fraction of rows that are not hidden.
func (s Summary) VisibleRatio() float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.Rows-s.HiddenRows) / float64(s.Rows)
}

// Render draws the counts with a bar for the visible share of rows.
func (s Summary) Render(width int) string {
	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 60 {
		barWidth = 60
	}
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
	)

	counts := []Param{
		{"Sections", fmt.Sprintf("%d (%d hidden)", s.Sections, s.HiddenSections)},
		{"Rows", fmt.Sprintf("%d (%d hidden)", s.Rows, s.HiddenRows)},
		{"Checked", fmt.Sprint(s.Checked)},
		{"Editable", fmt.Sprint(s.Editable)},
		{"Index", fmt.Sprintf("%d titles", s.IndexTitles)},
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(TextColor).Render("  Visible rows"),
		"  " + bar.ViewAs(s.VisibleRatio()),
		"",
	}
	for _, c := range counts {
		lines = append(lines, ResultKeyStyle.Render("  "+c.Key+":")+" "+ResultValueStyle.Render(c.Value))
	}
	return strings.Join(lines, "\n")
}
