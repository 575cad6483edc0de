package browser

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tablekit/internal/ui"
	"github.com/muurk/tablekit/internal/version"
)

// AppName is shown in the top-left corner of every screen.
const AppName = "TABLEKIT"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(ui.WarningColor).
			Bold(true)

	indexSelectedStyle = lipgloss.NewStyle().
				Foreground(ui.TextColor).
				Background(ui.PrimaryColor).
				Bold(true)
)

// chromeHeight is the number of lines the container draws around content.
const chromeHeight = 6

// renderContainer wraps a screen in the full-terminal frame: a header with
// the app name and table title, the content, and a footer with help text.
func renderContainer(title, content, footer string, width, height int) string {
	if width < ui.MinTerminalWidth {
		width = ui.MinTerminalWidth
	}
	if height < chromeHeight+3 {
		height = chromeHeight + 3
	}

	left := titleStyle.Render(AppName + " v" + version.Version)
	right := lipgloss.NewStyle().Foreground(ui.MutedColor).Render(title)
	header := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(width-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(width-4).
		Padding(0, 1).
		Foreground(ui.MutedColor)

	inner := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(header),
		lipgloss.NewStyle().Width(width-4).Render(content),
		footerStyle.Render(footer),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.PrimaryColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}
