package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/table"
	"github.com/muurk/tablekit/internal/ui"
)

// Mode is what the browser's keys currently drive.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeFilter
	ModeConfirmDelete
	ModeIndex
)

// Options configures a browser.
type Options struct {
	Title      string
	Table      *table.Table
	Host       *ui.TerminalHost
	Dispatcher *ProgramDispatcher
}

// Model is an interactive host for a table. It acts as the user would on a
// list widget: moving a cursor, tapping rows and accessories, confirming
// deletes and tapping the section index.
type Model struct {
	table      *table.Table
	host       *ui.TerminalHost
	dispatcher *ProgramDispatcher
	title      string

	Mode   Mode
	Width  int
	Height int
	Status string

	cursor     table.IndexPath
	hasCursor  bool
	rows       []ui.RenderedRow
	viewport   viewport.Model
	filter     textinput.Model
	filterBase map[*table.Row]bool
	indexPos   int

	help       help.Model
	keys       keyMap
	filterKeys promptKeyMap
	deleteKeys promptKeyMap
	indexKeys  promptKeyMap
}

// New creates a browser for opts.Table. The table should have been built
// with opts.Host and opts.Dispatcher attached.
func New(opts Options) Model {
	if opts.Host == nil {
		opts.Host = ui.NewTerminalHost()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = NewDispatcher()
	}

	filter := textinput.New()
	filter.Placeholder = "type to filter rows"
	filter.Prompt = "/ "
	filter.CharLimit = 64

	width, height := ui.GetTerminalSize()
	m := Model{
		table:      opts.Table,
		host:       opts.Host,
		dispatcher: opts.Dispatcher,
		title:      opts.Title,
		Width:      width,
		Height:     height,
		viewport:   viewport.New(width-4, height-chromeHeight-2),
		filter:     filter,
		help:       help.New(),
		keys:       newKeyMap(),
		filterKeys: newPromptKeyMap("keep filter"),
		deleteKeys: newPromptKeyMap("delete"),
		indexKeys:  newPromptKeyMap("jump"),
	}
	m.refresh()
	return m
}

// Cursor returns the index path under the cursor.
func (m Model) Cursor() (table.IndexPath, bool) {
	return m.cursor, m.hasCursor
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.dispatcher.enter()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width - 6
		m.refresh()
		return m, nil

	case drainMsg:
		n := m.dispatcher.drain()
		logging.Debug("Ran dispatched callbacks", zap.Int("count", n))
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.Mode {
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ModeIndex:
			return m.updateIndex(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Tap):
		if m.hasCursor {
			path := m.cursor
			m.host.SelectRow(path, false)
			m.table.DidSelectRow(path)
			m.Status = "Tapped " + m.titleAt(path)
		}

	case key.Matches(msg, m.keys.Accessory):
		if m.hasCursor {
			m.table.AccessoryButtonTapped(m.cursor)
			m.Status = "Accessory tapped on " + m.titleAt(m.cursor)
		}

	case key.Matches(msg, m.keys.Delete):
		if !m.hasCursor {
			break
		}
		if !m.table.CanEditRow(m.cursor) || m.table.EditingStyleForRow(m.cursor) != table.EditingStyleDelete {
			m.Status = m.titleAt(m.cursor) + " cannot be deleted"
			break
		}
		m.Mode = ModeConfirmDelete

	case key.Matches(msg, m.keys.Filter):
		m.Mode = ModeFilter
		m.filterBase = m.hiddenRows()
		m.filter.SetValue("")
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Section):
		if m.hasCursor {
			m.table.ShowSection(m.cursor.Section, nil, true)
			m.Status = fmt.Sprintf("Section %d hidden", m.cursor.Section)
		} else {
			m.showAllSections()
		}

	case key.Matches(msg, m.keys.Index):
		if len(m.table.SectionIndexTitles()) == 0 {
			m.Status = "This table has no section index"
			break
		}
		m.Mode = ModeIndex
		m.indexPos = 0

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case msg.String() == "H":
		m.showAllSections()
	}

	m.refresh()
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.filterKeys.Cancel):
		m.filter.SetValue("")
		m.applyFilter("")
		m.filter.Blur()
		m.Mode = ModeBrowse
		m.Status = "Filter cleared"
		m.refresh()
		return m, nil

	case key.Matches(msg, m.filterKeys.Confirm):
		m.filter.Blur()
		m.Mode = ModeBrowse
		if v := m.filter.Value(); v != "" {
			m.Status = fmt.Sprintf("Filtered by %q", v)
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter(m.filter.Value())
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.Mode = ModeBrowse
	if key.Matches(msg, m.deleteKeys.Confirm) || msg.String() == "y" {
		title := m.titleAt(m.cursor)
		m.table.CommitEditingStyle(table.EditingStyleDelete, m.cursor)
		m.Status = "Deleted " + title
	} else {
		m.Status = "Delete cancelled"
	}
	m.refresh()
	return m, nil
}

func (m Model) updateIndex(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	titles := m.table.SectionIndexTitles()
	if len(titles) == 0 {
		m.Mode = ModeBrowse
		return m, nil
	}

	switch {
	case key.Matches(msg, m.indexKeys.Cancel):
		m.Mode = ModeBrowse
		return m, nil

	case key.Matches(msg, m.indexKeys.Confirm):
		if m.indexPos < len(titles) {
			m.tapIndex(titles[m.indexPos], m.indexPos)
		}

	case msg.Type == tea.KeyLeft || msg.Type == tea.KeyUp:
		m.indexPos = (m.indexPos - 1 + len(titles)) % len(titles)
		return m, nil

	case msg.Type == tea.KeyRight || msg.Type == tea.KeyDown:
		m.indexPos = (m.indexPos + 1) % len(titles)
		return m, nil

	case msg.Type == tea.KeyRunes:
		typed := strings.ToUpper(string(msg.Runes))
		for i, title := range titles {
			if title == typed {
				m.tapIndex(title, i)
				break
			}
		}
		if m.Mode == ModeIndex {
			return m, nil
		}
	}

	m.refresh()
	return m, nil
}

func (m *Model) tapIndex(title string, index int) {
	m.table.SectionForSectionIndexTitle(title, index)
	m.Mode = ModeBrowse
	m.Status = "Jumped to " + title

	for _, r := range m.rows {
		if m.host.IsSelected(r.Path) {
			m.cursor = r.Path
			m.hasCursor = true
			return
		}
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	i := m.cursorIndex() + delta
	i = max(0, min(i, len(m.rows)-1))
	m.cursor = m.rows[i].Path
	m.hasCursor = true
}

func (m *Model) cursorIndex() int {
	for i, r := range m.rows {
		if r.Path == m.cursor {
			return i
		}
	}
	return 0
}

// refresh re-renders the table and keeps the cursor on a visible row.
func (m *Model) refresh() {
	opts := ui.RenderOptions{Width: m.Width - 4, ShowIndex: true}
	if m.hasCursor {
		opts.Cursor = &m.cursor
	}

	body, rows := m.host.Render(m.table, opts)
	m.rows = rows

	if !m.onVisibleRow() {
		prev := m.hasCursor
		m.placeCursor()
		if m.hasCursor || prev {
			opts.Cursor = nil
			if m.hasCursor {
				opts.Cursor = &m.cursor
			}
			body, m.rows = m.host.Render(m.table, opts)
		}
	}

	m.viewport.Width = m.Width - 4
	m.viewport.Height = max(3, m.Height-chromeHeight-2)
	m.viewport.SetContent(body)
	m.scrollToCursor()
}

func (m *Model) onVisibleRow() bool {
	if !m.hasCursor {
		return false
	}
	for _, r := range m.rows {
		if r.Path == m.cursor {
			return true
		}
	}
	return false
}

// placeCursor moves the cursor to the nearest visible row at or after its
// old position, or clears it when nothing is visible.
func (m *Model) placeCursor() {
	if len(m.rows) == 0 {
		m.hasCursor = false
		return
	}
	for _, r := range m.rows {
		if !m.hasCursor || !pathBefore(r.Path, m.cursor) {
			m.cursor = r.Path
			m.hasCursor = true
			return
		}
	}
	m.cursor = m.rows[len(m.rows)-1].Path
	m.hasCursor = true
}

func pathBefore(a, b table.IndexPath) bool {
	return a.Section < b.Section || (a.Section == b.Section && a.Row < b.Row)
}

func (m *Model) scrollToCursor() {
	if !m.hasCursor {
		return
	}
	line := m.rows[m.cursorIndex()].Line
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line+1 >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line + 2 - m.viewport.Height)
	}
}

func (m *Model) titleAt(path table.IndexPath) string {
	row, err := m.table.InfoFor(path)
	if err != nil || row.Title == nil {
		return path.String()
	}
	return *row.Title
}

// hiddenRows records rows hidden in their own right, so a filter can be
// undone without revealing them.
func (m *Model) hiddenRows() map[*table.Row]bool {
	hidden := make(map[*table.Row]bool)
	for _, section := range m.table.Sections() {
		for _, row := range section.Rows() {
			if row.Hidden() != nil {
				hidden[row] = true
			}
		}
	}
	return hidden
}

func (m *Model) applyFilter(pattern string) {
	if pattern == "" {
		m.table.Filter(func(row *table.Row) bool { return !m.filterBase[row] })
		return
	}

	var candidates []*table.Row
	var titles []string
	for _, section := range m.table.Sections() {
		for _, row := range section.Rows() {
			if m.filterBase[row] {
				continue
			}
			candidates = append(candidates, row)
			titles = append(titles, deref(row.Title)+" "+deref(row.Subtitle))
		}
	}

	keep := make(map[*table.Row]bool)
	for _, match := range fuzzy.Find(pattern, titles) {
		keep[candidates[match.Index]] = true
	}
	logging.Debug("Filter applied", zap.String("pattern", pattern), zap.Int("matches", len(keep)))

	m.table.Filter(func(row *table.Row) bool { return keep[row] })
}

func (m *Model) showAllSections() {
	for i := 0; i < m.table.NumberOfSections(); i++ {
		m.table.ShowSection(i, table.Ptr(true), false)
	}
	m.host.ReloadData()
	m.Status = "All sections shown"
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	var helpText string
	switch m.Mode {
	case ModeFilter:
		b.WriteString(m.filter.View())
		helpText = m.help.View(m.filterKeys)
	case ModeConfirmDelete:
		b.WriteString(promptStyle.Render(fmt.Sprintf("Delete %q? (enter/y to confirm)", m.titleAt(m.cursor))))
		helpText = m.help.View(m.deleteKeys)
	case ModeIndex:
		b.WriteString(m.renderIndexBar())
		helpText = m.help.View(m.indexKeys)
	default:
		b.WriteString(statusStyle.Render(m.Status))
		helpText = m.help.View(m.keys)
	}

	return renderContainer(m.title, b.String(), helpText, m.Width, m.Height)
}

func (m Model) renderIndexBar() string {
	titles := m.table.SectionIndexTitles()
	parts := make([]string, len(titles))
	for i, t := range titles {
		if i == m.indexPos {
			parts[i] = indexSelectedStyle.Render(" " + t + " ")
		} else {
			parts[i] = ui.IndexStyle.Render(t)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Run starts an interactive browser on the terminal and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.dispatcher.Attach(p)
	defer m.dispatcher.Attach(nil)

	_, err := p.Run()
	return err
}
