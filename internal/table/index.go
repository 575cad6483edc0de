package table

import (
	"time"

	"github.com/rivo/uniseg"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"

	"github.com/muurk/tablekit/internal/logging"
)

// indexDeselectDelay is how long a row picked from the index stays selected.
var indexDeselectDelay = 200 * time.Millisecond

// SetSectionForIndex chooses the live section whose row titles feed the
// sticky index. nil removes the index.
func (t *Table) SetSectionForIndex(section *int) {
	t.sectionForIndex = section
	t.prepareSectionIndex()
}

// SectionForIndex returns the section feeding the index, if any.
func (t *Table) SectionForIndex() (int, bool) {
	if t.sectionForIndex == nil {
		return 0, false
	}
	return *t.sectionForIndex, true
}

// SectionIndexTitles returns the current index titles, nil when there is no index.
func (t *Table) SectionIndexTitles() []string {
	if t.sectionIndexTitles == nil {
		return nil
	}
	out := make([]string, len(t.sectionIndexTitles))
	copy(out, t.sectionIndexTitles)
	return out
}

func (t *Table) prepareSectionIndex() {
	defer func() {
		logging.LogHostRequest("reload_section_index_titles", zap.Int("titles", len(t.sectionIndexTitles)))
		t.host.ReloadSectionIndexTitles()
	}()

	if t.sectionForIndex == nil {
		t.sectionIndexTitles = nil
		return
	}

	section, err := t.SectionFor(*t.sectionForIndex)
	if err != nil {
		logging.Warn("Trying to index on a section that doesn't exist", zap.Int("section", *t.sectionForIndex))
		t.sectionIndexTitles = nil
		return
	}

	t.sectionIndexTitles = IndexTitles(section.rows, t.collator(), cases.Upper(t.locale))
}

func (t *Table) collator() *collate.Collator {
	return collate.New(t.locale, collate.IgnoreCase, collate.Numeric)
}

// IndexTitles takes the first character of each row's own title, upper-cases
// it, removes duplicates and sorts the result with the collator.
func IndexTitles(rows []*Row, c *collate.Collator, upper cases.Caser) []string {
	seen := make(map[string]struct{})
	titles := make([]string, 0)

	for _, row := range rows {
		if row.Title == nil || *row.Title == "" {
			continue
		}
		first, _, _, _ := uniseg.FirstGraphemeClusterInString(*row.Title, -1)
		letter := upper.String(first)
		if _, dup := seen[letter]; dup {
			continue
		}
		seen[letter] = struct{}{}
		titles = append(titles, letter)
	}

	c.SortStrings(titles)
	return titles
}

// SectionForSectionIndexTitle handles a tap on an index title: it selects the
// last row of the indexed section whose title sorts before title, then
// deselects it shortly after. It always returns -1 so the host does not
// scroll to a section of its own.
func (t *Table) SectionForSectionIndexTitle(title string, index int) int {
	if t.sectionForIndex == nil {
		return -1
	}

	sectionIndex := *t.sectionForIndex
	selected := IndexPath{Section: sectionIndex, Row: 0}
	c := t.collator()

	for i := 0; i < t.NumberOfRows(sectionIndex); i++ {
		path := IndexPath{Section: sectionIndex, Row: i}
		row, err := t.InfoFor(path)
		if err != nil || row.Title == nil {
			continue
		}
		if c.CompareString(*row.Title, title) < 0 {
			selected = path
		} else {
			break
		}
	}

	logging.Debug("Index title tapped",
		zap.String("title", title),
		zap.Int("index", index),
		zap.Stringer("selected", selected),
	)

	t.hostSelectRow(selected, true)
	time.AfterFunc(indexDeselectDelay, func() {
		t.dispatcher.Dispatch(func() {
			t.hostDeselectRow(selected, true)
		})
	})

	return -1
}
