package ui

import (
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/table"
)

// HostStats counts the requests a TerminalHost has received.
type HostStats struct {
	Reloads      int `json:"reloads"`
	RowReloads   int `json:"row_reloads"`
	Deletes      int `json:"deletes"`
	Selects      int `json:"selects"`
	Deselects    int `json:"deselects"`
	IndexReloads int `json:"index_reloads"`
	PoolHits     int `json:"pool_hits"`
	PoolMisses   int `json:"pool_misses"`
	Templates    int `json:"templates"`
}

// TerminalHost draws a table as text. It keeps a pool of cells per reuse key
// and the set of selected rows; Render recycles every cell it draws.
type TerminalHost struct {
	mu sync.Mutex

	pool      map[string][]*table.Cell
	templates map[string]table.Template
	selected  map[table.IndexPath]bool
	stats     HostStats

	// OnChange is called after every request that alters what is shown.
	OnChange func()
}

// NewTerminalHost creates an empty host.
func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		pool:      make(map[string][]*table.Cell),
		templates: make(map[string]table.Template),
		selected:  make(map[table.IndexPath]bool),
	}
}

func (h *TerminalHost) changed() {
	if h.OnChange != nil {
		h.OnChange()
	}
}

// ReloadData implements table.Host.
func (h *TerminalHost) ReloadData() {
	h.mu.Lock()
	h.stats.Reloads++
	// Positions are meaningless after a full reload.
	clear(h.selected)
	h.mu.Unlock()
	h.changed()
}

// DeleteRows implements table.Host.
func (h *TerminalHost) DeleteRows(paths []table.IndexPath, animation table.RowAnimation) {
	h.mu.Lock()
	h.stats.Deletes += len(paths)
	for _, p := range paths {
		delete(h.selected, p)
	}
	h.mu.Unlock()

	logging.Debug("Rows deleted", zap.Int("count", len(paths)), zap.Stringer("animation", animation))
	h.changed()
}

// ReloadRows implements table.Host.
func (h *TerminalHost) ReloadRows(paths []table.IndexPath, _ table.RowAnimation) {
	h.mu.Lock()
	h.stats.RowReloads += len(paths)
	h.mu.Unlock()
	h.changed()
}

// SelectRow implements table.Host.
func (h *TerminalHost) SelectRow(path table.IndexPath, _ bool) {
	h.mu.Lock()
	h.stats.Selects++
	h.selected[path] = true
	h.mu.Unlock()
	h.changed()
}

// DeselectRow implements table.Host.
func (h *TerminalHost) DeselectRow(path table.IndexPath, _ bool) {
	h.mu.Lock()
	h.stats.Deselects++
	delete(h.selected, path)
	h.mu.Unlock()
	h.changed()
}

// ReloadSectionIndexTitles implements table.Host.
func (h *TerminalHost) ReloadSectionIndexTitles() {
	h.mu.Lock()
	h.stats.IndexReloads++
	h.mu.Unlock()
	h.changed()
}

// DequeueCell implements table.Host.
func (h *TerminalHost) DequeueCell(reuseKey string) *table.Cell {
	h.mu.Lock()
	defer h.mu.Unlock()

	cells := h.pool[reuseKey]
	if len(cells) == 0 {
		h.stats.PoolMisses++
		return nil
	}
	h.stats.PoolHits++
	cell := cells[len(cells)-1]
	h.pool[reuseKey] = cells[:len(cells)-1]
	return cell
}

// RegisterTemplate implements table.Host. Terminal cells have a single
// layout, so the template is only remembered for reporting.
func (h *TerminalHost) RegisterTemplate(template table.Template, reuseKey string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.Templates++
	h.templates[reuseKey] = template
}

// Recycle returns cells to the pool under their reuse identifiers.
func (h *TerminalHost) Recycle(cells ...*table.Cell) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range cells {
		if c == nil || c.ReuseIdentifier == "" {
			continue
		}
		h.pool[c.ReuseIdentifier] = append(h.pool[c.ReuseIdentifier], c)
	}
}

// PoolSize returns how many cells are waiting for reuse under reuseKey.
func (h *TerminalHost) PoolSize(reuseKey string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pool[reuseKey])
}

// Template returns the template registered for reuseKey.
func (h *TerminalHost) Template(reuseKey string) (table.Template, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tpl, ok := h.templates[reuseKey]
	return tpl, ok
}

// IsSelected reports whether the row at path is selected.
func (h *TerminalHost) IsSelected(path table.IndexPath) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selected[path]
}

// Stats returns a copy of the request counters.
func (h *TerminalHost) Stats() HostStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}
