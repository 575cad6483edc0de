package table

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/logging"
)

// Row is a single entry of a section. Its attributes fall back to the
// section's and then the table's.
//
// Rows compare by identity: the same *Row can be found again after the
// sequence around it has changed.
type Row struct {
	Attributes

	// CustomInfo is caller data carried with the row.
	CustomInfo any

	// section and table are back-references for lookup only; the section's
	// slice is what keeps a row alive.
	section *Section
	table   *Table

	lastIndexPath *IndexPath

	templateRegistrationTried bool
	memo                      rowMemo
}

// rowMemo caches values resolved the first time they are needed. They are
// not recomputed when attributes change afterwards.
type rowMemo struct {
	leftImageColor         lazy[*Color]
	tintChevronDisclosures lazy[*bool]
	tintColor              lazy[*Color]
	selectionStyle         lazy[SelectionStyle]
	editingStyle           lazy[EditingStyle]
	style                  lazy[CellStyle]
	reuseIdentifier        lazy[*string]
	reuseTag               lazy[*string]
	afterCreate            lazy[CellStyler]
	beforeDisplay          lazy[CellStyler]
	rowHeight              lazy[float64]
	estimatedRowHeight     lazy[float64]
	template               lazy[*Template]
	cellFactory            lazy[CellFactory]
	reuseKey               lazy[string]
}

// NewRow creates a row with a title.
func NewRow(title string) *Row {
	r := &Row{}
	r.Title = Ptr(title)
	return r
}

// NewSubtitleRow creates a row with a title and a subtitle.
func NewSubtitleRow(title, subtitle string) *Row {
	r := NewRow(title)
	r.Subtitle = Ptr(subtitle)
	return r
}

// Attrs implements Responder.
func (r *Row) Attrs() *Attributes { return &r.Attributes }

// NextResponder returns the owning section's info, or nil for a detached row.
func (r *Row) NextResponder() Responder {
	if r.section == nil {
		return nil
	}
	return r.section.Info
}

// Section returns the section the row was last added to.
func (r *Row) Section() *Section { return r.section }

// Table returns the table that owns the row.
func (r *Row) Table() *Table { return r.table }

// LastIndexPath returns the coordinate the host last asked about, if any.
func (r *Row) LastIndexPath() (IndexPath, bool) {
	if r.lastIndexPath == nil {
		return IndexPath{}, false
	}
	return *r.lastIndexPath, true
}

func (r *Row) ResolvedTitle() *string {
	return resolvePtr(r, func(a *Attributes) *string { return a.Title })
}

func (r *Row) ResolvedSubtitle() *string {
	return resolvePtr(r, func(a *Attributes) *string { return a.Subtitle })
}

func (r *Row) ResolvedTitleColor() *Color {
	return resolvePtr(r, func(a *Attributes) *Color { return a.TitleColor })
}

func (r *Row) ResolvedSubtitleColor() *Color {
	return resolvePtr(r, func(a *Attributes) *Color { return a.SubtitleColor })
}

func (r *Row) ResolvedBackgroundColor() *Color {
	return resolvePtr(r, func(a *Attributes) *Color { return a.BackgroundColor })
}

func (r *Row) ResolvedLeftImageName() *string {
	return resolvePtr(r, func(a *Attributes) *string { return a.LeftImageName })
}

// ResolvedHidden reports whether any level of the chain hides the row.
func (r *Row) ResolvedHidden() bool {
	h := resolvePtr(r, func(a *Attributes) *bool { return a.hidden })
	return h != nil && *h
}

func (r *Row) ResolvedAccessoryType() AccessoryType {
	return resolveOr(r, func(a *Attributes) *AccessoryType { return a.AccessoryType }, AccessoryNone)
}

// ResolvedAutoDeselect defaults to true.
func (r *Row) ResolvedAutoDeselect() bool {
	return resolveOr(r, func(a *Attributes) *bool { return a.AutoDeselect }, true)
}

func (r *Row) ResolvedClickHandler() ClickHandler {
	return resolveHandler(r, func(a *Attributes) ClickHandler { return a.ClickHandler })
}

func (r *Row) ResolvedDeleteHandler() ClickHandler {
	return resolveHandler(r, func(a *Attributes) ClickHandler { return a.DeleteHandler })
}

func (r *Row) ResolvedAccessoryClickHandler() ClickHandler {
	return resolveHandler(r, func(a *Attributes) ClickHandler { return a.AccessoryClickHandler })
}

// Memoized resolutions below.

func (r *Row) ResolvedLeftImageColor() *Color {
	return r.memo.leftImageColor.get(func() *Color {
		return resolvePtr(r, func(a *Attributes) *Color { return a.LeftImageColor })
	})
}

func (r *Row) ResolvedTintChevronDisclosures() bool {
	v := r.memo.tintChevronDisclosures.get(func() *bool {
		return resolvePtr(r, func(a *Attributes) *bool { return a.TintChevronDisclosures })
	})
	return v != nil && *v
}

func (r *Row) ResolvedTintColor() *Color {
	return r.memo.tintColor.get(func() *Color {
		return resolvePtr(r, func(a *Attributes) *Color { return a.TintColor })
	})
}

func (r *Row) ResolvedSelectionStyle() SelectionStyle {
	return r.memo.selectionStyle.get(func() SelectionStyle {
		return resolveOr(r, func(a *Attributes) *SelectionStyle { return a.SelectionStyle }, SelectionStyleDefault)
	})
}

func (r *Row) ResolvedEditingStyle() EditingStyle {
	return r.memo.editingStyle.get(func() EditingStyle {
		return resolveOr(r, func(a *Attributes) *EditingStyle { return a.EditingStyle }, EditingStyleNone)
	})
}

// ResolvedStyle defaults to CellStyleSubtitle.
func (r *Row) ResolvedStyle() CellStyle {
	return r.memo.style.get(func() CellStyle {
		return resolveOr(r, func(a *Attributes) *CellStyle { return a.Style }, CellStyleSubtitle)
	})
}

func (r *Row) ResolvedReuseIdentifier() *string {
	return r.memo.reuseIdentifier.get(func() *string {
		return resolvePtr(r, func(a *Attributes) *string { return a.ReuseIdentifier })
	})
}

func (r *Row) ResolvedReuseTag() *string {
	return r.memo.reuseTag.get(func() *string {
		return resolvePtr(r, func(a *Attributes) *string { return a.ReuseTag })
	})
}

func (r *Row) ResolvedStyleAfterCreateHandler() CellStyler {
	return r.memo.afterCreate.get(func() CellStyler {
		return resolveStyler(r, func(a *Attributes) CellStyler { return a.StyleAfterCreateHandler })
	})
}

func (r *Row) ResolvedStyleBeforeDisplayHandler() CellStyler {
	return r.memo.beforeDisplay.get(func() CellStyler {
		return resolveStyler(r, func(a *Attributes) CellStyler { return a.StyleBeforeDisplayHandler })
	})
}

// ResolvedRowHeight defaults to AutomaticDimension.
func (r *Row) ResolvedRowHeight() float64 {
	return r.memo.rowHeight.get(func() float64 {
		return resolveOr(r, func(a *Attributes) *float64 { return a.RowHeight }, AutomaticDimension)
	})
}

// ResolvedEstimatedRowHeight returns the fixed row height when there is one.
func (r *Row) ResolvedEstimatedRowHeight() float64 {
	return r.memo.estimatedRowHeight.get(func() float64 {
		if h := r.ResolvedRowHeight(); h != AutomaticDimension {
			return h
		}
		return resolveOr(r, func(a *Attributes) *float64 { return a.EstimatedRowHeight }, AutomaticDimension)
	})
}

func (r *Row) ResolvedTemplate() *Template {
	return r.memo.template.get(func() *Template {
		return resolvePtr(r, func(a *Attributes) *Template { return a.Template })
	})
}

// ResolvedCellFactory defaults to NewCell.
func (r *Row) ResolvedCellFactory() CellFactory {
	return r.memo.cellFactory.get(func() CellFactory {
		f, ok := Resolve(Responder(r), func(n Responder) (CellFactory, bool) {
			f := n.Attrs().CellFactory
			return f, f != nil
		})
		if !ok {
			return NewCell
		}
		return f
	})
}

// ReuseKey is the identifier the host's cell pool is keyed by. An explicit
// reuse identifier anywhere in the chain wins; otherwise the key combines the
// cell style, the node type, the template, the reuse tag and the tint-chevrons
// flag.
func (r *Row) ReuseKey() string {
	return r.memo.reuseKey.get(func() string {
		if id := r.ResolvedReuseIdentifier(); id != nil {
			return *id
		}
		return fmt.Sprintf("%s_%T_%s_%s_%t",
			r.ResolvedStyle(),
			r,
			describe(r.ResolvedTemplate()),
			describe(r.ResolvedReuseTag()),
			r.ResolvedTintChevronDisclosures(),
		)
	})
}

func describe[T ~string](v *T) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%q", string(*v))
}

// RedrawCell asks the host to reload this row only.
func (r *Row) RedrawCell(animation RowAnimation) {
	if r.table == nil || r.lastIndexPath == nil {
		return
	}
	r.table.hostReloadRows([]IndexPath{*r.lastIndexPath}, animation)
}

func (r *Row) makeNewCell(identifier string, style CellStyle) *Cell {
	cell := r.ResolvedCellFactory()(style, identifier)
	if cell == nil {
		cell = NewCell(style, identifier)
	}
	// Standard cells would otherwise draw subtitles into zero-height rows.
	cell.ClipsToBounds = true
	return cell
}

// cell produces a configured cell, reusing one from the host when possible.
func (r *Row) cell(host Host) *Cell {
	identifier := r.ReuseKey()

	if !r.templateRegistrationTried {
		r.templateRegistrationTried = true
		if tpl := r.ResolvedTemplate(); tpl != nil {
			// Registers once per row rather than once per template.
			host.RegisterTemplate(*tpl, identifier)
		}
	}

	cell := host.DequeueCell(identifier)
	if cell == nil {
		cell = r.makeNewCell(identifier, r.ResolvedStyle())
	}

	r.configure(cell)
	return cell
}

func (r *Row) configure(cell *Cell) {
	cell.Text = deref(r.ResolvedTitle())
	cell.TextColor = r.ResolvedTitleColor()

	cell.DetailText = deref(r.ResolvedSubtitle())
	cell.DetailTextColor = r.ResolvedSubtitleColor()

	if name := r.ResolvedLeftImageName(); name != nil {
		cell.Image = *name
		cell.ImageTemplate = false
		cell.ImageTint = nil
		if color := r.ResolvedLeftImageColor(); color != nil {
			cell.ImageTemplate = true
			cell.ImageTint = color
		}
	} else {
		cell.Image = ""
	}

	cell.SelectionStyle = r.ResolvedSelectionStyle()
	cell.AccessoryType = r.ResolvedAccessoryType()
	cell.TintColor = r.ResolvedTintColor()

	if bg := r.ResolvedBackgroundColor(); bg != nil {
		cell.BackgroundColor = bg
	}

	if afterCreate := r.ResolvedStyleAfterCreateHandler(); afterCreate != nil {
		if r.ResolvedReuseIdentifier() == nil && r.ResolvedReuseTag() == nil {
			logging.Warn("After-create styler without reuse tag or identifier; a modified cell may be reused by a row that does not make the same changes",
				zap.Stringer("index_path", optionalPath(r.lastIndexPath)),
			)
		}
		afterCreate(r, cell)
	}
}

func (r *Row) willDisplay(cell *Cell) {
	cell.Hidden = r.ResolvedHidden()

	if r.ResolvedTintChevronDisclosures() {
		cell.TintedDisclosure = true
	}

	if before := r.ResolvedStyleBeforeDisplayHandler(); before != nil {
		before(r, cell)
	}
}

func (r *Row) heightForRow() float64 {
	if r.ResolvedHidden() {
		return 0
	}
	return r.ResolvedRowHeight()
}

func (r *Row) estimatedHeightForRow() float64 {
	estimated := r.ResolvedEstimatedRowHeight()
	if estimated == AutomaticDimension && r.ResolvedTemplate() != nil {
		logging.Warn("Row uses a template without rowHeight or estimatedRowHeight; falling back to automatic sizing",
			zap.Stringer("index_path", optionalPath(r.lastIndexPath)),
		)
	}
	return estimated
}

func (r *Row) didSelect() {
	if click := r.ResolvedClickHandler(); click != nil {
		click(r)
	}

	if r.ResolvedAutoDeselect() && r.table != nil && r.lastIndexPath != nil {
		r.table.hostDeselectRow(*r.lastIndexPath, true)
	}
}

func (r *Row) didDelete() {
	if h := r.ResolvedDeleteHandler(); h != nil {
		h(r)
	}
}

func (r *Row) accessoryTapped() {
	if h := r.ResolvedAccessoryClickHandler(); h != nil {
		h(r)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalPath(p *IndexPath) fmt.Stringer {
	return pathStringer{p}
}

type pathStringer struct{ p *IndexPath }

func (s pathStringer) String() string {
	if s.p == nil {
		return "nil"
	}
	return s.p.String()
}
