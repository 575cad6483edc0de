// Package table is a declarative model for list displays.
//
// A Table holds sections, and each Section holds rows. Rows, sections and the
// table itself carry the same set of optional Attributes (titles, colours,
// accessory and selection styles, heights, click handlers, stylers). When a
// host asks how a row should look or behave, the row answers from its own
// attributes and falls back to its section, then to the table:
//
//	row → section info → table info → default
//
// The first level that sets a value wins. Callbacks are resolved the same way,
// so a click handler set on the table applies to every row that does not set
// its own.
//
// # Staged Updates
//
// The live sequence of sections is only ever replaced wholesale:
//
//	t.StartDataUpdate()
//	t.AddTitledSection("Fruit")
//	t.AddRow(table.NewRow("Apple"))
//	t.ApplyDataUpdate()
//
// Sections and rows added after StartDataUpdate are invisible until
// ApplyDataUpdate swaps them in and asks the host to reload. Calling AddRow
// without an update in progress, or before any section, panics with a
// *PreconditionError.
//
// # Hosts
//
// A Host renders the table. The table asks it to reload, delete, select and
// deselect rows, and the host asks back through NumberOfRows, CellForRow,
// HeightForRow and friends. Cells are pooled by the host under the key
// returned by Row.ReuseKey.
//
// # Threading
//
// Everything except ApplyDataUpdate must run on the control goroutine defined
// by the table's dispatch.Dispatcher. ApplyDataUpdate called elsewhere is
// forwarded to the control goroutine and returns immediately.
//
// # Resolve-once Attributes
//
// Style, reuse identifier and tag, template, cell factory, heights, tint and
// the stylers are resolved the first time a row is displayed and cached for
// the lifetime of the row. Changing them afterwards has no effect on that row.
package table
