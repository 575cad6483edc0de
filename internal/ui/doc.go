// Package ui draws tables in the terminal for the tablekit CLI.
//
// TerminalHost implements table.Host for text output. It keeps a pool of
// cells per reuse key and remembers which rows are selected; Render walks
// the live sequence, asks the table for each cell, draws it with Lipgloss
// and returns the cell to the pool.
//
// The remaining components follow a "run once and exit" pattern:
//
//   - Header: banner with the table title and a few facts about it
//   - Summary: row and section counts with a visible-rows bar
//   - Result: success, warning and failure boxes
//   - Confirm: typed confirmation before destructive commands
//
// Printer ties them together for commands:
//
//	host := ui.NewTerminalHost()
//	t := table.New(table.WithHost(host))
//	...
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader(def.Title, path, ui.Param{Key: "Sections", Value: "4"})
//	p.PrintTable(host, t, ui.RenderOptions{ShowIndex: true})
//
// Logging is controlled by TABLEKIT_LOG_LEVEL. When it is unset zap stays
// silent so the styled output is not interleaved with log lines.
package ui
