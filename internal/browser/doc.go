// Package browser is an interactive terminal host for a table.
//
// The Model draws the table through a ui.TerminalHost and turns keys into
// the calls a list widget would make: a tap, an accessory tap, a confirmed
// delete, a section index tap. ProgramDispatcher makes the Bubble Tea event
// loop the table's control goroutine, so updates applied from other
// goroutines land between two key presses rather than during one.
//
//	host := ui.NewTerminalHost()
//	d := browser.NewDispatcher()
//	t, err := def.Build(reg, table.WithHost(host), table.WithDispatcher(d))
//	...
//	err = browser.Run(ctx, browser.New(browser.Options{
//	    Title: def.Title, Table: t, Host: host, Dispatcher: d,
//	}))
package browser
