package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/browser"
	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/table"
	"github.com/muurk/tablekit/internal/ui"
)

// Show command flags
var (
	outputFormat string
	showHidden   bool
	showSummary  bool
	showIndex    bool
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsResetCmd)
	prefsCmd.AddCommand(prefsListCmd)
}

// showCmd renders the table once
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the table once",
	Long: `Render every visible row of the table the way a list widget would.

Each cell is built from the row's resolved attributes, styled by its
before-display handler, drawn and recycled.`,
	Example: `  # Render the configured definition
  tablekit show

  # Render a specific file, one line per row
  tablekit show -d settings.yaml --format compact

  # Include hidden rows and a summary
  tablekit show --show-hidden --summary

  # Resolved snapshot as JSON for scripting
  tablekit show --format json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	showCmd.Flags().BoolVar(&showHidden, "show-hidden", false, "Draw hidden rows struck through")
	showCmd.Flags().BoolVar(&showSummary, "summary", false, "Print row and section counts")
	showCmd.Flags().BoolVar(&showIndex, "index", true, "Draw the section index gutter")
}

func runShow(cmd *cobra.Command, args []string) error {
	host := ui.NewTerminalHost()
	l, err := buildTable(table.WithHost(host))
	if err != nil {
		return err
	}

	printer := newPrinter(cmd)

	if outputFormat == "json" {
		return printer.PrintJSON(l.table.Snapshot())
	}

	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	opts := ui.RenderOptions{Format: format, ShowHidden: showHidden, ShowIndex: showIndex}
	if format == ui.FormatCompact {
		printer.PrintTable(host, l.table, opts)
		if showSummary {
			return printer.PrintJSON(ui.Summarize(l.table.Snapshot()))
		}
		return nil
	}

	var b strings.Builder
	b.WriteString(ui.NewHeader(l.title(), l.source, l.headerParams()...).SetWidth(printer.Width()).Render())
	b.WriteString("\n")
	opts.Width = printer.Width()
	body, _ := host.Render(l.table, opts)
	b.WriteString(body)
	if showSummary {
		b.WriteString("\n\n")
		b.WriteString(ui.Summarize(l.table.Snapshot()).Render(printer.Width()))
	}

	// Through Bubble Tea on a terminal so colour detection matches browse.
	if ui.IsTerminal() && cmd.OutOrStdout() == os.Stdout {
		return ui.RenderOnce(b.String() + "\n")
	}
	printer.Println(b.String())
	return nil
}

// indexCmd prints the section index titles
var indexCmd = &cobra.Command{
	Use:   "index [title]",
	Short: "Print the section index, or tap one of its titles",
	Long: `Print the sticky index titles built from the first letter of every row
title in the indexed section, sorted and de-duplicated for the table's locale.

With a title argument, tap that index title: the last row sorting before it
is selected, and the command reports which row that was.`,
	Example: `  tablekit index
  tablekit index M`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	host := ui.NewTerminalHost()
	l, err := buildTable(table.WithHost(host))
	if err != nil {
		return err
	}

	section, ok := l.table.SectionForIndex()
	if !ok {
		return fmt.Errorf("the definition has no index_section")
	}

	titles := l.table.SectionIndexTitles()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		fmt.Fprintf(out, "Index of section %d (%d titles):\n", section, len(titles))
		fmt.Fprintln(out, strings.Join(titles, " "))
		return nil
	}

	title := args[0]
	position := -1
	for i, t := range titles {
		if t == title {
			position = i
			break
		}
	}

	l.table.SectionForSectionIndexTitle(title, position)
	for path := range selectedPaths(host, l.table) {
		row, err := l.table.InfoFor(path)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%s selects %s %s\n", title, path, derefTitle(row.ResolvedTitle()))
	}
	return nil
}

// selectedPaths yields the rows host currently shows as selected.
func selectedPaths(host *ui.TerminalHost, t *table.Table) func(func(table.IndexPath) bool) {
	return func(yield func(table.IndexPath) bool) {
		for s := 0; s < t.NumberOfSections(); s++ {
			for r := 0; r < t.NumberOfRows(s); r++ {
				path := table.IndexPath{Section: s, Row: r}
				if host.IsSelected(path) && !yield(path) {
					return
				}
			}
		}
	}
}

func derefTitle(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// browseCmd launches the interactive browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the table interactively",
	Long: `Browse the table in the terminal.

Tapping rows runs their handlers: preference rows toggle and are saved to
the config file on exit, deletable rows can be removed and section toggles
show or hide their section.`,
	Example: `  tablekit browse
  # Or simply (browse is default):
  tablekit

  tablekit browse -d settings.yaml`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	host := ui.NewTerminalHost()
	dispatcher := browser.NewDispatcher()

	l, err := buildTable(table.WithHost(host), table.WithDispatcher(dispatcher))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := browser.New(browser.Options{
		Title:      l.title(),
		Table:      l.table,
		Host:       host,
		Dispatcher: dispatcher,
	})
	if err := browser.Run(ctx, model); err != nil && ctx.Err() == nil {
		return fmt.Errorf("browser error: %w", err)
	}

	if l.definition.UsesPreferences() {
		if err := saveRegistry(l.registry); err != nil {
			return fmt.Errorf("failed to save preferences: %w", err)
		}
		logging.Info("Preferences saved", zap.Int("count", l.registry.PreferenceCount()))
	}
	return nil
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or reset stored preferences",
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return newPrinter(cmd).PrintJSON(reg.Preferences)
	},
}

var assumeYes bool

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every stored preference",
	RunE:  runPrefsReset,
}

func init() {
	prefsResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runPrefsReset(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	printer := newPrinter(cmd)
	count := reg.PreferenceCount()
	if count == 0 {
		printer.PrintWarning("No preferences stored")
		return nil
	}

	if !assumeYes && !ui.ConfirmPreferenceReset(cmd.InOrStdin(), cmd.OutOrStdout(), count) {
		return nil
	}

	removed := reg.ResetPreferences()
	if err := saveRegistry(reg); err != nil {
		printer.PrintError("Reset failed", err, "Check that the config directory is writable")
		return err
	}

	printer.PrintSuccess("Preferences reset", ui.Param{Key: "Removed", Value: fmt.Sprintf("%d", removed)})
	return nil
}
