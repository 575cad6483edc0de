package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/muurk/tablekit/internal/config"
	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/table"
	"github.com/muurk/tablekit/internal/ui"
)

const sampleSource = "built-in sample"

// loadRegistry reads --config, or the registry in the OS config dir.
func loadRegistry() (*config.Registry, error) {
	if configPath != "" {
		return config.LoadRegistryFrom(configPath)
	}
	return config.LoadRegistry()
}

// saveRegistry writes reg back to where loadRegistry read it from.
func saveRegistry(reg *config.Registry) error {
	if configPath != "" {
		return reg.SaveTo(configPath)
	}
	return reg.Save()
}

// loadDefinition resolves the definition to use: --definition, then the
// configured default, then the built-in sample. It returns where it came from.
func loadDefinition(reg *config.Registry) (*config.Definition, string, error) {
	path := definitionPath
	if path == "" && reg != nil && reg.Settings != nil {
		path = reg.Settings.DefinitionFile
	}

	if path == "" {
		def, err := config.SampleDefinition()
		if err != nil {
			return nil, "", fmt.Errorf("failed to load sample definition: %w", err)
		}
		return def, sampleSource, nil
	}

	def, err := config.LoadDefinition(path)
	if err != nil {
		return nil, "", err
	}
	return def, path, nil
}

// loaded is a table ready for a host, with what it was built from.
type loaded struct {
	registry   *config.Registry
	definition *config.Definition
	source     string
	table      *table.Table
}

// buildTable loads the registry and definition and builds the table with
// opts, which attach the host and dispatcher.
func buildTable(opts ...table.Option) (*loaded, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	def, source, err := loadDefinition(reg)
	if err != nil {
		return nil, err
	}

	// The definition's own locale wins over the configured one.
	if def.Locale == "" && reg.Settings != nil && reg.Settings.Locale != "" {
		tag, err := language.Parse(reg.Settings.Locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale in settings: %w", err)
		}
		opts = append([]table.Option{table.WithLocale(tag)}, opts...)
	}

	t, err := def.Build(reg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	logging.Info("Table loaded",
		zap.String("source", source),
		zap.Int("sections", t.NumberOfSections()),
		zap.Int("rows", def.RowCount()),
	)

	return &loaded{registry: reg, definition: def, source: source, table: t}, nil
}

func (l *loaded) title() string {
	if l.definition.Title != "" {
		return l.definition.Title
	}
	return "Table"
}

// headerParams are the facts shown under the banner.
func (l *loaded) headerParams() []ui.Param {
	params := []ui.Param{
		{Key: "Sections", Value: fmt.Sprintf("%d", l.table.NumberOfSections())},
		{Key: "Rows", Value: fmt.Sprintf("%d", l.definition.RowCount())},
	}
	if section, ok := l.table.SectionForIndex(); ok {
		params = append(params, ui.Param{Key: "Index", Value: fmt.Sprintf("section %d", section)})
	}
	return params
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}
