// Tablekit drives sectioned table views from YAML definitions.
//
// It renders a table once, browses it interactively in the terminal, or
// serves it to remote viewers over WebSocket, with the table's tap, delete
// and index handlers running exactly as they would under a list widget.
//
// Usage:
//
//	tablekit [command] [flags]
//
// Running without arguments browses the configured definition.
// See 'tablekit --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel       string
	definitionPath string
	configPath     string
)

var rootCmd = &cobra.Command{
	Use:   "tablekit",
	Short: "Sectioned table view toolkit",
	Long: `Render, browse and serve sectioned table views described in YAML.

A definition lists sections and rows with their styling, accessories and
actions (preference toggles, deletion, section toggles). Attributes set on
the table or a section apply to every row below it unless a row overrides
them.

If no command is specified, the interactive browser launches.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: browse when no subcommand provided
		return runBrowse(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().StringVarP(&definitionPath, "definition", "d", "", "Table definition file (default: settings, then built-in sample)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: OS config dir)")

	rootCmd.AddCommand(versionCmd)
}

// initLogging applies --log-level, then TABLEKIT_LOG_LEVEL, then the
// configured log level.
func initLogging() error {
	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		if reg, err := loadRegistry(); err == nil && reg.Settings != nil {
			level = reg.Settings.LogLevel
		}
	}
	if err := logging.Initialize(level); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFormat == "json" {
			return newPrinter(cmd).PrintJSON(version.Get())
		}
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "tablekit %s (commit: %s, %s, %s)\n", info.Version, info.Commit, info.GoVersion, info.Platform)
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "text", "Output format (text, json)")
}
