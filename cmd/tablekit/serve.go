package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/bridge"
	"github.com/muurk/tablekit/internal/discovery"
	"github.com/muurk/tablekit/internal/dispatch"
	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/table"
	"github.com/muurk/tablekit/internal/ui"
)

// Serve command flags
var (
	serveHost     string
	servePort     int
	advertise     bool
	instanceName  string
	scanTimeout   int
	scanFormat    string
	noSaveBridges bool
	certPath      string
	keyPath       string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the table to remote viewers over WebSocket",
	Long: `Serve the table over WebSocket so remote viewers can draw it.

Every host request the table makes (reload, delete rows, select, deselect,
index reload) is sent to connected viewers as a JSON event. Viewers send
back tap, accessory, delete and index_title commands, which run on the
table's control goroutine exactly as local input would.

Routes:
  /ws        event stream and command channel
  /snapshot  current resolved snapshot as JSON
  /healthz   liveness and viewer count`,
	Example: `  # Serve on the configured port and advertise over mDNS
  tablekit serve

  # Serve a specific definition on port 9000 without mDNS
  tablekit serve -d settings.yaml --port 9000 --advertise=false

  # Serve wss:// with your own certificate
  tablekit serve --cert fullchain.pem --key privkey.pem

  # Verbose logging of every event and command
  tablekit serve --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default: settings bridge_port)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", true, "Advertise the bridge over mDNS (default: settings advertise)")
	serveCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (default: hostname)")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "TLS certificate file; serves wss:// together with --key")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "TLS private key file")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath == "") != (keyPath == "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}

	loop := dispatch.NewLoop(256)
	hub := bridge.NewHub(loop)

	l, err := buildTable(table.WithHost(hub), table.WithDispatcher(loop))
	if err != nil {
		return err
	}
	hub.Bind(l.table)
	// Apply the initial update before anyone can connect.
	loop.Drain()

	settings := l.registry.Settings
	port := servePort
	if port == 0 && settings != nil {
		port = settings.BridgePort
	}
	adv := advertise
	if !cmd.Flags().Changed("advertise") && settings != nil {
		adv = settings.Advertise
	}

	srv := bridge.New(&bridge.Config{
		Host:      serveHost,
		Port:      port,
		Advertise: adv,
		Instance:  instanceName,
		Title:     l.title(),
		CertPath:  certPath,
		KeyPath:   keyPath,
	}, hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.NewPrinter(cmd.OutOrStdout()).PrintHeader(l.title(), l.source,
		append(l.headerParams(),
			ui.Param{Key: "Listen", Value: fmt.Sprintf("%s:%d", serveHost, port)},
			ui.Param{Key: "Advertise", Value: fmt.Sprintf("%v", adv)},
		)...,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
		stop()
	}()

	// The calling goroutine is the table's control goroutine from here on.
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if err := <-errChan; err != nil {
		return fmt.Errorf("bridge error: %w", err)
	}

	if l.definition.UsesPreferences() {
		if err := saveRegistry(l.registry); err != nil {
			return fmt.Errorf("failed to save preferences: %w", err)
		}
	}
	return nil
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for bridges on the network",
	Long: `Scan for running bridges using mDNS/DNS-SD discovery.

Bridges started with 'tablekit serve' advertise themselves as
_tablekit._tcp services. Each bridge found is remembered in the config file
with its last address.`,
	Example: `  # Scan using the configured timeout
  tablekit scan

  # Longer scan, JSON output
  tablekit scan --timeout 15 --format json`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default: settings scan_timeout)")
	scanCmd.Flags().StringVar(&scanFormat, "format", "detailed", "Output format (detailed, json)")
	scanCmd.Flags().BoolVar(&noSaveBridges, "no-save", false, "Do not record found bridges in the config file")
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	timeout := scanTimeout
	if timeout <= 0 && reg.Settings != nil {
		timeout = reg.Settings.ScanTimeout
	}
	if timeout <= 0 {
		timeout = int(discovery.DefaultScanTimeout / time.Second)
	}

	printer := newPrinter(cmd)
	if scanFormat != "json" {
		printer.Println(fmt.Sprintf("Scanning for bridges (timeout: %ds)...", timeout))
		printer.Newline()
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(timeout) * time.Second

	bridges, err := scanner.Scan(cmd.Context())
	if err != nil {
		printer.PrintError("Scan failed", err,
			"Check that multicast is allowed on this network",
			"Firewalls must allow mDNS (UDP port 5353)",
		)
		return err
	}

	if !noSaveBridges && len(bridges) > 0 {
		for _, b := range bridges {
			reg.UpdateBridgeLastSeen(b.Instance, b.Addr())
		}
		if err := saveRegistry(reg); err != nil {
			logging.Warn("Failed to record bridges", zap.Error(err))
		}
	}

	if scanFormat == "json" {
		return printer.PrintJSON(bridges)
	}

	if len(bridges) == 0 {
		printer.PrintWarning("No bridges found")
		printer.Println("Troubleshooting:")
		printer.Println("  - Ensure 'tablekit serve' is running with --advertise")
		printer.Println("  - Verify both machines are on the same network segment")
		printer.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	printer.Println(fmt.Sprintf("Found %d bridge(s):", len(bridges)))
	printer.Newline()
	for i, b := range bridges {
		name := b.Instance
		if saved := reg.GetBridge(b.Instance); saved != nil && saved.Nickname != "" {
			name = fmt.Sprintf("%s (%s)", saved.Nickname, b.Instance)
		}
		printer.Println(fmt.Sprintf("%d. %s", i+1, name))
		printer.Println(fmt.Sprintf("   URL:      %s", b.URL()))
		if title := b.GetMetadata("title"); title != "" {
			printer.Println(fmt.Sprintf("   Title:    %s", title))
		}
		if v := b.GetMetadata("version"); v != "" {
			printer.Println(fmt.Sprintf("   Version:  %s", v))
		}
		printer.Newline()
	}
	return nil
}
