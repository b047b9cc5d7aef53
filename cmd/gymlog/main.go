// Gymlog is a terminal client for a remote exercise log.
//
// It browses, searches and edits records held by a gymlog record server (or
// any server speaking the same HTTP+JSON contract). Records are paged by the
// server; the client never caches more than the page on screen.
//
// Usage:
//
//	gymlog [command] [flags]
//
// Running without arguments launches the interactive browser.
// See 'gymlog --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/gymlog/internal/config"
	"github.com/muurk/gymlog/internal/discovery"
	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/records"
	"github.com/muurk/gymlog/internal/ui"
	"github.com/muurk/gymlog/internal/urls"
	"github.com/muurk/gymlog/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError reports a failed command, with a hint for record store errors
func printError(err error) {
	var recErr *records.Error
	if !errors.As(err, &recErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	p := ui.NewPrinter(os.Stderr)
	p.PrintError("Request failed", err, []string{
		records.GetShortErrorMessage(err),
		records.GetTroubleshootingHint(err),
		"Guide: " + urls.TroubleshootingGuide,
	})
}

// Global flags
var (
	configPath  string
	serverURL   string
	basePath    string
	rowsPerPage int
	searchRows  int
	timeout     time.Duration
	logLevel    string
	logFilePath string
	discover    bool
)

// cfg is the effective configuration: the file with flags applied
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gymlog",
	Short: "Exercise log client",
	Long: `A terminal client for a remote exercise log.

Browse, search, add, edit and delete records kept by a gymlog record server.
Pages are fetched from the server on demand.

If no command is specified, the interactive browser will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the browser when no subcommand provided
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default is <config dir>/gymlog/config.yaml)")
	flags.StringVarP(&serverURL, "server", "s", "", "Record server URL, e.g. http://localhost:8080")
	flags.StringVar(&basePath, "base-path", "", `API prefix on the server (default "/gym", "/" for none)`)
	flags.IntVar(&rowsPerPage, "rows", 0, "Records per page")
	flags.IntVar(&searchRows, "search-rows", 0, "Search results per page")
	flags.DurationVar(&timeout, "timeout", 0, "Per-request timeout, e.g. 5s")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off by default")
	flags.StringVar(&logFilePath, "log-file", "", "Log file (default is <config dir>/gymlog/gymlog.log)")
	flags.BoolVar(&discover, "discover", false, "Find the record server with mDNS instead of --server")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration, applies flag overrides and starts logging
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server.URL = serverURL
	}
	if flags.Changed("base-path") {
		cfg.Server.BasePath = basePath
	}
	if flags.Changed("rows") {
		cfg.Display.RowsPerPage = rowsPerPage
	}
	if flags.Changed("search-rows") {
		cfg.Display.SearchRowsPerPage = searchRows
	}
	if flags.Changed("timeout") {
		cfg.Server.RequestTimeout = timeout
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFilePath
	}
	if flags.Changed("discover") {
		cfg.Discovery.AutoDiscover = discover
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	return initLogging()
}

// initLogging points the logger at the log file. The terminal belongs to
// the command output or the browser, so logs never go to stdout.
func initLogging() error {
	level := logLevel
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" {
		return logging.InitializeWithOptions(logging.Options{})
	}

	path, err := cfg.LogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return logging.InitializeWithOptions(logging.Options{Level: level, OutputPath: path})
}

// newClient builds the record client, resolving the server over mDNS first
// when discovery is on
func newClient(ctx context.Context) (*records.Client, error) {
	base := cfg.Server.URL
	path := cfg.Server.BasePath

	if cfg.Discovery.AutoDiscover {
		srv, err := discovery.FindServer(ctx, cfg.Discovery.Timeout)
		if err != nil {
			return nil, fmt.Errorf("discovery failed: %w", err)
		}
		logging.Info("Using discovered server", zap.String("server", srv.String()))
		base = srv.BaseURL()
		if srv.BasePath != "" {
			path = srv.BasePath
		}
	}

	client := records.NewClient(base)
	client.SetTimeout(cfg.Server.RequestTimeout)
	client.SetBasePath(path)
	return client, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config or logging needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gymlog %s (commit: %s)\n", version.Version, version.Commit)
	},
}
