package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/gymlog/internal/config"
	"github.com/muurk/gymlog/internal/discovery"
	"github.com/muurk/gymlog/internal/ui"
)

var (
	scanWait   time.Duration
	forceWrite bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// scanCmd lists record servers on the local network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for record servers on the network",
	Long: `Scan for gymlog record servers using mDNS/DNS-SD discovery.

Servers started with --advertise announce themselves as _gymlog._tcp.`,
	Example: `  # Scan for the configured discovery timeout
  gymlog scan

  # Longer scan for slow networks
  gymlog scan --wait 15s`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanWait, "wait", 0, "How long to listen (default from config, 5s)")
}

func runScan(cmd *cobra.Command, args []string) error {
	wait := cfg.Discovery.Timeout
	if scanWait > 0 {
		wait = scanWait
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for record servers (timeout: %s)...\n\n", wait)

	servers, err := discovery.Browse(ctxOf(cmd), wait)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Fprintln(out, "No servers found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Start the server with 'gymlog-server --advertise'")
		fmt.Fprintln(out, "  - Check that this machine and the server share a network")
		fmt.Fprintln(out, "  - Try increasing --wait for slower networks")
		fmt.Fprintln(out, "  - Use --server to give the URL directly")
		return nil
	}

	fmt.Fprintf(out, "Found %d server(s):\n\n", len(servers))
	for i, srv := range servers {
		fmt.Fprintf(out, "%d. %s\n", i+1, srv.Instance)
		fmt.Fprintf(out, "   URL:       %s\n", srv.BaseURL())
		if srv.BasePath != "" {
			fmt.Fprintf(out, "   Base path: %s\n", srv.BasePath)
		}
		if v := srv.GetMetadata(discovery.TxtVersion); v != "" {
			fmt.Fprintf(out, "   Version:   %s\n", v)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Use 'gymlog --server <url>' to connect, or 'gymlog --discover'")
	return nil
}

// configCmd groups the config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the client configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to the config file",
	Long: `Write the effective settings (file values with flags applied) to the
config file. An existing file is only replaced with --force.`,
	Example: `  # Save defaults
  gymlog config init

  # Save a server and page size
  gymlog config init --server http://nas.local:8080 --rows 10 --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceWrite, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !forceWrite {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot access config file: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config saved", map[string]string{
		"Path":   path,
		"Server": cfg.Server.URL + cfg.Server.BasePath,
		"Rows":   strconv.Itoa(cfg.Display.RowsPerPage),
	}, "")
	return nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
		return nil
	},
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
