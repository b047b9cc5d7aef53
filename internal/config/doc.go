// Package config provides the client configuration for gymlog.
//
// The configuration is a versioned YAML file holding the record server
// location, table page sizes and discovery preferences. Command line flags
// override every value.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/gymlog/config.yaml or $HOME/.config/gymlog/config.yaml
//   - macOS: $HOME/.config/gymlog/config.yaml
//   - Windows: %LOCALAPPDATA%\gymlog\config.yaml
//
// # File Format
//
//	version: 1
//	server:
//	  url: http://localhost:8080
//	  base_path: /gym
//	  request_timeout: 10s
//	  live_refresh: true
//	display:
//	  rows_per_page: 5
//	  search_rows_per_page: 10
//	  date_format: 2006/01/02
//	discovery:
//	  auto_discover: false
//	  timeout: 5s
//
// Missing sections and fields take their defaults. Durations use Go syntax
// ("500ms", "10s").
//
// # Usage Example
//
//	cfg, err := config.LoadDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Display.RowsPerPage = 8
//
//	// Save changes atomically
//	if _, err := cfg.SaveDefault(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Save serializes writers within the process. The file is written to a
// temporary path and renamed, so readers never see a partial file.
package config
