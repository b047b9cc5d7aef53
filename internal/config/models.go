package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/muurk/gymlog/internal/records"
	"github.com/muurk/gymlog/internal/urls"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Defaults
const (
	DefaultServerURL         = "http://localhost:8080"
	DefaultRowsPerPage       = 5
	DefaultSearchRowsPerPage = 10
	DefaultRequestTimeout    = 10 * time.Second
	DefaultDiscoveryTimeout  = 5 * time.Second

	// MaxRowsPerPage keeps a page on one screen
	MaxRowsPerPage = 100
)

// Config represents the entire client configuration file.
type Config struct {
	Version   int             `yaml:"version"`
	Server    *ServerPrefs    `yaml:"server,omitempty"`
	Display   *DisplayPrefs   `yaml:"display,omitempty"`
	Discovery *DiscoveryPrefs `yaml:"discovery,omitempty"`
	LogFile   string          `yaml:"log_file,omitempty"` // Empty means <config dir>/gymlog.log
}

// ServerPrefs locates the record server.
type ServerPrefs struct {
	URL            string        `yaml:"url"`             // Server root, e.g. http://localhost:8080
	BasePath       string        `yaml:"base_path"`       // API prefix, e.g. /gym ("/" for none)
	RequestTimeout time.Duration `yaml:"request_timeout"` // Per request, e.g. 10s
	LiveRefresh    bool          `yaml:"live_refresh"`    // Follow the change feed when the server offers one
}

// DisplayPrefs controls the record table.
type DisplayPrefs struct {
	RowsPerPage       int    `yaml:"rows_per_page"`
	SearchRowsPerPage int    `yaml:"search_rows_per_page"`
	DateFormat        string `yaml:"date_format"` // Go time layout
}

// DiscoveryPrefs controls mDNS lookup of record servers.
type DiscoveryPrefs struct {
	AutoDiscover bool          `yaml:"auto_discover"` // Browse on start-up instead of using Server.URL
	Timeout      time.Duration `yaml:"timeout"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version: CurrentVersion,
		Server: &ServerPrefs{
			URL:            DefaultServerURL,
			BasePath:       urls.DefaultBasePath,
			RequestTimeout: DefaultRequestTimeout,
			LiveRefresh:    true,
		},
		Display: &DisplayPrefs{
			RowsPerPage:       DefaultRowsPerPage,
			SearchRowsPerPage: DefaultSearchRowsPerPage,
			DateFormat:        records.DateLayout,
		},
		Discovery: &DiscoveryPrefs{
			Timeout: DefaultDiscoveryTimeout,
		},
	}
}

// applyDefaults fills sections and fields a hand-written file left out
func (c *Config) applyDefaults() {
	def := New()

	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Server.URL == "" {
		c.Server.URL = def.Server.URL
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = def.Server.BasePath
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = def.Server.RequestTimeout
	}

	if c.Display == nil {
		c.Display = def.Display
	}
	if c.Display.RowsPerPage == 0 {
		c.Display.RowsPerPage = def.Display.RowsPerPage
	}
	if c.Display.SearchRowsPerPage == 0 {
		c.Display.SearchRowsPerPage = def.Display.SearchRowsPerPage
	}
	if c.Display.DateFormat == "" {
		c.Display.DateFormat = def.Display.DateFormat
	}

	if c.Discovery == nil {
		c.Discovery = def.Discovery
	}
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = def.Discovery.Timeout
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url: scheme must be http or https, got %q", c.Server.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url: missing host in %q", c.Server.URL)
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}

	if err := checkRows("display.rows_per_page", c.Display.RowsPerPage); err != nil {
		return err
	}
	if err := checkRows("display.search_rows_per_page", c.Display.SearchRowsPerPage); err != nil {
		return err
	}

	if c.Discovery.Timeout < 0 {
		return fmt.Errorf("discovery.timeout must be positive")
	}
	return nil
}

func checkRows(name string, n int) error {
	if n < 1 || n > MaxRowsPerPage {
		return fmt.Errorf("%s must be between 1 and %d, got %d", name, MaxRowsPerPage, n)
	}
	return nil
}
