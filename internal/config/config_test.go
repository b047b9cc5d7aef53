package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is Linux only")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if dir != "/tmp/xdg/gymlog" {
		t.Errorf("GetConfigDir() = %q, want /tmp/xdg/gymlog", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/lifter")
	dir, err = GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if dir != "/home/lifter/.config/gymlog" {
		t.Errorf("GetConfigDir() = %q, want /home/lifter/.config/gymlog", dir)
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", path)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Server.URL != DefaultServerURL || cfg.Server.BasePath != "/gym" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if !cfg.Server.LiveRefresh {
		t.Error("LiveRefresh should default to true")
	}
	if cfg.Display.RowsPerPage != 5 || cfg.Display.SearchRowsPerPage != 10 {
		t.Errorf("Display = %+v", cfg.Display)
	}
	if cfg.Display.DateFormat != "2006/01/02" {
		t.Errorf("DateFormat = %q", cfg.Display.DateFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "full file",
			yaml: `
version: 1
server:
  url: https://gym.example.com
  base_path: /api/gym
  request_timeout: 3s
  live_refresh: false
display:
  rows_per_page: 8
  search_rows_per_page: 20
  date_format: "02 Jan 2006"
discovery:
  auto_discover: true
  timeout: 2s
log_file: /var/log/gymlog.log
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.URL != "https://gym.example.com" || cfg.Server.BasePath != "/api/gym" {
					t.Errorf("Server = %+v", cfg.Server)
				}
				if cfg.Server.RequestTimeout != 3*time.Second || cfg.Server.LiveRefresh {
					t.Errorf("Server = %+v", cfg.Server)
				}
				if cfg.Display.RowsPerPage != 8 || cfg.Display.SearchRowsPerPage != 20 {
					t.Errorf("Display = %+v", cfg.Display)
				}
				if !cfg.Discovery.AutoDiscover || cfg.Discovery.Timeout != 2*time.Second {
					t.Errorf("Discovery = %+v", cfg.Discovery)
				}
				if cfg.LogFile != "/var/log/gymlog.log" {
					t.Errorf("LogFile = %q", cfg.LogFile)
				}
			},
		},
		{
			name: "partial file gets defaults",
			yaml: "display:\n  rows_per_page: 7\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Version != CurrentVersion {
					t.Errorf("Version = %d", cfg.Version)
				}
				if cfg.Display.RowsPerPage != 7 || cfg.Display.SearchRowsPerPage != 10 {
					t.Errorf("Display = %+v", cfg.Display)
				}
				if cfg.Server.URL != DefaultServerURL || cfg.Server.BasePath != "/gym" {
					t.Errorf("Server = %+v", cfg.Server)
				}
				if cfg.Discovery.Timeout != DefaultDiscoveryTimeout {
					t.Errorf("Discovery = %+v", cfg.Discovery)
				}
			},
		},
		{
			name: "empty document",
			yaml: "",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Display.RowsPerPage != DefaultRowsPerPage {
					t.Errorf("RowsPerPage = %d", cfg.Display.RowsPerPage)
				}
			},
		},
		{
			name:    "future version",
			yaml:    "version: 2\n",
			wantErr: "unsupported config version",
		},
		{
			name:    "bad scheme",
			yaml:    "server:\n  url: ftp://gym\n",
			wantErr: "scheme must be http or https",
		},
		{
			name:    "missing host",
			yaml:    "server:\n  url: http://\n",
			wantErr: "missing host",
		},
		{
			name:    "too many rows",
			yaml:    "display:\n  rows_per_page: 500\n",
			wantErr: "display.rows_per_page",
		},
		{
			name:    "negative search rows",
			yaml:    "display:\n  search_rows_per_page: -1\n",
			wantErr: "display.search_rows_per_page",
		},
		{
			name:    "malformed yaml",
			yaml:    "server: [",
			wantErr: "failed to parse",
		},
		{
			name:    "bad duration",
			yaml:    "server:\n  request_timeout: soon\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Display.RowsPerPage != DefaultRowsPerPage {
		t.Errorf("RowsPerPage = %d", cfg.Display.RowsPerPage)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := New()
	cfg.Server.URL = "http://10.0.0.5:9000"
	cfg.Server.RequestTimeout = 4 * time.Second
	cfg.Display.RowsPerPage = 12
	cfg.Discovery.AutoDiscover = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# gymlog client configuration") {
		t.Errorf("missing header:\n%s", data)
	}
	if !strings.Contains(string(data), "request_timeout: 4s") {
		t.Errorf("durations should be written as text:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.URL != cfg.Server.URL || loaded.Server.RequestTimeout != cfg.Server.RequestTimeout {
		t.Errorf("Server = %+v, want %+v", loaded.Server, cfg.Server)
	}
	if loaded.Display.RowsPerPage != 12 || !loaded.Discovery.AutoDiscover {
		t.Errorf("loaded = %+v %+v", loaded.Display, loaded.Discovery)
	}
}

func TestLogPath(t *testing.T) {
	cfg := New()
	cfg.LogFile = "/tmp/custom.log"
	if got, _ := cfg.LogPath(); got != "/tmp/custom.log" {
		t.Errorf("LogPath() = %q", got)
	}

	cfg.LogFile = ""
	got, err := cfg.LogPath()
	if err != nil {
		t.Fatalf("LogPath() error = %v", err)
	}
	if filepath.Base(got) != "gymlog.log" {
		t.Errorf("LogPath() = %q, want .../gymlog.log", got)
	}
}
