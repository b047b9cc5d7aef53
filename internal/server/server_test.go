package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muurk/gymlog/internal/store"
)

func TestNew_RequiresCertAndKeyTogether(t *testing.T) {
	repo, err := store.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer func() { _ = repo.Close() }()

	tests := []struct {
		name   string
		config Config
	}{
		{"cert only", Config{CertPath: "server.crt"}},
		{"key only", Config{KeyPath: "server.key"}},
		{"missing files", Config{CertPath: "/nonexistent/server.crt", KeyPath: "/nonexistent/server.key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(&tt.config, repo); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestNew_NormalizesBasePath(t *testing.T) {
	repo, err := store.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer func() { _ = repo.Close() }()

	config := &Config{BasePath: "gym/"}
	srv, err := New(config, repo)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = srv.Shutdown(context.Background()) }()

	if config.BasePath != "/gym" {
		t.Errorf("BasePath = %q, want /gym", config.BasePath)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	repo, err := store.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer func() { _ = repo.Close() }()

	srv, err := New(&Config{Host: "127.0.0.1", Port: 0, BasePath: "/gym"}, repo)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	addr, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Serve() }()

	resp, err := http.Get(fmt.Sprintf("http://%s/gym/records/page?page=0&size=5", addr))
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	if got := srv.GetActiveConnections(); got != 0 {
		t.Errorf("GetActiveConnections() = %d, want 0", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after Shutdown")
	}
}

func TestGetTLSInfo(t *testing.T) {
	if info := GetTLSInfo(nil); info["enabled"] != false {
		t.Errorf("GetTLSInfo(nil) = %v", info)
	}

	info := GetTLSInfo(&tls.Config{MinVersion: tls.VersionTLS12})
	if info["enabled"] != true || info["min_version"] != "TLS 1.2" || info["num_certs"] != 0 {
		t.Errorf("GetTLSInfo() = %v", info)
	}
}

func TestNewTLSConfig_RejectsUnreadablePair(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	if _, err := NewTLSConfig(cert, key); err == nil {
		t.Error("NewTLSConfig() with missing files: error = nil, want error")
	}

	for _, f := range []string{cert, key} {
		if err := os.WriteFile(f, []byte("not pem"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := NewTLSConfig(cert, key); err == nil {
		t.Error("NewTLSConfig() with garbage files: error = nil, want error")
	}
}
