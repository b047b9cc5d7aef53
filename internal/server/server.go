package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/muurk/gymlog/internal/discovery"
	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/store"
	"github.com/muurk/gymlog/internal/urls"
	"github.com/muurk/gymlog/internal/version"
	"go.uber.org/zap"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	BasePath string // API prefix, e.g. "/gym"
	CertPath string // TLS certificate (optional, plain HTTP without it)
	KeyPath  string // TLS private key (required with CertPath)
	LogLevel string

	// Advertise registers the server over mDNS under InstanceName
	Advertise    bool
	InstanceName string
}

// Server serves the record API and change feed
type Server struct {
	config     *Config
	repo       store.Repository
	hub        *Hub
	httpServer *http.Server
	tlsConfig  *tls.Config
	advertiser *discovery.Advertiser

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server on top of repo. The caller keeps ownership of repo.
func New(config *Config, repo store.Repository) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	var tlsConfig *tls.Config
	switch {
	case config.CertPath != "" && config.KeyPath != "":
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	case config.CertPath != "" || config.KeyPath != "":
		return nil, errors.New("TLS needs both a certificate and a key")
	}

	config.BasePath = urls.NormalizeBasePath(config.BasePath)

	hub := NewHub()
	s := &Server{
		config:    config,
		repo:      repo,
		hub:       hub,
		tlsConfig: tlsConfig,
	}
	s.httpServer = &http.Server{
		Handler:           NewRouter(repo, hub, config.BasePath),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Hub returns the change feed hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() (net.Addr, error) {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return listener.Addr(), nil
}

// Serve accepts connections until Shutdown. It binds first if Listen has
// not been called.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		listener = s.listener
		s.mu.Unlock()
	}

	scheme := "http"
	if s.tlsConfig != nil {
		scheme = "https"
	}
	logging.Info("Record server listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("scheme", scheme),
		zap.String("base_path", s.config.BasePath),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
	)

	if s.config.Advertise {
		s.advertise(listener.Addr())
	}

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Start starts the server and blocks until SIGINT/SIGTERM or a serve error
func (s *Server) Start() error {
	logging.Info("Starting gymlog record server",
		zap.String("version", version.Version),
		zap.String("host", s.config.Host),
		zap.Int("port", s.config.Port),
	)

	if _, err := s.Listen(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	}
}

func (s *Server) advertise(addr net.Addr) {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return
	}

	instance := s.config.InstanceName
	if instance == "" {
		host, _ := os.Hostname()
		instance = "gymlog on " + host
	}

	adv, err := discovery.Register(discovery.Advertisement{
		Instance: instance,
		Port:     tcp.Port,
		BasePath: s.config.BasePath,
		Version:  version.Version,
		TLS:      s.tlsConfig != nil,
	})
	if err != nil {
		// The API still works without discovery
		logging.Warn("mDNS advertisement failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.advertiser = adv
	s.mu.Unlock()
}

// Shutdown stops advertising, disconnects feed clients and drains in-flight
// requests
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.mu.Lock()
	adv := s.advertiser
	s.advertiser = nil
	s.mu.Unlock()
	adv.Shutdown()

	// Hijacked websocket connections are not tracked by http.Server
	s.hub.Close()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	} else {
		logging.Info("All connections closed gracefully")
	}

	logging.Sync()
	return err
}

// GetActiveConnections returns the number of change feed subscribers
func (s *Server) GetActiveConnections() int {
	return s.hub.Clients()
}
