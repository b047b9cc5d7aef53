package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Server represents a record server found on the local network
type Server struct {
	// Instance is the advertised service instance name (e.g., "gymlog on rack-pi")
	Instance string

	// Hostname is the mDNS hostname (e.g., "rack-pi.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 when the server has none
	IP string

	// Port is the HTTP port
	Port int

	// BasePath is the API prefix from the "path" TXT record
	BasePath string

	// TLS is true when the server advertised "tls=1"
	TLS bool

	// Metadata contains every mDNS TXT record
	// Common fields: "path=/gym", "version=v0.3.0", "tls=0"
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Hostname, s.BaseURL())
}

// BaseURL returns the HTTP base URL for the server
func (s *Server) BaseURL() string {
	scheme := "http"
	if s.TLS {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
