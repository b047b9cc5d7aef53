package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/gymlog/internal/logging"
	"go.uber.org/zap"
)

// Advertisement describes how a record server announces itself
type Advertisement struct {
	Instance string
	Port     int
	BasePath string
	Version  string
	TLS      bool
}

// TXT returns the TXT records for a
func (a Advertisement) TXT() []string {
	tls := "0"
	if a.TLS {
		tls = "1"
	}
	return []string{
		TxtPath + "=" + a.BasePath,
		TxtVersion + "=" + a.Version,
		TxtTLS + "=" + tls,
	}
}

// Advertiser keeps an mDNS registration alive until Shutdown
type Advertiser struct {
	server *zeroconf.Server
}

// Register announces a record server on every multicast interface
func Register(a Advertisement) (*Advertiser, error) {
	if a.Instance == "" {
		return nil, fmt.Errorf("advertisement needs an instance name")
	}
	if a.Port <= 0 {
		return nil, fmt.Errorf("advertisement needs a port, got %d", a.Port)
	}

	srv, err := zeroconf.Register(a.Instance, ServiceType, ServiceDomain, a.Port, a.TXT(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising record server",
		zap.String("instance", a.Instance),
		zap.String("service", ServiceType),
		zap.Int("port", a.Port),
		zap.String("path", a.BasePath),
	)

	return &Advertiser{server: srv}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Debug("mDNS advertisement withdrawn")
}
