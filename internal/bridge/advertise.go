package bridge

import (
	"fmt"
	"os"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/discovery"
	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/version"
)

// Advertiser publishes a running bridge over mDNS.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the bridge on port under instance. An empty instance
// uses the hostname.
func Advertise(instance string, port int, title string, secure bool) (*Advertiser, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "tablekit"
		}
		instance = host
	}

	txt := []string{
		"version=" + version.Version,
		"path=" + discovery.DefaultPath,
	}
	if title != "" {
		txt = append(txt, "title="+title)
	}
	if secure {
		txt = append(txt, "scheme=wss")
	}

	server, err := zeroconf.Register(instance, discovery.ServiceType, discovery.ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising bridge over mDNS",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", port),
	)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the advertisement.
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Debug("mDNS advertisement withdrawn")
}
