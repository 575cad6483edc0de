package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Bridge represents a tablekit bridge found on the network
type Bridge struct {
	// Instance is the advertised mDNS instance name (e.g., "kitchen-laptop")
	Instance string

	// Hostname is the mDNS hostname (e.g., "kitchen-laptop.local.")
	Hostname string

	// IP is the address to connect to, IPv4 when one was advertised
	IP string

	// Port is the bridge's HTTP port
	Port int

	// Metadata contains the TXT record data
	// Common fields: "version=v1.0.0", "title=Settings", "path=/ws", "scheme=wss"
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	if title := b.GetMetadata("title"); title != "" {
		return fmt.Sprintf("Bridge %s %q at %s", b.Instance, title, b.Addr())
	}
	return fmt.Sprintf("Bridge %s at %s", b.Instance, b.Addr())
}

// Addr returns host:port, bracketing IPv6 addresses
func (b *Bridge) Addr() string {
	return net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
}

// URL returns the WebSocket URL viewers connect to
func (b *Bridge) URL() string {
	path := b.GetMetadata("path")
	if path == "" {
		path = DefaultPath
	}
	scheme := b.GetMetadata("scheme")
	if scheme == "" {
		scheme = "ws"
	}
	return scheme + "://" + b.Addr() + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
