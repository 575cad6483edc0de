package discovery

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/logging"
)

const (
	// ServiceType is the mDNS service type bridges advertise
	ServiceType = "_tablekit._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPath is the WebSocket path when the TXT record has none
	DefaultPath = "/ws"
)

// escapePattern matches DNS-SD escapes in instance names (e.g., "Kitchen\ Laptop")
var escapePattern = regexp.MustCompile(`\\(.)`)

// Scanner handles mDNS bridge discovery
type Scanner struct {
	// Timeout is the maximum time to wait for bridges to answer
	Timeout time.Duration

	// browse is replaced in tests
	browse func(ctx context.Context, entries chan<- *zeroconf.ServiceEntry) error
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		browse:  browseZeroconf,
	}
}

func browseZeroconf(ctx context.Context, entries chan<- *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// Scan discovers every bridge that answers before the timeout. Bridges that
// answer more than once are reported once, sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	var mu sync.Mutex
	found := make(map[string]*Bridge)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			bridge := s.parseServiceEntry(entry)
			if bridge == nil {
				continue
			}
			mu.Lock()
			if _, seen := found[bridge.Instance]; !seen {
				logging.Debug("Bridge discovered", zap.String("bridge", bridge.String()))
			}
			found[bridge.Instance] = bridge
			mu.Unlock()
		}
	}()

	if err := s.browse(ctx, entries); err != nil {
		return nil, err
	}

	// Wait for timeout or cancellation; the resolver closes entries after.
	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	bridges := make([]*Bridge, 0, len(found))
	for _, b := range found {
		bridges = append(bridges, b)
	}
	sort.Slice(bridges, func(i, j int) bool {
		return bridges[i].Instance < bridges[j].Instance
	})
	return bridges, nil
}

// WaitFor returns as soon as the bridge named instance answers.
func (s *Scanner) WaitFor(ctx context.Context, instance string) (*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	bridgeChan := make(chan *Bridge, 1)

	go func() {
		for entry := range entries {
			bridge := s.parseServiceEntry(entry)
			if bridge != nil && bridge.Instance == instance {
				select {
				case bridgeChan <- bridge:
				default:
				}
				cancel()
			}
		}
	}()

	if err := s.browse(ctx, entries); err != nil {
		return nil, err
	}

	select {
	case bridge := <-bridgeChan:
		return bridge, nil
	case <-ctx.Done():
		select {
		case bridge := <-bridgeChan:
			return bridge, nil
		default:
		}
		return nil, fmt.Errorf("bridge %s not found within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Bridge.
// Returns nil if the entry has no name or no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Bridge {
	if entry == nil || entry.Instance == "" {
		return nil
	}
	instance := escapePattern.ReplaceAllString(entry.Instance, "$1")

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" || entry.Port == 0 {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Bridge{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
