package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func newEntry(instance string, port int, ipv4 string, text ...string) *zeroconf.ServiceEntry {
	entry := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	entry.HostName = "host.local."
	entry.Port = port
	if ipv4 != "" {
		entry.AddrIPv4 = []net.IP{net.ParseIP(ipv4)}
	}
	entry.Text = text
	return entry
}

// fakeBrowse delivers entries then closes the channel, like the resolver
// does when its context ends.
func fakeBrowse(entries ...*zeroconf.ServiceEntry) func(context.Context, chan<- *zeroconf.ServiceEntry) error {
	return func(ctx context.Context, out chan<- *zeroconf.ServiceEntry) error {
		go func() {
			defer close(out)
			for _, e := range entries {
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}()
		return nil
	}
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
	}{
		{
			name:         "bridge with IPv4",
			entry:        newEntry("kitchen", 8787, "192.168.4.16", "path=/ws", "title=Settings"),
			wantInstance: "kitchen",
			wantIP:       "192.168.4.16",
			wantPort:     8787,
		},
		{
			name:         "escaped instance name",
			entry:        newEntry(`Kitchen\ Laptop`, 9000, "10.0.0.5"),
			wantInstance: "Kitchen Laptop",
			wantIP:       "10.0.0.5",
			wantPort:     9000,
		},
		{
			name: "IPv6 only",
			entry: func() *zeroconf.ServiceEntry {
				e := newEntry("v6", 8787, "")
				e.AddrIPv6 = []net.IP{net.ParseIP("fe80::1")}
				return e
			}(),
			wantInstance: "v6",
			wantIP:       "fe80::1",
			wantPort:     8787,
		},
		{
			name:    "no address",
			entry:   newEntry("ghost", 8787, ""),
			wantNil: true,
		},
		{
			name:    "no port",
			entry:   newEntry("portless", 0, "192.168.1.1"),
			wantNil: true,
		},
		{
			name:    "no instance",
			entry:   newEntry("", 8787, "192.168.1.1"),
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if bridge != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", bridge)
				}
				return
			}
			if bridge == nil {
				t.Fatal("parseServiceEntry() = nil, want bridge")
			}
			if bridge.Instance != tt.wantInstance {
				t.Errorf("bridge.Instance = %q, want %q", bridge.Instance, tt.wantInstance)
			}
			if bridge.IP != tt.wantIP {
				t.Errorf("bridge.IP = %q, want %q", bridge.IP, tt.wantIP)
			}
			if bridge.Port != tt.wantPort {
				t.Errorf("bridge.Port = %d, want %d", bridge.Port, tt.wantPort)
			}
			if time.Since(bridge.DiscoveredAt) > time.Second {
				t.Errorf("bridge.DiscoveredAt is not recent: %v", bridge.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	bridge := scanner.parseServiceEntry(newEntry("kitchen", 8787, "192.168.4.16", "path=/ws", "flag", "version=v1.0"))
	if bridge == nil {
		t.Fatal("parseServiceEntry() = nil, want bridge")
	}

	expectedMetadata := map[string]string{
		"path":    "/ws",
		"flag":    "", // Key without value
		"version": "v1.0",
	}

	if len(bridge.Metadata) != len(expectedMetadata) {
		t.Errorf("bridge.Metadata has %d entries, want %d", len(bridge.Metadata), len(expectedMetadata))
	}
	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := bridge.Metadata[key]; !ok {
			t.Errorf("bridge.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("bridge.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestScanner_Scan(t *testing.T) {
	scanner := NewScanner()
	scanner.Timeout = 100 * time.Millisecond
	scanner.browse = fakeBrowse(
		newEntry("zeta", 8787, "10.0.0.2"),
		newEntry("alpha", 8787, "10.0.0.1"),
		newEntry("alpha", 8788, "10.0.0.1"),
		newEntry("broken", 0, "10.0.0.3"),
	)

	bridges, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(bridges) != 2 {
		t.Fatalf("Scan() found %d bridges, want 2", len(bridges))
	}
	if bridges[0].Instance != "alpha" || bridges[1].Instance != "zeta" {
		t.Errorf("Scan() order = %s, %s; want alpha, zeta", bridges[0].Instance, bridges[1].Instance)
	}
	if bridges[0].Port != 8788 {
		t.Errorf("Expected the latest answer to win, got port %d", bridges[0].Port)
	}
}

func TestScanner_WaitFor(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		scanner := NewScanner()
		scanner.Timeout = 2 * time.Second
		scanner.browse = fakeBrowse(
			newEntry("other", 8787, "10.0.0.9"),
			newEntry("kitchen", 8787, "10.0.0.1"),
		)

		start := time.Now()
		bridge, err := scanner.WaitFor(context.Background(), "kitchen")
		if err != nil {
			t.Fatalf("WaitFor() error = %v", err)
		}
		if bridge.IP != "10.0.0.1" {
			t.Errorf("bridge.IP = %q, want 10.0.0.1", bridge.IP)
		}
		if time.Since(start) > time.Second {
			t.Error("Expected WaitFor to return before the timeout")
		}
	})

	t.Run("missing", func(t *testing.T) {
		scanner := NewScanner()
		scanner.Timeout = 50 * time.Millisecond
		scanner.browse = fakeBrowse(newEntry("other", 8787, "10.0.0.9"))

		if _, err := scanner.WaitFor(context.Background(), "kitchen"); err == nil {
			t.Error("WaitFor() error = nil, want not found")
		}
	})
}

func TestBridge(t *testing.T) {
	b := &Bridge{
		Instance: "kitchen",
		IP:       "192.168.1.20",
		Port:     8787,
		Metadata: map[string]string{"title": "Settings"},
	}

	if got := b.String(); got != `Bridge kitchen "Settings" at 192.168.1.20:8787` {
		t.Errorf("String() = %q", got)
	}
	if got := b.URL(); got != "ws://192.168.1.20:8787/ws" {
		t.Errorf("URL() = %q", got)
	}

	b.Metadata["path"] = "/events"
	if got := b.URL(); got != "ws://192.168.1.20:8787/events" {
		t.Errorf("URL() with path = %q", got)
	}

	b.Metadata["scheme"] = "wss"
	if got := b.URL(); got != "wss://192.168.1.20:8787/events" {
		t.Errorf("URL() with scheme = %q", got)
	}

	v6 := &Bridge{Instance: "v6", IP: "fe80::1", Port: 80}
	if got := v6.Addr(); got != "[fe80::1]:80" {
		t.Errorf("Addr() = %q, want bracketed IPv6", got)
	}
	if v6.GetMetadata("title") != "" {
		t.Error("Expected empty metadata for nil map")
	}
	if got := v6.String(); got != "Bridge v6 at [fe80::1]:80" {
		t.Errorf("String() = %q", got)
	}
}
