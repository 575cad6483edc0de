package config

import (
	"sync"
	"time"
)

// Registry represents the entire user configuration file.
// It stores preference toggles bound to table rows, CLI settings and the
// bridges the user has seen on the network.
type Registry struct {
	Version     int                `yaml:"version"`
	Preferences map[string]bool    `yaml:"preferences,omitempty"` // Keyed by preference name
	Settings    *Settings          `yaml:"settings,omitempty"`
	Bridges     map[string]*Bridge `yaml:"bridges,omitempty"` // Keyed by bridge instance name

	mu sync.RWMutex
}

// Settings represents application-wide defaults for the CLI.
type Settings struct {
	DefinitionFile string `yaml:"definition_file,omitempty"` // Table definition used when none is given
	BridgePort     int    `yaml:"bridge_port"`               // Port for `tablekit serve`
	Advertise      bool   `yaml:"advertise"`                 // Announce the bridge over mDNS
	ScanTimeout    int    `yaml:"scan_timeout"`              // mDNS scan timeout in seconds
	LogLevel       string `yaml:"log_level,omitempty"`       // Used when TABLEKIT_LOG_LEVEL is unset
	Locale         string `yaml:"locale,omitempty"`          // BCP 47 tag for index collation
}

// Bridge represents user-defined metadata for a bridge found by a scan.
type Bridge struct {
	Nickname string    `yaml:"nickname,omitempty"`
	LastAddr string    `yaml:"last_addr,omitempty"` // host:port of the last sighting
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

const (
	defaultBridgePort  = 8787
	defaultScanTimeout = 5
)

func defaultSettings() *Settings {
	return &Settings{
		BridgePort:  defaultBridgePort,
		Advertise:   true,
		ScanTimeout: defaultScanTimeout,
	}
}

// normalize fills what a hand-edited file may leave out: nil maps and
// zero-valued settings.
func (r *Registry) normalize() {
	if r.Preferences == nil {
		r.Preferences = make(map[string]bool)
	}
	if r.Bridges == nil {
		r.Bridges = make(map[string]*Bridge)
	}
	if r.Settings == nil {
		r.Settings = defaultSettings()
		return
	}
	if r.Settings.BridgePort <= 0 {
		r.Settings.BridgePort = defaultBridgePort
	}
	if r.Settings.ScanTimeout <= 0 {
		r.Settings.ScanTimeout = defaultScanTimeout
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Preferences: make(map[string]bool),
		Settings:    defaultSettings(),
		Bridges:     make(map[string]*Bridge),
	}
}

// Bool returns the stored preference, false when it was never set.
func (r *Registry) Bool(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Preferences[key]
}

// SetBool stores a preference in memory. Call Save to persist it.
func (r *Registry) SetBool(key string, value bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Preferences == nil {
		r.Preferences = make(map[string]bool)
	}
	r.Preferences[key] = value
}

// GetBridge retrieves bridge metadata by instance name.
// Returns nil if the bridge doesn't exist in the registry.
func (r *Registry) GetBridge(name string) *Bridge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Bridges[name]
}

// EnsureBridge returns the entry for name, creating it when missing.
func (r *Registry) EnsureBridge(name string) *Bridge {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureBridge(name)
}

func (r *Registry) ensureBridge(name string) *Bridge {
	if r.Bridges == nil {
		r.Bridges = make(map[string]*Bridge)
	}

	if bridge, exists := r.Bridges[name]; exists {
		return bridge
	}

	bridge := &Bridge{}
	r.Bridges[name] = bridge
	return bridge
}

// UpdateBridgeLastSeen updates the last seen timestamp and address for a bridge.
func (r *Registry) UpdateBridgeLastSeen(name, addr string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bridge := r.ensureBridge(name)
	bridge.LastSeen = time.Now()
	bridge.LastAddr = addr
}

// SetBridgeNickname sets a user-friendly nickname for a bridge.
func (r *Registry) SetBridgeNickname(name, nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureBridge(name).Nickname = nickname
}

// PreferenceCount returns how many preferences are stored.
func (r *Registry) PreferenceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Preferences)
}

// ResetPreferences removes every stored preference and returns how many
// there were. Call Save to persist it.
func (r *Registry) ResetPreferences() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.Preferences)
	r.Preferences = make(map[string]bool)
	return n
}
