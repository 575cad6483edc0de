// Package config provides user configuration and table definitions for tablekit.
//
// Two kinds of YAML document live here.
//
// The registry (config.yaml) stores preference values bound to table rows,
// CLI settings and bridges seen on the network. It follows OS-specific
// conventions for storage location:
//   - Linux: $XDG_CONFIG_HOME/tablekit/config.yaml or $HOME/.config/tablekit/config.yaml
//   - macOS: $HOME/.config/tablekit/config.yaml
//   - Windows: %LOCALAPPDATA%\tablekit\config.yaml
//
// TABLEKIT_CONFIG_DIR overrides the directory on every platform.
//
// A *Registry implements table.PreferenceStore, so rows can be bound to it:
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	row.HandlePreference(registry, "wifi", nil, nil, false)
//	// ...
//	err = registry.Save()
//
// A definition describes a table declaratively. Build turns it into a live
// *table.Table:
//
//	def, err := config.LoadDefinition("settings.yaml")
//	if err != nil {
//	    return err
//	}
//	t, err := def.Build(registry, table.WithHost(host))
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes, and
// preference access is guarded so a bridge goroutine can read while the
// control goroutine writes.
package config
