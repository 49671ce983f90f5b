// Package config provides user configuration management for hadeck.
//
// This package manages a YAML-based configuration file that stores the
// Home Assistant server connection, user-defined metadata for climate
// entities (nicknames, icons, visibility) and application preferences.
// The configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/hadeck/config.yaml or $HOME/.config/hadeck/config.yaml
//   - macOS: $HOME/.config/hadeck/config.yaml
//   - Windows: %LOCALAPPDATA%\hadeck\config.yaml
//
// # Security
//
// The long-lived Home Assistant access token is stored in this file so the
// dashboard can start without prompting. The file and its directory are
// created with user-only permissions (0600/0700).
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Record the server and label an entity
//	registry.SetServer("http://192.168.1.10:8123", "Home", token)
//	registry.SetEntityNickname("climate.living_room", "Living Room")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
