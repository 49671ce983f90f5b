package discovery

import (
	"fmt"
	"time"
)

// Instance represents a discovered Home Assistant server on the network
type Instance struct {
	// Name is the location name the server advertises (e.g., "Home")
	Name string

	// Hostname is the mDNS hostname (e.g., "homeassistant.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.10")
	IP string

	// Port is the HTTP port (typically 8123)
	Port int

	// Version is the Home Assistant version from the TXT records
	Version string

	// Metadata contains additional mDNS TXT record data
	// Common fields: "base_url", "uuid", "requires_api_password"
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the instance
func (i *Instance) String() string {
	name := i.Name
	if name == "" {
		name = i.Hostname
	}
	return fmt.Sprintf("Home Assistant %q at %s:%d (version %s)", name, i.IP, i.Port, i.Version)
}

// BaseURL returns the HTTP base URL for the instance.
// When the server advertises an explicit base_url, that takes precedence.
func (i *Instance) BaseURL() string {
	if base := i.GetMetadata("base_url"); base != "" {
		return base
	}
	return fmt.Sprintf("http://%s:%d", i.IP, i.Port)
}

// GetMetadata retrieves a TXT record value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}
