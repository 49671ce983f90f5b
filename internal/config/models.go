package config

import "time"

// Registry represents the entire user configuration file.
// This stores the connected Home Assistant server, user-defined entity
// metadata and application preferences.
type Registry struct {
	Version     int                    `yaml:"version"`
	Server      *Server                `yaml:"server,omitempty"`
	Entities    map[string]*EntityMeta `yaml:"entities,omitempty"` // Keyed by entity ID
	Preferences *Preferences           `yaml:"preferences,omitempty"`
}

// Server represents the Home Assistant instance hadeck talks to.
type Server struct {
	URL      string    `yaml:"url"`                 // Base URL (e.g. "http://192.168.1.10:8123")
	Token    string    `yaml:"token,omitempty"`     // Long-lived access token
	Name     string    `yaml:"name,omitempty"`      // Location name reported by the server
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last successful connection or discovery
}

// EntityMeta represents user-defined metadata for a single climate entity.
// This is purely client-side information - the server keeps its own names.
type EntityMeta struct {
	Nickname string `yaml:"nickname,omitempty"` // User-friendly name shown in the dashboard
	Icon     string `yaml:"icon,omitempty"`     // Optional emoji/icon for display
	Hidden   bool   `yaml:"hidden,omitempty"`   // Exclude from the dashboard
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool `yaml:"auto_discover"`    // Discover the server via mDNS when no URL is configured
	DiscoverTimeout int  `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	RefreshInterval int  `yaml:"refresh_interval"` // Dashboard poll interval in seconds (fallback when the websocket is down)
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:  1,
		Entities: make(map[string]*EntityMeta),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			RefreshInterval: 30,
		},
	}
}

// HasServer reports whether a server URL has been configured.
func (r *Registry) HasServer() bool {
	return r.Server != nil && r.Server.URL != ""
}

// SetServer records the server connection details, preserving an existing
// token when the caller passes an empty one.
func (r *Registry) SetServer(url, name, token string) {
	if r.Server == nil {
		r.Server = &Server{}
	}
	r.Server.URL = url
	r.Server.Name = name
	if token != "" {
		r.Server.Token = token
	}
}

// UpdateServerLastSeen records a successful connection to the server.
func (r *Registry) UpdateServerLastSeen() {
	if r.Server == nil {
		r.Server = &Server{}
	}
	r.Server.LastSeen = time.Now()
}

// GetEntity retrieves entity metadata by entity ID.
// Returns nil if the entity doesn't exist in the registry.
func (r *Registry) GetEntity(entityID string) *EntityMeta {
	return r.Entities[entityID]
}

// EnsureEntity ensures an entity entry exists in the registry.
// Returns the entry (existing or newly created).
func (r *Registry) EnsureEntity(entityID string) *EntityMeta {
	if r.Entities == nil {
		r.Entities = make(map[string]*EntityMeta)
	}

	if meta, exists := r.Entities[entityID]; exists {
		return meta
	}

	meta := &EntityMeta{}
	r.Entities[entityID] = meta
	return meta
}

// SetEntityNickname sets a user-friendly nickname for an entity.
func (r *Registry) SetEntityNickname(entityID, nickname string) {
	r.EnsureEntity(entityID).Nickname = nickname
}

// SetEntityIcon sets the display icon for an entity.
func (r *Registry) SetEntityIcon(entityID, icon string) {
	r.EnsureEntity(entityID).Icon = icon
}

// SetEntityHidden toggles an entity's visibility in the dashboard.
func (r *Registry) SetEntityHidden(entityID string, hidden bool) {
	r.EnsureEntity(entityID).Hidden = hidden
}

// ModeLabels maps HVAC mode identifiers to human-readable names.
// This is used for display purposes in the dashboard and CLI.
var ModeLabels = map[string]string{
	"off":       "Off",
	"heat":      "Heat",
	"cool":      "Cool",
	"heat_cool": "Heat/Cool",
	"auto":      "Auto",
	"dry":       "Dry",
	"fan_only":  "Fan Only",
}

// ModeIcons maps HVAC mode identifiers to default emoji icons.
var ModeIcons = map[string]string{
	"off":       "⭘",
	"heat":      "🔥",
	"cool":      "❄",
	"heat_cool": "♻",
	"auto":      "🅰",
	"dry":       "💧",
	"fan_only":  "🌀",
}
