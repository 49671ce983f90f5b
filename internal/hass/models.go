package hass

import (
	"strings"

	"github.com/pr8x/hadeck/internal/climate"
)

// Entity is a single entry from the Home Assistant states API.
//
// Attributes are integration-specific, so they are kept as a raw map and
// read through typed accessors. JSON numbers decode as float64.
type Entity struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged string         `json:"last_changed"`
	LastUpdated string         `json:"last_updated"`
}

// The entity state Home Assistant reports for unreachable entities.
const stateUnavailable = "unavailable"

// IsClimate reports whether the entity belongs to the climate domain.
func (e Entity) IsClimate() bool {
	return strings.HasPrefix(e.EntityID, "climate.")
}

// FriendlyName returns the display name Home Assistant assigned to the
// entity, or the entity ID when none is set.
func (e Entity) FriendlyName() string {
	if name := e.stringAttr("friendly_name"); name != "" {
		return name
	}
	return e.EntityID
}

// ClimateSnapshot converts the entity into the control core's snapshot form.
//
// Field mapping follows the climate entity model: the entity state string is
// the generic state, "hvac_mode" (where an integration reports it) is the
// explicit mode, and "hvac_action" is the transient running action. Missing
// attributes stay nil/empty so the core can apply its own defaults.
func (e Entity) ClimateSnapshot() climate.Snapshot {
	snap := climate.Snapshot{
		Status:                climate.StatusNormal,
		CurrentTemperature:    e.floatAttr("current_temperature"),
		TargetTemperature:     e.floatAttr("temperature"),
		TargetTemperatureLow:  e.floatAttr("target_temp_low"),
		TargetTemperatureHigh: e.floatAttr("target_temp_high"),
		Mode:                  e.stringAttr("hvac_mode"),
		RawState:              e.State,
		Action:                e.stringAttr("hvac_action"),
		MinTemp:               e.floatAttr("min_temp"),
		MaxTemp:               e.floatAttr("max_temp"),
		Step:                  e.floatAttr("target_temp_step"),
		Unit:                  e.stringAttr("unit_of_measurement"),
		AvailableModes:        e.stringsAttr("hvac_modes"),
	}

	if e.State == stateUnavailable {
		snap.Status = climate.StatusUnavailable
	}

	return snap
}

// floatAttr returns the named attribute as a float, or nil when absent or
// of a non-numeric type.
func (e Entity) floatAttr(key string) *float64 {
	v, ok := e.Attributes[key]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// stringAttr returns the named attribute as a string, or "" when absent.
func (e Entity) stringAttr(key string) string {
	v, ok := e.Attributes[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// stringsAttr returns the named attribute as a string slice, preserving
// order and skipping non-string elements.
func (e Entity) stringsAttr(key string) []string {
	v, ok := e.Attributes[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
