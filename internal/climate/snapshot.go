package climate

// Status indicates whether the entity is reachable.
type Status int

const (
	// StatusNormal means the entity is reporting state and accepts commands
	StatusNormal Status = iota

	// StatusUnavailable means the entity is unreachable; the UI shows
	// last-known values but disables all interaction
	StatusUnavailable
)

// Snapshot is a point-in-time read of a climate entity's reported state as
// delivered by the state provider. A snapshot is immutable once delivered
// and is superseded wholesale by the next one.
//
// All fields except Status are optional. Numeric fields use pointers so a
// genuinely absent value can be told apart from a reported zero.
type Snapshot struct {
	Status Status

	CurrentTemperature    *float64
	TargetTemperature     *float64
	TargetTemperatureLow  *float64
	TargetTemperatureHigh *float64

	// Mode is the explicit operating mode attribute (most trustworthy)
	Mode string

	// RawState is the entity's generic state string
	RawState string

	// Action is the currently running action (e.g. "idle", "heating");
	// least trustworthy for display since it reflects transient behavior
	Action string

	MinTemp *float64
	MaxTemp *float64
	Step    *float64
	Unit    string

	// AvailableModes is the ordered list of selectable operating modes;
	// may be empty
	AvailableModes []string
}

// Unavailable reports whether the entity is currently unreachable.
func (s Snapshot) Unavailable() bool {
	return s.Status == StatusUnavailable
}
