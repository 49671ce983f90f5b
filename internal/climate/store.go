package climate

// Store holds the locally editable fields for one climate entity. It is the
// single place where authoritative snapshots and optimistic local edits meet.
//
// The store is owned by the UI event loop and is not safe for concurrent use.
type Store struct {
	// TargetTemperature is the temperature shown on the slider. Updated
	// optimistically on user input, overwritten by every snapshot.
	TargetTemperature float64

	// CurrentMode is the displayed operating mode. Same lifecycle as
	// TargetTemperature.
	CurrentMode string

	// Expanded is whether the detail panel is open. Toggled only by an
	// explicit user action, never by snapshot updates.
	Expanded bool
}

// NewStore creates a store initialized from the first snapshot.
func NewStore(s Snapshot) *Store {
	st := &Store{}
	st.ApplySnapshot(s)
	return st
}

// ApplySnapshot reconciles the editable fields against a newly arrived
// snapshot. The overwrite is unconditional: even while a local edit is
// debouncing or in flight, the fresh snapshot replaces the optimistic value.
// If the post-command refresh loses a race against a periodic update, an
// in-flight edit can appear to revert momentarily until the next refresh.
//
// When the snapshot reports no target temperature the current temperature is
// used, and failing that the derived minimum, so the slider always has a
// value inside its range.
func (st *Store) ApplySnapshot(s Snapshot) {
	limits := DeriveLimits(s)

	switch {
	case s.TargetTemperature != nil:
		st.TargetTemperature = *s.TargetTemperature
	case s.CurrentTemperature != nil:
		st.TargetTemperature = Clamp(*s.CurrentTemperature, limits.Min, limits.Max)
	default:
		st.TargetTemperature = limits.Min
	}

	st.CurrentMode = ResolveMode(s)
}

// SetTarget applies an optimistic local temperature edit. The caller is
// responsible for clamping the candidate into the entity's limits first.
func (st *Store) SetTarget(v float64) {
	st.TargetTemperature = v
}

// SetMode applies an optimistic local mode edit.
func (st *Store) SetMode(mode string) {
	st.CurrentMode = mode
}

// ToggleExpanded flips the detail panel and returns the new state.
func (st *Store) ToggleExpanded() bool {
	st.Expanded = !st.Expanded
	return st.Expanded
}
