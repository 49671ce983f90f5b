package climate

// DefaultMode is displayed when a snapshot carries no mode information at all.
const DefaultMode = "off"

// ResolveMode derives the displayed operating mode from a snapshot.
//
// The fields are consulted in decreasing order of trustworthiness: the
// explicit Mode attribute first, then the generic RawState, then Action
// (which may reflect transient behavior like "idle"). The first non-empty
// value wins; if none is set the result is "off".
//
// An empty string is treated as absent. A legitimate mode of "off" is a
// non-empty string and is returned from whichever link of the chain reports
// it.
func ResolveMode(s Snapshot) string {
	if s.Mode != "" {
		return s.Mode
	}
	if s.RawState != "" {
		return s.RawState
	}
	if s.Action != "" {
		return s.Action
	}
	return DefaultMode
}
