package climate

// Default bounds applied when a snapshot does not report its own.
const (
	DefaultMinTemp = 5.0
	DefaultMaxTemp = 35.0
	DefaultStep    = 0.5
	DefaultUnit    = "°C"
)

// Limits is the effective temperature range for an entity: the snapshot's
// reported bounds where present, defaults otherwise.
type Limits struct {
	Min  float64
	Max  float64
	Step float64
	Unit string
}

// DeriveLimits computes the effective min/max/step/unit for a snapshot using
// first-defined-value-else-default semantics. A reported zero is a defined
// value and is never replaced by the default.
func DeriveLimits(s Snapshot) Limits {
	l := Limits{
		Min:  DefaultMinTemp,
		Max:  DefaultMaxTemp,
		Step: DefaultStep,
		Unit: DefaultUnit,
	}

	if s.MinTemp != nil {
		l.Min = *s.MinTemp
	}
	if s.MaxTemp != nil {
		l.Max = *s.MaxTemp
	}
	if s.Step != nil {
		l.Step = *s.Step
	}
	if s.Unit != "" {
		l.Unit = s.Unit
	}

	return l
}

// Clamp returns candidate constrained to [min, max].
func Clamp(candidate, min, max float64) float64 {
	if candidate < min {
		return min
	}
	if candidate > max {
		return max
	}
	return candidate
}

// WheelDelta converts a vertical scroll distance into a temperature change.
// Scrolling up (negative scrollY) raises the target; one notch (100 units)
// moves one step.
func WheelDelta(scrollY, step float64) float64 {
	return -(scrollY / 100) * step
}
