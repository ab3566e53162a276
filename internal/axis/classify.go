package axis

// Deviation is the clinical label attached to a resolved axis angle.
type Deviation string

const (
	DeviationNone          Deviation = "No Axis Deviation"
	DeviationAbnormalLeft  Deviation = "Abnormal Left Axis Deviation"
	DeviationExtreme       Deviation = "Extreme Axis Deviation"
	DeviationAbnormalRight Deviation = "Abnormal Right Axis Deviation"
	DeviationSuperior      Deviation = "Superior Axis Deviation"
	DeviationInferior      Deviation = "Inferior Axis Deviation"

	// DeviationError is returned when no range matches the angle.
	DeviationError Deviation = "ERROR"
)

// IsError reports whether d is the unclassified sentinel.
func (d Deviation) IsError() bool {
	return d == DeviationError
}

func (d Deviation) String() string {
	return string(d)
}

// DeviationRange is an inclusive angle interval in degrees.
type DeviationRange struct {
	Min   float64
	Max   float64
	Label Deviation
}

// Contains reports whether angle lies within [Min, Max].
func (r DeviationRange) Contains(angle float64) bool {
	return angle >= r.Min && angle <= r.Max
}

// Checked in order; the first match wins.
var deviationRanges = [...]DeviationRange{
	{Min: -29, Max: 80, Label: DeviationNone},
	{Min: -80, Max: -30, Label: DeviationAbnormalLeft},
	{Min: -180, Max: -100, Label: DeviationExtreme},
	{Min: 100, Max: 180, Label: DeviationAbnormalRight},
	{Min: -99, Max: -81, Label: DeviationSuperior},
	{Min: 81, Max: 99, Label: DeviationInferior},
}

// Ranges returns a copy of the classification table in evaluation order.
func Ranges() []DeviationRange {
	out := make([]DeviationRange, len(deviationRanges))
	copy(out, deviationRanges[:])
	return out
}

// Classify maps a rounded axis angle in degrees to its deviation label.
// Angles outside every range, including NaN and non-integer values that fall
// between two ranges, yield DeviationError.
func Classify(angle float64) Deviation {
	for _, r := range deviationRanges {
		if r.Contains(angle) {
			return r.Label
		}
	}
	return DeviationError
}
