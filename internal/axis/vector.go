package axis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Unit vectors of the triaxial reference lines in plot coordinates. Lead III
// is drawn on the 60° line and its measurement is negated onto it.
var (
	LeadIAxis   = r2.Vec{X: 1, Y: 0}
	LeadIIIAxis = r2.Vec{X: math.Cos(math.Pi / 3), Y: math.Sin(math.Pi / 3)}
	LeadIIAxis  = r2.Vec{X: math.Cos(2 * math.Pi / 3), Y: math.Sin(2 * math.Pi / 3)}
)

// Resultant returns the vector sum of the two lead projections in plot
// coordinates (y up). Its norm equals the resolved magnitude.
func Resultant(lead1, lead3 float64) r2.Vec {
	return r2.Add(r2.Scale(lead1, LeadIAxis), r2.Scale(-lead3, LeadIIIAxis))
}

// ClinicalAngle converts a plot-space vector into the cardiac convention
// where positive angles point inferiorly. The result lies in [-180, 180].
func ClinicalAngle(v r2.Vec) float64 {
	return -math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// angleDiff returns the signed difference a-b wrapped into [-180, 180).
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+540, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
