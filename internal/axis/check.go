package axis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultTolerance is the relative tolerance used by Check for side and
// angle equality.
const DefaultTolerance = 1e-2

// Check verifies the parallelogram closure invariants of v: equal opposite
// sides and angles, adjacent corners summing to 180°, E summing to 360°, and
// agreement with the direct vector sum of the two leads. Every failed
// invariant is reported; the returned error is nil when all hold.
//
// Non-positive tol selects DefaultTolerance.
func (v ResolvedVector) Check(tol float64) error {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if v.Quadrant == QuadrantNone {
		return ErrIndeterminateAxis
	}

	var errs []error
	sub := []struct {
		name  string
		value float64
	}{
		{"A1", v.Sub.A1}, {"A2", v.Sub.A2},
		{"C1", v.Sub.C1}, {"C2", v.Sub.C2},
		{"D1", v.Sub.D1}, {"D2", v.Sub.D2},
	}
	for _, s := range sub {
		if IsUndefined(s.value) {
			errs = append(errs, fmt.Errorf("angle %s: %w", s.name, ErrDegenerateTriangle))
		}
	}

	equal := func(name string, got, want float64) {
		if !scalar.EqualWithinRel(got, want, tol) {
			errs = append(errs, &InvariantError{Name: name, Got: got, Want: want})
		}
	}
	rounded := func(name string, got, want float64) {
		if roundHalfDown(got) != want {
			errs = append(errs, &InvariantError{Name: name, Got: got, Want: want})
		}
	}

	equal("AB=DC", v.Sides.AB, v.Sides.DC)
	equal("BC=DA", v.Sides.BC, v.Sides.DA)
	equal("A=C", v.Angles.A, v.Angles.C)
	equal("B=D", v.Angles.B, v.Angles.D)
	rounded("A+D=180", v.Angles.A+v.Angles.D, 180)
	rounded("B+C=180", v.Angles.B+v.Angles.C, 180)
	rounded("E=360", v.E, 360)

	res := Resultant(v.Leads.Lead1, v.Leads.Lead3)
	equal("magnitude", v.Magnitude, r2.Norm(res))
	if d := math.Abs(angleDiff(v.Angle, ClinicalAngle(res))); !(d <= 0.5+1e-9) {
		errs = append(errs, &InvariantError{Name: "angle", Got: v.Angle, Want: ClinicalAngle(res)})
	}

	return errors.Join(errs...)
}
