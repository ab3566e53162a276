package axis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/banshee-data/heartaxis/internal/monitoring"
)

// leadAngle is the interior angle at D between the Lead I and Lead III sides.
const leadAngle = 120.0

// closureTolerance is the relative error allowed between opposite sides
// before the resolver logs a closure warning.
const closureTolerance = 1e-6

// LeadPair holds one Lead I / Lead III measurement.
type LeadPair struct {
	Lead1 float64 `json:"lead1"`
	Lead3 float64 `json:"lead3"`
}

// Validate rejects non-finite lead values.
func (p LeadPair) Validate() error {
	if math.IsNaN(p.Lead1) || math.IsInf(p.Lead1, 0) {
		return fmt.Errorf("lead1 = %v: %w", p.Lead1, ErrInvalidInput)
	}
	if math.IsNaN(p.Lead3) || math.IsInf(p.Lead3, 0) {
		return fmt.Errorf("lead3 = %v: %w", p.Lead3, ErrInvalidInput)
	}
	return nil
}

// Resolve is shorthand for Resolve(p.Lead1, p.Lead3).
func (p LeadPair) Resolve() (ResolvedVector, error) {
	return Resolve(p.Lead1, p.Lead3)
}

// Quadrant identifies which sign case produced the resultant.
type Quadrant int

const (
	QuadrantNone Quadrant = iota
	QuadrantPosPos
	QuadrantPosNeg
	QuadrantNegPos
	QuadrantNegNeg
	QuadrantLead1Only
	QuadrantLead3Only
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantPosPos:
		return "+I/+III"
	case QuadrantPosNeg:
		return "+I/-III"
	case QuadrantNegPos:
		return "-I/+III"
	case QuadrantNegNeg:
		return "-I/-III"
	case QuadrantLead1Only:
		return "I only"
	case QuadrantLead3Only:
		return "III only"
	default:
		return "none"
	}
}

// QuadrantOf returns the sign case for a lead pair.
func QuadrantOf(lead1, lead3 float64) Quadrant {
	switch {
	case lead1 > 0 && lead3 > 0:
		return QuadrantPosPos
	case lead1 > 0 && lead3 < 0:
		return QuadrantPosNeg
	case lead1 < 0 && lead3 > 0:
		return QuadrantNegPos
	case lead1 < 0 && lead3 < 0:
		return QuadrantNegNeg
	case lead1 != 0:
		return QuadrantLead1Only
	case lead3 != 0:
		return QuadrantLead3Only
	default:
		return QuadrantNone
	}
}

// Diagonals are the two diagonals of the reconstructed parallelogram.
type Diagonals struct {
	AC float64 `json:"AC"`
	DB float64 `json:"DB"`
}

// Sides are the four sides of the parallelogram ABCD. DC carries |Lead I|
// and DA carries |Lead III|.
type Sides struct {
	AB float64 `json:"AB"`
	BC float64 `json:"BC"`
	DA float64 `json:"DA"`
	DC float64 `json:"DC"`
}

// Angles are the composite corner angles in degrees.
type Angles struct {
	A float64 `json:"A"`
	B float64 `json:"B"`
	C float64 `json:"C"`
	D float64 `json:"D"`
}

// SubAngles are the per-triangle components of the corner angles together
// with the four angles E1..E4 around the diagonals' intersection.
type SubAngles struct {
	A1, A2 float64
	B1, B2 float64
	C1, C2 float64
	D1, D2 float64
	E1, E2 float64
	E3, E4 float64
}

// ResolvedVector is the full result of resolving a lead pair.
type ResolvedVector struct {
	Leads     LeadPair
	Magnitude float64
	// Angle is rounded half-down to whole degrees, in [-180, 180].
	Angle     float64
	Quadrant  Quadrant
	Diagonals Diagonals
	Sides     Sides
	Angles    Angles
	Sub       SubAngles
	// E is the sum E1+E2+E3+E4 and should be 360.
	E         float64
	Diagnosis Deviation
}

// Resolve reconstructs the lead parallelogram for lead1 and lead3 and
// returns the resultant axis with its classification.
//
// Non-finite input returns ErrInvalidInput. Two zero leads return
// ErrIndeterminateAxis with a zero vector labelled DeviationError. A single
// zero lead places the resultant on the other lead's axis; the degenerate
// parallelogram angles are NaN and Check reports them.
func Resolve(lead1, lead3 float64) (ResolvedVector, error) {
	leads := LeadPair{Lead1: lead1, Lead3: lead3}
	if err := leads.Validate(); err != nil {
		return ResolvedVector{}, err
	}

	v := solveParallelogram(leads)

	switch v.Quadrant {
	case QuadrantPosPos:
		v.Magnitude, v.Angle = v.Diagonals.DB, v.Sub.D1
	case QuadrantPosNeg:
		v.Magnitude, v.Angle = v.Diagonals.AC, -v.Sub.A2
	case QuadrantNegPos:
		v.Magnitude, v.Angle = v.Diagonals.AC, v.Sub.C1+leadAngle
	case QuadrantNegNeg:
		v.Magnitude, v.Angle = v.Diagonals.DB, -(v.Sub.B2 + 60)
	case QuadrantLead1Only:
		v.Magnitude = math.Abs(lead1)
		if lead1 < 0 {
			v.Angle = 180
		}
	case QuadrantLead3Only:
		v.Magnitude = math.Abs(lead3)
		v.Angle = leadAngle
		if lead3 < 0 {
			v.Angle = leadAngle - 180
		}
	default:
		v.Diagnosis = DeviationError
		return v, ErrIndeterminateAxis
	}

	v.Angle = roundHalfDown(v.Angle)
	if v.Angle == 0 {
		// ceil can yield -0, which encodes as "-0"
		v.Angle = 0
	}
	v.Diagnosis = Classify(v.Angle)
	return v, nil
}

func solveParallelogram(leads LeadPair) ResolvedVector {
	var s SubAngles
	dc := math.Abs(leads.Lead1)
	da := math.Abs(leads.Lead3)

	ac := SideFromSidesAndAngle(dc, da, leadAngle)
	s.C2 = AngleFromSides(da, dc, ac)
	s.A1 = AngleFromSides(dc, da, ac)
	s.C1 = s.A1
	s.A2 = s.C2
	a := s.A1 + s.A2

	db := SideFromSidesAndAngle(da, dc, a)
	s.D1 = AngleFromSides(da, dc, db)
	s.D2 = AngleFromSides(dc, da, db)
	s.B2 = s.D2

	ab := SideFromSidesAndAngle(da, db, s.D2)
	bc := SideFromSidesAndAngle(dc, db, s.D1)
	if dc != 0 && da != 0 {
		if !scalar.EqualWithinRel(ab, dc, closureTolerance) || !scalar.EqualWithinRel(bc, da, closureTolerance) {
			monitoring.Logf("axis: parallelogram did not close for lead1=%g lead3=%g: AB=%g DC=%g BC=%g DA=%g",
				leads.Lead1, leads.Lead3, ab, dc, bc, da)
		}
	}

	s.B1 = s.D1
	s.E2 = 180 - s.A1 - s.D2
	s.E4 = s.E2
	s.E1 = 180 - s.C2 - s.D1
	s.E3 = s.E1

	return ResolvedVector{
		Leads:     leads,
		Quadrant:  QuadrantOf(leads.Lead1, leads.Lead3),
		Diagonals: Diagonals{AC: ac, DB: db},
		Sides:     Sides{AB: ab, BC: bc, DA: da, DC: dc},
		Angles: Angles{
			A: s.A1 + s.A2,
			B: s.B1 + s.B2,
			C: s.C1 + s.C2,
			D: s.D1 + s.D2,
		},
		Sub: s,
		E:   s.E1 + s.E2 + s.E3 + s.E4,
	}
}
