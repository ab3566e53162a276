// Package axis resolves the heart's electrical axis from Lead I and Lead III
// measurements and classifies it into clinical deviation categories.
//
// Everything in this package is pure: no I/O, no shared state. Callers may
// resolve any number of lead pairs concurrently.
package axis

import "math"

// SideFromSidesAndAngle returns the side opposite angleDeg in a triangle whose
// other two sides are b and c (law of cosines). Angles are in degrees.
//
// The sides are scaled by their maximum and the cosine term is rewritten as
// (b-c)² + 4bc·sin²(A/2), so extreme magnitudes and extreme ratios between b
// and c neither overflow nor cancel.
func SideFromSidesAndAngle(b, c, angleDeg float64) float64 {
	m := math.Max(b, c)
	if m == 0 {
		return 0
	}
	b, c = b/m, c/m
	half := math.Sin(angleDeg * math.Pi / 360)
	d := b - c
	return m * math.Sqrt(d*d+4*b*c*half*half)
}

// AngleFromSides returns the angle in degrees opposite side a, given the two
// adjacent sides b and c. When b*c is zero the triangle is degenerate and the
// result is NaN; use IsUndefined to test for it.
//
// The angle comes from the half-angle form
// tan(A/2) = sqrt((a-(b-c))(a+(b-c)) / ((b+c-a)(b+c+a))), which keeps
// precision for very small and very large angles.
func AngleFromSides(a, b, c float64) float64 {
	if b == 0 || c == 0 {
		return math.NaN()
	}
	m := math.Max(a, math.Max(b, c))
	a, b, c = a/m, b/m, c/m

	d := b - c
	num := (a - d) * (a + d)
	den := (b + c - a) * (b + c + a)
	// sides that slightly violate the triangle inequality
	num = math.Max(num, 0)
	den = math.Max(den, 0)
	return 2 * math.Atan2(math.Sqrt(num), math.Sqrt(den)) * 180 / math.Pi
}

// IsUndefined reports whether an angle produced by AngleFromSides is the
// degenerate-triangle sentinel.
func IsUndefined(angle float64) bool {
	return math.IsNaN(angle)
}

// roundHalfDown rounds to the nearest integer with ties going toward negative
// infinity. Classification boundaries depend on this exact behaviour.
func roundHalfDown(x float64) float64 {
	return math.Ceil(x - 0.5)
}
