package axis

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for NaN or infinite lead values.
	ErrInvalidInput = errors.New("invalid lead value")
	// ErrIndeterminateAxis is returned when both leads are zero and the
	// resultant has no direction.
	ErrIndeterminateAxis = errors.New("indeterminate axis: both leads are zero")
	// ErrDegenerateTriangle marks an angle that could not be solved because a
	// side of its triangle has zero length.
	ErrDegenerateTriangle = errors.New("degenerate triangle")
)

// InvariantError describes a parallelogram consistency check that failed.
type InvariantError struct {
	Name string
	Got  float64
	Want float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant %s violated: got %g, want %g", e.Name, e.Got, e.Want)
}
