package fractal

import (
	"errors"
	"fmt"
)

// ErrInvalidView reports a View that violates its invariants.
var ErrInvalidView = errors.New("fractal: invalid view")

// View is the complete input of one render: grid geometry, the mapped region
// of the complex plane, the Julia constant and the quality knobs chosen by
// the tier table.
type View struct {
	Width  int
	Height int

	// Center is the point mapped to the middle of the grid.
	Center complex128
	// C is the Julia constant.
	C complex128

	SpanX float64
	SpanY float64

	// Budget is the maximum orbit length checked.
	Budget int
	// MaxBudget normalizes shades; it never changes between tiers so that
	// colors stay comparable while the budget moves.
	MaxBudget int
	// Step is the number of raw iterations folded into one orbit-length unit.
	Step int

	// Coarse renders at reduced resolution and replicates pixels.
	Coarse bool
}

// Pixels returns Width*Height.
func (v View) Pixels() int { return v.Width * v.Height }

// Validate checks the invariants every render relies on.
func (v View) Validate() error {
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidView, v.Width, v.Height)
	case !(v.SpanX > 0) || !(v.SpanY > 0):
		return fmt.Errorf("%w: span %gx%g", ErrInvalidView, v.SpanX, v.SpanY)
	case v.MaxBudget <= 0:
		return fmt.Errorf("%w: max budget %d", ErrInvalidView, v.MaxBudget)
	case v.Budget <= 0 || v.Budget > v.MaxBudget:
		return fmt.Errorf("%w: budget %d outside 1..%d", ErrInvalidView, v.Budget, v.MaxBudget)
	case v.Step < 1:
		return fmt.Errorf("%w: step %d", ErrInvalidView, v.Step)
	}
	return nil
}

// Point maps grid coordinates to the complex plane.
func (v View) Point(x, y int) complex128 {
	dx := (float64(x) - float64(v.Width)/2) * (v.SpanX / float64(v.Width))
	dy := (float64(y) - float64(v.Height)/2) * (v.SpanY / float64(v.Height))
	return v.Center + complex(dx, dy)
}
