package fractal

import (
	"errors"
	"fmt"
)

// ErrInvalidTiers reports a malformed tier table.
var ErrInvalidTiers = errors.New("fractal: invalid tier table")

// Tier is one quality level. It applies once the view has been idle for at
// least Threshold ticks.
type Tier struct {
	Threshold uint64
	Budget    int
	Step      int
	Coarse    bool
}

// TierTable lists tiers in ascending Threshold order, starting at 0.
type TierTable []Tier

// DefaultTiers trades detail for latency while the view moves and refines
// it over the following ticks.
func DefaultTiers() TierTable {
	return TierTable{
		{Threshold: 0, Budget: 151, Step: 4, Coarse: true},
		{Threshold: 3, Budget: 201, Step: 3, Coarse: true},
		{Threshold: 9, Budget: 201, Step: 2, Coarse: false},
		{Threshold: 18, Budget: 251, Step: 1, Coarse: false},
	}
}

// Validate checks ordering and per-tier values.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidTiers)
	}
	if t[0].Threshold != 0 {
		return fmt.Errorf("%w: first threshold is %d, want 0", ErrInvalidTiers, t[0].Threshold)
	}
	for i, tier := range t {
		if tier.Budget <= 0 {
			return fmt.Errorf("%w: tier %d budget %d", ErrInvalidTiers, i, tier.Budget)
		}
		if tier.Step < 1 {
			return fmt.Errorf("%w: tier %d step %d", ErrInvalidTiers, i, tier.Step)
		}
		if i > 0 && tier.Threshold <= t[i-1].Threshold {
			return fmt.Errorf("%w: tier %d threshold %d not above %d", ErrInvalidTiers, i, tier.Threshold, t[i-1].Threshold)
		}
	}
	return nil
}

// Index returns the position of the last tier whose threshold is <= idle.
func (t TierTable) Index(idle uint64) int {
	i := 0
	for j, tier := range t {
		if tier.Threshold > idle {
			break
		}
		i = j
	}
	return i
}

// Select returns the tier in effect after idle quiet ticks.
func (t TierTable) Select(idle uint64) Tier { return t[t.Index(idle)] }

// MaxBudget returns the largest budget in the table, suitable for
// View.MaxBudget.
func (t TierTable) MaxBudget() int {
	m := 0
	for _, tier := range t {
		m = max(m, tier.Budget)
	}
	return m
}

// Apply overwrites the quality knobs of v with tier and reports whether any
// of them changed.
func (tier Tier) Apply(v *View) bool {
	changed := v.Budget != tier.Budget || v.Step != tier.Step || v.Coarse != tier.Coarse
	v.Budget = tier.Budget
	v.Step = tier.Step
	v.Coarse = tier.Coarse
	return changed
}

// RenderState tracks whether a render is owed and how long the view has
// been quiet.
type RenderState struct {
	// Dirty is set when the displayed buffer no longer matches the view.
	Dirty bool
	// IdleTicks counts consecutive ticks without input.
	IdleTicks uint64
}

// NewRenderState returns a state that owes the first render.
func NewRenderState() RenderState {
	return RenderState{Dirty: true}
}

// Advance runs one tick of the quality controller. changed reports whether
// input altered v this tick (the deltas are already applied). It updates the
// idle counter, moves v onto the selected tier and returns whether the
// caller should render now. Call Rendered once the render is done.
func (s *RenderState) Advance(v *View, tiers TierTable, changed bool) bool {
	if changed {
		s.Dirty = true
		s.IdleTicks = 0
	} else {
		s.IdleTicks++
	}
	if tiers.Select(s.IdleTicks).Apply(v) {
		s.Dirty = true
	}
	return s.Dirty
}

// Rendered clears the owed render.
func (s *RenderState) Rendered() { s.Dirty = false }
