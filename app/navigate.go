package app

import (
	"math"

	"juliaview/fractal"
	"juliaview/hal"
)

// Actions is the set of view changes requested during one tick.
type Actions uint16

const (
	ActZoomIn Actions = 1 << iota
	ActZoomOut
	ActLeft
	ActRight
	ActUp
	ActDown
	ActDrift
	ActFast
)

// Has reports whether all of a are set.
func (s Actions) Has(a Actions) bool { return s&a == a }

var keyActions = []struct {
	k hal.KeyCode
	a Actions
}{
	{hal.KeyW, ActZoomIn},
	{hal.KeyS, ActZoomOut},
	{hal.KeyLeft, ActLeft},
	{hal.KeyRight, ActRight},
	{hal.KeyUp, ActUp},
	{hal.KeyDown, ActDown},
	{hal.KeySpace, ActDrift},
	{hal.KeyShift, ActFast},
}

// ActionsFromKeys maps held keys to actions.
func ActionsFromKeys(held hal.KeySet) Actions {
	var a Actions
	for _, m := range keyActions {
		if held.Has(m.k) {
			a |= m.a
		}
	}
	return a
}

// NavConfig sets how far one tick of input moves the view.
type NavConfig struct {
	// Zoom factors applied to both spans per tick, normal and fast.
	Zoom     float64
	ZoomFast float64
	// Pan speeds as a fraction of the span per tick, normal and fast.
	Pan     float64
	PanFast float64

	// The constant drifts around DriftCenter at DriftRadius, advancing
	// DriftStep radians per tick.
	DriftCenter complex128
	DriftRadius float64
	DriftStep   float64
}

// DefaultNav returns the stock navigation speeds. The drift orbit follows
// the edge of the main cardioid near the seahorse valley.
func DefaultNav() NavConfig {
	return NavConfig{
		Zoom:        1.01,
		ZoomFast:    1.05,
		Pan:         0.01,
		PanFast:     0.05,
		DriftCenter: complex(-0.745, 0.11),
		DriftRadius: 0.04,
		DriftStep:   0.05,
	}
}

// Navigator applies actions to a view. Phase is the drift angle; it is
// part of the navigator state so runs can be replayed exactly.
type Navigator struct {
	cfg   NavConfig
	home  fractal.View
	Phase float64
}

// NewNavigator returns a navigator whose Reset restores home.
func NewNavigator(cfg NavConfig, home fractal.View) *Navigator {
	return &Navigator{cfg: cfg, home: home}
}

// Apply changes v according to a and reports whether anything changed.
// Opposite actions held together cancel out.
func (n *Navigator) Apply(v *fractal.View, a Actions) bool {
	zoom, pan := n.cfg.Zoom, n.cfg.Pan
	if a.Has(ActFast) {
		zoom, pan = n.cfg.ZoomFast, n.cfg.PanFast
	}

	changed := false
	if a.Has(ActZoomIn) != a.Has(ActZoomOut) {
		f := zoom
		if a.Has(ActZoomIn) {
			f = 1 / zoom
		}
		v.SpanX *= f
		v.SpanY *= f
		changed = true
	}
	if a.Has(ActDrift) {
		sin, cos := math.Sincos(n.Phase)
		v.C = n.cfg.DriftCenter + complex(n.cfg.DriftRadius*cos, n.cfg.DriftRadius*sin)
		n.Phase += n.cfg.DriftStep
		changed = true
	}
	if a.Has(ActLeft) != a.Has(ActRight) {
		d := pan * v.SpanX
		if a.Has(ActLeft) {
			d = -d
		}
		v.Center += complex(d, 0)
		changed = true
	}
	if a.Has(ActUp) != a.Has(ActDown) {
		d := pan * v.SpanY
		if a.Has(ActUp) {
			d = -d
		}
		v.Center += complex(0, d)
		changed = true
	}
	return changed
}

// Reset restores the home position, constant and zoom and rewinds the drift.
func (n *Navigator) Reset(v *fractal.View) {
	v.Center = n.home.Center
	v.C = n.home.C
	v.SpanX = n.home.SpanX
	v.SpanY = n.home.SpanY
	n.Phase = 0
}
