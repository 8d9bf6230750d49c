// Package app drives the interactive Julia viewer: it turns keyboard state
// into view changes, runs the quality controller once per tick and presents
// rendered frames.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"juliaview/fractal"
	"juliaview/hal"
	"juliaview/internal/parallel"
	"juliaview/internal/snapshot"
)

// Config configures the viewer. Zero values select defaults.
type Config struct {
	// Start is the initial position. Only Center, C, SpanX and SpanY are
	// used; the grid comes from the framebuffer and the quality knobs from
	// Tiers. A zero SpanX selects the default start.
	Start fractal.View

	Tiers fractal.TierTable
	Nav   NavConfig

	// Workers bounds render parallelism (0 = GOMAXPROCS).
	Workers int
	// CoarseFactor is the per-axis reduction of coarse tiers (0 = 2).
	CoarseFactor int

	HUD         bool
	SnapshotDir string

	// Log receives viewer events. Nil logs through the HAL logger at
	// LogLevel.
	Log      *slog.Logger
	LogLevel slog.Level
}

// DefaultStart is the initial view: the whole set around the origin with a
// constant near the seahorse valley.
func DefaultStart() fractal.View {
	return fractal.View{
		C:     complex(-0.75, 0.1),
		SpanX: 2,
		SpanY: 2,
	}
}

type viewer struct {
	log *slog.Logger
	fb  hal.Framebuffer
	kbd hal.Keyboard

	tiers    fractal.TierTable
	renderer *fractal.Renderer
	nav      *Navigator

	view  fractal.View
	state fractal.RenderState
	buf   []uint32

	hud         *hud
	showHUD     bool
	snapshotDir string

	tick      uint64
	tier      int
	took      time.Duration
	repaint   bool
	snapshots int
}

// New builds the viewer on h and returns its per-tick step function.
func New(h hal.HAL, cfg Config) (func() error, error) {
	v, err := newViewer(h, cfg)
	if err != nil {
		return nil, err
	}
	return v.step, nil
}

func newViewer(h hal.HAL, cfg Config) (*viewer, error) {
	log := cfg.Log
	if log == nil {
		log = hal.NewSlog(h.Logger(), cfg.LogLevel)
	}

	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	if fb == nil {
		return nil, errors.New("app: no framebuffer")
	}
	if fb.Format() != hal.PixelFormatXRGB8888 {
		return nil, fmt.Errorf("app: unsupported pixel format %d", fb.Format())
	}
	var kbd hal.Keyboard
	if in := h.Input(); in != nil {
		kbd = in.Keyboard()
	}

	tiers := cfg.Tiers
	if tiers == nil {
		tiers = fractal.DefaultTiers()
	}
	if err := tiers.Validate(); err != nil {
		return nil, err
	}
	nav := cfg.Nav
	if nav == (NavConfig{}) {
		nav = DefaultNav()
	}

	start := cfg.Start
	if start.SpanX == 0 {
		start = DefaultStart()
	}
	view := fractal.View{
		Width:     fb.Width(),
		Height:    fb.Height(),
		Center:    start.Center,
		C:         start.C,
		SpanX:     start.SpanX,
		SpanY:     start.SpanY,
		MaxBudget: tiers.MaxBudget(),
	}
	tiers.Select(0).Apply(&view)
	if err := view.Validate(); err != nil {
		return nil, err
	}

	r := fractal.NewRenderer(parallel.NewPool(cfg.Workers))
	if cfg.CoarseFactor > 0 {
		r.SetCoarseFactor(cfg.CoarseFactor)
	}

	snapDir := cfg.SnapshotDir
	if snapDir == "" {
		snapDir = "."
	}

	log.Info("viewer ready",
		"size", fmt.Sprintf("%dx%d", view.Width, view.Height),
		"tiers", len(tiers),
		"max_budget", view.MaxBudget,
		"coarse_factor", r.CoarseFactor())

	return &viewer{
		log:         log,
		fb:          fb,
		kbd:         kbd,
		tiers:       tiers,
		renderer:    r,
		nav:         NewNavigator(nav, view),
		view:        view,
		state:       fractal.NewRenderState(),
		buf:         make([]uint32, view.Pixels()),
		hud:         newHUD(fb),
		showHUD:     cfg.HUD,
		snapshotDir: snapDir,
	}, nil
}

func (v *viewer) step() error {
	var held, pressed hal.KeySet
	if v.kbd != nil {
		held, pressed = v.kbd.Held(), v.kbd.Pressed()
	}
	if pressed.Has(hal.KeyEscape) {
		return hal.ErrQuit
	}
	if pressed.Has(hal.KeyH) {
		v.showHUD = !v.showHUD
		v.repaint = true
	}

	changed := false
	if pressed.Has(hal.KeyR) {
		v.nav.Reset(&v.view)
		changed = true
	}
	if v.nav.Apply(&v.view, ActionsFromKeys(held)) {
		changed = true
	}

	v.advance(changed)

	if v.repaint {
		if err := v.present(); err != nil {
			return err
		}
	}
	if pressed.Has(hal.KeyP) {
		v.saveSnapshot()
	}
	v.tick++
	return nil
}

// advance runs the quality controller and renders when a frame is owed.
func (v *viewer) advance(changed bool) {
	if !v.state.Advance(&v.view, v.tiers, changed) {
		return
	}
	if tier := v.tiers.Index(v.state.IdleTicks); tier != v.tier {
		v.tier = tier
		v.log.Debug("tier", "index", tier, "budget", v.view.Budget, "step", v.view.Step, "coarse", v.view.Coarse)
	}

	start := time.Now()
	v.renderer.Render(v.view, v.buf)
	v.took = time.Since(start)
	v.state.Rendered()
	v.repaint = true
	v.log.Debug("render", "tick", v.tick, "took", v.took)
}

func (v *viewer) present() error {
	copy(v.fb.Pixels(), v.buf)
	if v.showHUD {
		v.hud.draw(hudText(v.tier, v.view, v.took))
	}
	v.repaint = false
	return v.fb.Present()
}

func (v *viewer) saveSnapshot() {
	path := filepath.Join(v.snapshotDir, fmt.Sprintf("julia-%06d.png", v.tick))
	if err := snapshot.Save(path, v.buf, v.view.Width, v.view.Height); err != nil {
		v.log.Warn("snapshot failed", "err", err)
		return
	}
	v.snapshots++
	v.log.Info("snapshot saved", "path", path)
}
