package app

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"juliaview/fractal"
	"juliaview/hal"
)

type testFB struct {
	w, h     int
	px       []uint32
	presents int
	last     []uint32
}

func newTestFB(w, h int) *testFB {
	return &testFB{w: w, h: h, px: make([]uint32, w*h)}
}

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatXRGB8888 }
func (f *testFB) Pixels() []uint32        { return f.px }
func (f *testFB) Present() error {
	f.presents++
	f.last = slices.Clone(f.px)
	return nil
}

type testKeys struct {
	held, pressed hal.KeySet
}

func (k *testKeys) Held() hal.KeySet    { return k.held }
func (k *testKeys) Pressed() hal.KeySet { return k.pressed }

type testHAL struct {
	fb  *testFB
	kbd *testKeys
}

func (h *testHAL) Logger() hal.Logger   { return nopLogger{} }
func (h *testHAL) Display() hal.Display { return h }
func (h *testHAL) Input() hal.Input     { return h }
func (h *testHAL) Framebuffer() hal.Framebuffer {
	if h.fb == nil {
		return nil
	}
	return h.fb
}
func (h *testHAL) Keyboard() hal.Keyboard { return h.kbd }

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}
func (nopLogger) WriteLineBytes([]byte)  {}

func newTestViewer(t *testing.T, cfg Config) (*viewer, *testHAL) {
	t.Helper()
	h := &testHAL{fb: newTestFB(16, 12), kbd: &testKeys{}}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	v, err := newViewer(h, cfg)
	if err != nil {
		t.Fatalf("newViewer: %v", err)
	}
	return v, h
}

func TestViewerFirstTickPresents(t *testing.T) {
	v, h := newTestViewer(t, Config{Workers: 2})
	if err := v.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.fb.presents != 1 {
		t.Fatalf("presents=%d, want 1", h.fb.presents)
	}
	if !v.view.Coarse || v.view.Budget != 151 {
		t.Fatalf("first frame view %+v, want coarsest tier", v.view)
	}

	want := make([]uint32, v.view.Pixels())
	fractal.NewRenderer(nil).Render(v.view, want)
	if !slices.Equal(h.fb.last, want) {
		t.Fatal("presented frame differs from a direct render")
	}
}

func TestViewerSettlesToFullQuality(t *testing.T) {
	v, h := newTestViewer(t, Config{})
	for i := 0; i < 25; i++ {
		if err := v.step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	// First tick, then the three tier boundaries.
	if h.fb.presents != 4 {
		t.Fatalf("presents=%d, want 4", h.fb.presents)
	}
	if v.view.Coarse || v.view.Step != 1 || v.view.Budget != 251 {
		t.Fatalf("settled view %+v", v.view)
	}
	if v.tier != 3 {
		t.Fatalf("tier=%d, want 3", v.tier)
	}
}

func TestViewerInputRerenders(t *testing.T) {
	v, h := newTestViewer(t, Config{})
	for i := 0; i < 20; i++ {
		_ = v.step()
	}
	before := h.fb.presents
	h.kbd.held = hal.Keys(hal.KeyRight)
	_ = v.step()
	if h.fb.presents != before+1 {
		t.Fatalf("presents=%d, want %d", h.fb.presents, before+1)
	}
	if !v.view.Coarse || v.state.IdleTicks != 0 {
		t.Fatalf("moving view %+v idle=%d", v.view, v.state.IdleTicks)
	}
	if real(v.view.Center) <= 0 {
		t.Fatalf("center %v did not move right", v.view.Center)
	}
}

func TestViewerEscapeQuits(t *testing.T) {
	v, h := newTestViewer(t, Config{})
	h.kbd.pressed = hal.Keys(hal.KeyEscape)
	if err := v.step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("err=%v, want ErrQuit", err)
	}
}

func TestViewerResetRestoresHome(t *testing.T) {
	v, h := newTestViewer(t, Config{})
	h.kbd.held = hal.Keys(hal.KeyW, hal.KeySpace, hal.KeyUp)
	for i := 0; i < 5; i++ {
		_ = v.step()
	}
	h.kbd.held = 0
	h.kbd.pressed = hal.Keys(hal.KeyR)
	_ = v.step()
	start := DefaultStart()
	if v.view.Center != start.Center || v.view.C != start.C || v.view.SpanX != start.SpanX {
		t.Fatalf("view after reset %+v", v.view)
	}
	if v.nav.Phase != 0 {
		t.Fatalf("phase=%v after reset", v.nav.Phase)
	}
	if v.state.IdleTicks != 0 {
		t.Fatal("reset did not count as input")
	}
}

func TestViewerHUDOverlay(t *testing.T) {
	v, h := newTestViewer(t, Config{HUD: true})
	_ = v.step()
	if slices.Equal(h.fb.last, v.buf) {
		t.Fatal("HUD enabled but frame equals the raw render")
	}

	h.kbd.pressed = hal.Keys(hal.KeyH)
	_ = v.step()
	if !slices.Equal(h.fb.last, v.buf) {
		t.Fatal("HUD toggled off but frame differs from the raw render")
	}
}

func TestViewerSnapshot(t *testing.T) {
	dir := t.TempDir()
	v, h := newTestViewer(t, Config{SnapshotDir: dir})
	h.kbd.pressed = hal.Keys(hal.KeyP)
	_ = v.step()
	if v.snapshots != 1 {
		t.Fatalf("snapshots=%d", v.snapshots)
	}
	if _, err := os.Stat(filepath.Join(dir, "julia-000000.png")); err != nil {
		t.Fatalf("snapshot file: %v", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	h := &testHAL{fb: newTestFB(4, 4), kbd: &testKeys{}}
	_, err := New(h, Config{Log: slog.New(slog.DiscardHandler), Tiers: fractal.TierTable{{Threshold: 2, Budget: 1, Step: 1}}})
	if !errors.Is(err, fractal.ErrInvalidTiers) {
		t.Fatalf("err=%v, want ErrInvalidTiers", err)
	}

	bad := DefaultStart()
	bad.SpanY = -1
	_, err = New(h, Config{Log: slog.New(slog.DiscardHandler), Start: bad})
	if !errors.Is(err, fractal.ErrInvalidView) {
		t.Fatalf("err=%v, want ErrInvalidView", err)
	}

	_, err = New(&testHAL{kbd: &testKeys{}}, Config{Log: slog.New(slog.DiscardHandler)})
	if err == nil {
		t.Fatal("expected error without framebuffer")
	}
}
