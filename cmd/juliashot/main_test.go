package main

import (
	"errors"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"juliaview/fractal"
)

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.view.SpanY != 2 || o.view.MaxBudget != 251 || o.view.C != complex(-0.75, 0.1) {
		t.Fatalf("view=%+v", o.view)
	}
}

func TestParseFlagsRejects(t *testing.T) {
	if _, err := parseFlags([]string{"-width", "0"}); !errors.Is(err, fractal.ErrInvalidView) {
		t.Fatalf("err=%v, want ErrInvalidView", err)
	}
	if _, err := parseFlags([]string{"-budget", "300", "-max-budget", "200"}); !errors.Is(err, fractal.ErrInvalidView) {
		t.Fatalf("err=%v, want ErrInvalidView", err)
	}
	if _, err := parseFlags([]string{"-o", "x.gif"}); err == nil {
		t.Fatal("expected unknown format error")
	}
}

func TestRunWritesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "j.png")
	err := run([]string{"-o", out, "-width", "20", "-height", "10", "-budget", "40", "-coarse"}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("bounds=%v", b)
	}
}
