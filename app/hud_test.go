package app

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"juliaview/fractal"
)

func TestFBDisplayClips(t *testing.T) {
	fb := newTestFB(4, 3)
	d := &fbDisplay{fb: fb}
	d.SetPixel(-1, 0, color.RGBA{R: 1})
	d.SetPixel(4, 0, color.RGBA{R: 1})
	d.SetPixel(3, 2, color.RGBA{R: 0x12, G: 0x34, B: 0x56})
	if fb.px[2*4+3] != 0x123456 {
		t.Fatalf("pixel=%06x", fb.px[2*4+3])
	}
	for i, p := range fb.px[:len(fb.px)-1] {
		if p != 0 {
			t.Fatalf("pixel %d written out of bounds", i)
		}
	}

	d.FillRectangle(2, 1, 10, 10, color.RGBA{B: 0xff})
	if fb.px[1*4+1] != 0 || fb.px[1*4+2] != 0xff || fb.px[2*4+3] != 0xff {
		t.Fatalf("fill wrong: %06x", fb.px)
	}
}

func TestHUDText(t *testing.T) {
	v := fractal.View{Budget: 201, Step: 3, Coarse: true}
	s := hudText(1, v, 1234*time.Microsecond)
	for _, want := range []string{"T1", "n0=201", "step=3", "coarse", "1.2ms"} {
		if !strings.Contains(s, want) {
			t.Fatalf("hud %q missing %q", s, want)
		}
	}
}
