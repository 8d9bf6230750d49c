package app

import (
	"fmt"
	"image/color"
	"time"

	"juliaview/fractal"
	"juliaview/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorHUDFG = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorHUDBG = color.RGBA{R: 0x08, G: 0x08, B: 0x10, A: 0xff}
)

// fbDisplay lets tinyfont draw into a framebuffer.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	w, h := d.fb.Width(), d.fb.Height()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}
	d.fb.Pixels()[iy*w+ix] = fractal.PackRGB(c.R, c.G, c.B)
}

func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) {
	w, h := d.fb.Width(), d.fb.Height()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	pixel := fractal.PackRGB(c.R, c.G, c.B)
	px := d.fb.Pixels()
	for py := y0; py < y1; py++ {
		row := px[py*w : (py+1)*w]
		for i := x0; i < x1; i++ {
			row[i] = pixel
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hud draws a one-line status bar over the presented frame.
type hud struct {
	d    *fbDisplay
	font tinyfont.Fonter
}

func newHUD(fb hal.Framebuffer) *hud {
	return &hud{d: &fbDisplay{fb: fb}, font: &proggy.TinySZ8pt7b}
}

func hudText(tier int, v fractal.View, took time.Duration) string {
	res := "full"
	if v.Coarse {
		res = "coarse"
	}
	return fmt.Sprintf("T%d n0=%d step=%d %s %s", tier, v.Budget, v.Step, res, took.Round(100*time.Microsecond))
}

func (h *hud) draw(text string) {
	const (
		pad      = 2
		baseline = 10
		height   = 13
	)
	_, outbox := tinyfont.LineWidth(h.font, text)
	h.d.FillRectangle(0, 0, int16(outbox)+2*pad, height, colorHUDBG)
	tinyfont.WriteLine(h.d, h.font, pad, baseline, text, colorHUDFG)
}
