package fractal

import (
	"fmt"

	"juliaview/internal/parallel"
)

// DefaultCoarseFactor is the per-axis reduction used for coarse views.
const DefaultCoarseFactor = 2

// Renderer turns a View into pixels. It owns no buffers; every call writes
// only into the slice it is given and returns after all pixels are final.
//
// Renderer is safe for concurrent use, but callers normally drive it from a
// single control goroutine.
type Renderer struct {
	pool   *parallel.Pool
	factor int
}

// NewRenderer returns a renderer that spreads work over pool. A nil pool
// renders on the calling goroutine.
func NewRenderer(pool *parallel.Pool) *Renderer {
	return &Renderer{pool: pool, factor: DefaultCoarseFactor}
}

// SetCoarseFactor changes the per-axis reduction used when View.Coarse is
// set. Values below 2 are ignored.
func (r *Renderer) SetCoarseFactor(f int) {
	if f >= 2 {
		r.factor = f
	}
}

// CoarseFactor returns the per-axis reduction used for coarse views.
func (r *Renderer) CoarseFactor() int { return r.factor }

// Render fills out with the image described by v, at full resolution or,
// for coarse views, at reduced resolution replicated into blocks.
// out must hold exactly v.Width*v.Height pixels.
func (r *Renderer) Render(v View, out []uint32) {
	mustFit(v, out)
	if !v.Coarse {
		r.RenderField(v, out)
		return
	}

	f := r.factor
	low := v
	low.Width = v.Width / f
	low.Height = v.Height / f
	low.Coarse = false
	if low.Width == 0 || low.Height == 0 {
		r.RenderField(low.withSize(v.Width, v.Height), out)
		return
	}

	scratch := make([]uint32, low.Pixels())
	r.RenderField(low, scratch)
	r.upsample(scratch, low.Width, low.Height, out, v.Width, v.Height)
}

// RenderField evaluates every pixel of v at full resolution, ignoring
// v.Coarse. out must hold exactly v.Width*v.Height pixels.
func (r *Renderer) RenderField(v View, out []uint32) {
	mustFit(v, out)
	w := v.Width
	r.pool.For(v.Height, r.pool.ChunkFor(v.Height, 1), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := out[y*w : (y+1)*w]
			for x := range row {
				n, ok := Evaluate(v.Point(x, y), v.C, v.Budget, v.Step)
				if !ok {
					n = v.Budget
				}
				row[x] = Shade(n, v.MaxBudget)
			}
		}
	})
}

// upsample replicates each source pixel into a factor x factor block of dst.
// Rows and columns past the last full block reuse the last source pixel.
func (r *Renderer) upsample(src []uint32, sw, sh int, dst []uint32, dw, dh int) {
	f := r.factor
	r.pool.For(dh, r.pool.ChunkFor(dh, f), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			sy := min(y/f, sh-1)
			srow := src[sy*sw : (sy+1)*sw]
			drow := dst[y*dw : (y+1)*dw]
			for x := range drow {
				drow[x] = srow[min(x/f, sw-1)]
			}
		}
	})
}

func (v View) withSize(w, h int) View {
	v.Width = w
	v.Height = h
	return v
}

func mustFit(v View, out []uint32) {
	if len(out) != v.Pixels() {
		panic(fmt.Sprintf("fractal: buffer holds %d pixels, view needs %dx%d", len(out), v.Width, v.Height))
	}
}
