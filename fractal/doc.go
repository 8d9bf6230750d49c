// Package fractal renders quadratic Julia sets into packed 0x00RRGGBB pixel
// buffers.
//
// A View describes one frame. Renderer.Render evaluates it, in parallel, at
// full resolution or, for coarse views, at reduced resolution replicated
// into blocks. RenderState and TierTable form the quality controller: each
// tick they pick the iteration budget, fold step and resolution from how
// long the view has been idle, and report whether a new render is owed.
package fractal
