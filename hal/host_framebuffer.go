package hal

import "sync"

type hostFramebuffer struct {
	width  int
	height int
	back   []uint32

	mu     sync.Mutex
	front  []uint32
	frames uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	return &hostFramebuffer{
		width:  width,
		height: height,
		back:   make([]uint32, width*height),
		front:  make([]uint32, width*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatXRGB8888 }
func (f *hostFramebuffer) Pixels() []uint32    { return f.back }

// Present publishes the back buffer. Readers never see a frame that is still
// being drawn.
func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.front, f.back)
	f.frames++
	return nil
}

// snapshot copies the last presented frame into dst and returns how many
// frames have been presented so far.
func (f *hostFramebuffer) snapshot(dst []uint32) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
	return f.frames
}

// presented returns the number of presented frames.
func (f *hostFramebuffer) presented() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}
