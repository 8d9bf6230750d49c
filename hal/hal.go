package hal

import "errors"

// ErrQuit is returned by an app step to stop a runner without error.
var ErrQuit = errors.New("quit")

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatXRGB8888 is one uint32 per pixel: 0x00RRGGBB.
	PixelFormatXRGB8888 PixelFormat = iota + 1
)

// Framebuffer is a back buffer plus a "present" hook.
//
// Callers draw into Pixels and call Present once the frame is complete;
// presenters only ever show presented frames.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	Pixels() []uint32
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint8

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyS
	KeySpace
	KeyShift
	KeyEscape
	KeyR
	KeyP
	KeyH
)

// KeySet is a set of keys.
type KeySet uint32

// Keys returns the set holding codes.
func Keys(codes ...KeyCode) KeySet {
	var s KeySet
	for _, c := range codes {
		s = s.With(c)
	}
	return s
}

// Has reports whether k is in the set.
func (s KeySet) Has(k KeyCode) bool { return s&(1<<k) != 0 }

// With returns the set plus k.
func (s KeySet) With(k KeyCode) KeySet { return s | 1<<k }

// Keyboard reports key state as of the current tick.
type Keyboard interface {
	// Held returns the keys that are down.
	Held() KeySet
	// Pressed returns the keys that went down since the previous tick.
	Pressed() KeySet
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// HAL provides the only contact point between the viewer and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
