package hal

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// HostConfig is shared by every host runner.
type HostConfig struct {
	Width  int
	Height int
	// Hz is the tick rate.
	Hz int
}

func (c *HostConfig) defaults() {
	if c.Width <= 0 {
		c.Width = 700
	}
	if c.Height <= 0 {
		c.Height = 700
	}
	if c.Hz <= 0 {
		c.Hz = 60
	}
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    hostKeys
}

// hostKeys is a keyboard that samples its state once per tick.
type hostKeys interface {
	Keyboard
	poll()
}

// New returns a host HAL implementation with a width x height framebuffer.
func New(width, height int) HAL {
	return newHost(HostConfig{Width: width, Height: height})
}

func newHost(cfg HostConfig) *hostHAL {
	cfg.defaults()
	return &hostHAL{
		logger: &hostLogger{w: os.Stderr},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd Keyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// LogWriter adapts a line Logger to an io.Writer. Each line of p becomes one
// log line.
func LogWriter(l Logger) io.Writer { return lineWriter{l: l} }

type lineWriter struct {
	l Logger
}

func (w lineWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte{'\n'}) {
		w.l.WriteLineBytes(line)
	}
	return len(p), nil
}

// NewSlog returns a text slog.Logger writing through l.
func NewSlog(l Logger, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(LogWriter(l), &slog.HandlerOptions{Level: level}))
}

// heldKeyboard reports a fixed set of held keys every tick.
type heldKeyboard struct {
	held    KeySet
	pressed KeySet
	first   bool
}

func newHeldKeyboard(held KeySet) *heldKeyboard {
	return &heldKeyboard{held: held, first: true}
}

func (k *heldKeyboard) Held() KeySet    { return k.held }
func (k *heldKeyboard) Pressed() KeySet { return k.pressed }

func (k *heldKeyboard) poll() {
	if k.first {
		k.pressed = k.held
		k.first = false
		return
	}
	k.pressed = 0
}
