package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	HostConfig
	Enabled bool
	// Ticks stops the runner after N ticks (0 = run until ctx is done).
	Ticks uint64
	// Hold lists keys reported as held on every tick.
	Hold KeySet
	// Final, if set, receives the last presented frame when the runner stops
	// without error.
	Final func(pixels []uint32, width, height int) error
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) (func() error, error), cfg HeadlessConfig) error {
	cfg.defaults()
	h := newHost(cfg.HostConfig)
	h.kbd = newHeldKeyboard(cfg.Hold)
	step, err := newApp(h)
	if err != nil {
		return err
	}
	err = runTicks(ctx, h, step, cfg, nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if cfg.Final != nil {
		frame := make([]uint32, len(h.fb.front))
		h.fb.snapshot(frame)
		if ferr := cfg.Final(frame, h.fb.width, h.fb.height); ferr != nil {
			return ferr
		}
	}
	return err
}

// runTicks drives step at cfg.Hz until ctx is done, the tick limit is hit or
// step fails. afterStep runs once per tick after step.
func runTicks(ctx context.Context, h *hostHAL, step func() error, cfg HeadlessConfig, afterStep func()) error {
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.kbd.poll()
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			}
			if afterStep != nil {
				afterStep()
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
