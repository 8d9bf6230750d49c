package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"juliaview/app"
	"juliaview/hal"
	"juliaview/internal/buildinfo"
	"juliaview/internal/snapshot"
)

func main() {
	var (
		host     hal.HostConfig
		headless hal.HeadlessConfig
		scale    int
		streamTo string
		drift    bool
		shotPath string
		verbose  bool
		appCfg   app.Config
	)
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&host.Hz, "hz", 60, "Tick rate.")
	flag.IntVar(&host.Width, "width", 700, "Framebuffer width in pixels.")
	flag.IntVar(&host.Height, "height", 700, "Framebuffer height in pixels.")
	flag.IntVar(&scale, "scale", 1, "Window size multiplier.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&streamTo, "stream", "", "Serve frames to browsers on this address (implies headless), e.g. :8080.")
	flag.BoolVar(&drift, "drift", false, "Hold the drift key in headless mode.")
	flag.StringVar(&shotPath, "snapshot", "", "Save the last frame to this file when headless mode stops (.png, .bmp, .tiff).")
	flag.StringVar(&appCfg.SnapshotDir, "snapshot-dir", ".", "Directory for snapshots taken with P.")
	flag.IntVar(&appCfg.Workers, "workers", 0, "Render goroutines (0 = GOMAXPROCS).")
	flag.BoolVar(&appCfg.HUD, "hud", false, "Show the status line.")
	flag.BoolVar(&verbose, "v", false, "Log tier changes and render times.")
	flag.Parse()

	if verbose {
		appCfg.LogLevel = slog.LevelDebug
	}
	if shotPath != "" {
		if _, err := snapshot.FormatFor(shotPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	newApp := func(h hal.HAL) (func() error, error) {
		hal.NewSlog(h.Logger(), appCfg.LogLevel).Info("starting", "build", buildinfo.String())
		return app.New(h, appCfg)
	}

	headless.HostConfig = host
	if drift {
		headless.Hold = hal.Keys(hal.KeySpace)
	}
	if shotPath != "" {
		headless.Final = func(pixels []uint32, w, h int) error {
			return snapshot.Save(shotPath, pixels, w, h)
		}
	}

	var err error
	switch {
	case streamTo != "":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunStream(ctx, newApp, hal.StreamConfig{
			HeadlessConfig: headless,
			Addr:           streamTo,
			Log:            slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: appCfg.LogLevel})),
		})
	case headless.Enabled:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, newApp, headless)
	default:
		err = hal.RunWindow(newApp, hal.WindowConfig{HostConfig: host, Scale: scale})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
