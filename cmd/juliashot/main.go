// Command juliashot renders a single Julia frame to an image file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"juliaview/fractal"
	"juliaview/internal/parallel"
	"juliaview/internal/snapshot"
)

type options struct {
	out     string
	view    fractal.View
	factor  int
	workers int
}

func parseFlags(args []string) (options, error) {
	var (
		o      options
		cx, cy float64
		cr, ci float64
		span   float64
		spanY  float64
	)
	fs := flag.NewFlagSet("juliashot", flag.ContinueOnError)
	fs.StringVar(&o.out, "o", "julia.png", "Output file (.png, .bmp, .tif, .tiff).")
	fs.IntVar(&o.view.Width, "width", 700, "Image width.")
	fs.IntVar(&o.view.Height, "height", 700, "Image height.")
	fs.Float64Var(&cx, "cx", 0, "Center, real part.")
	fs.Float64Var(&cy, "cy", 0, "Center, imaginary part.")
	fs.Float64Var(&cr, "cr", -0.75, "Julia constant, real part.")
	fs.Float64Var(&ci, "ci", 0.1, "Julia constant, imaginary part.")
	fs.Float64Var(&span, "span", 2, "Width of the view in the complex plane.")
	fs.Float64Var(&spanY, "span-y", 0, "Height of the view (0 = same as -span).")
	fs.IntVar(&o.view.Budget, "budget", 251, "Iteration budget.")
	fs.IntVar(&o.view.MaxBudget, "max-budget", 0, "Budget used for color normalization (0 = -budget).")
	fs.IntVar(&o.view.Step, "step", 1, "Iterations folded into one escape check.")
	fs.BoolVar(&o.view.Coarse, "coarse", false, "Render at reduced resolution and replicate pixels.")
	fs.IntVar(&o.factor, "factor", fractal.DefaultCoarseFactor, "Per-axis reduction for -coarse.")
	fs.IntVar(&o.workers, "workers", 0, "Render goroutines (0 = GOMAXPROCS).")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.view.Center = complex(cx, cy)
	o.view.C = complex(cr, ci)
	o.view.SpanX = span
	o.view.SpanY = spanY
	if spanY == 0 {
		o.view.SpanY = span
	}
	if o.view.MaxBudget == 0 {
		o.view.MaxBudget = o.view.Budget
	}
	if err := o.view.Validate(); err != nil {
		return o, err
	}
	if _, err := snapshot.FormatFor(o.out); err != nil {
		return o, err
	}
	return o, nil
}

func run(args []string, log *slog.Logger) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	r := fractal.NewRenderer(parallel.NewPool(o.workers))
	r.SetCoarseFactor(o.factor)
	buf := make([]uint32, o.view.Pixels())

	start := time.Now()
	r.Render(o.view, buf)
	log.Info("rendered", "size", fmt.Sprintf("%dx%d", o.view.Width, o.view.Height), "took", time.Since(start))

	if err := snapshot.Save(o.out, buf, o.view.Width, o.view.Height); err != nil {
		return err
	}
	log.Info("saved", "path", o.out)
	return nil
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "juliashot:", err)
		os.Exit(1)
	}
}
