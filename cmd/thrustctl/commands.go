package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/history"
	"codeberg.org/mutker/thrustctl/internal/loader"
	"codeberg.org/mutker/thrustctl/internal/logger"
	"codeberg.org/mutker/thrustctl/internal/pid"
	"codeberg.org/mutker/thrustctl/internal/plot"
	"codeberg.org/mutker/thrustctl/internal/stats"
	"codeberg.org/mutker/thrustctl/internal/table"
	"codeberg.org/mutker/thrustctl/internal/thrust"
	"codeberg.org/mutker/thrustctl/internal/watch"
	"github.com/spf13/pflag"
)

const (
	defaultRowLimit = 20
	watchLockName   = "thrustctl-watch"
)

func newFlagSet(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

// parseFile parses command flags and returns the single file argument
func parseFile(fs *pflag.FlagSet, args []string) (string, error) {
	errFactory := errors.New()

	if err := fs.Parse(args); err != nil {
		return "", errFactory.Wrap(errors.ErrInvalidArgument, err)
	}
	if fs.NArg() != 1 {
		return "", errFactory.WithMessage(errors.ErrInvalidArgument,
			fmt.Sprintf("%s expects exactly one CSV file", fs.Name()))
	}
	return fs.Arg(0), nil
}

// load reads path into the repository and returns the current series in
// the display unit
func (a *app) load(path string) (loader.Result, thrust.Series, error) {
	res, err := a.repo.LoadFile(path)
	if err != nil {
		return loader.Result{}, thrust.Series{}, err
	}

	current, err := a.repo.MustCurrent()
	if err != nil {
		return loader.Result{}, thrust.Series{}, err
	}

	return res, current.In(a.cfg.GetUnit()), nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := newFlagSet("summary")
	start := fs.Float64("start", 0, "Start of the averaging window in seconds")
	end := fs.Float64("end", 0, "End of the averaging window in seconds")

	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}

	windowed := fs.Changed("start") || fs.Changed("end")
	if windowed && !(fs.Changed("start") && fs.Changed("end")) {
		return errors.New().WithMessage(errors.ErrInvalidArgument, "--start and --end must be given together")
	}

	res, s, err := a.load(path)
	if err != nil {
		return err
	}

	sum := stats.Summarize(s)
	run := &history.Run{
		RecordedAt: time.Now(),
		Source:     res.Source,
		Samples:    sum.Samples,
		Unit:       s.Unit().String(),
	}

	fmt.Fprintf(a.out, "File: %s\n", res.Source)
	fmt.Fprintf(a.out, "Samples: %d\n", sum.Samples)
	if sum.Samples > 0 {
		fmt.Fprintf(a.out, "Time span: %g s to %g s\n", sum.MinTime, sum.MaxTime)
	}
	if sum.HasPeak {
		fmt.Fprintf(a.out, "Maximum Thrust: %.2f %s at %g s\n", sum.Peak.Thrust, s.Unit(), sum.Peak.Time)
		run.Peak = &history.PeakMetrics{Time: sum.Peak.Time, Thrust: sum.Peak.Thrust}
	} else {
		fmt.Fprintln(a.out, "Maximum Thrust: n/a")
	}

	if windowed {
		w, err := stats.Average(s, *start, *end)
		switch {
		case stats.IsEmptyRange(err):
			fmt.Fprintln(a.out, "No data in range!")
			run.Window = &history.WindowMetrics{Start: *start, End: *end}
		case err != nil:
			return err
		default:
			fmt.Fprintf(a.out, "Average Thrust: %.2f %s (%d samples, %g s to %g s)\n",
				w.Mean, s.Unit(), w.Samples, w.Start, w.End)
			mean := w.Mean
			run.Window = &history.WindowMetrics{Start: w.Start, End: w.End, Samples: w.Samples, Average: &mean}
		}
	}

	if err := a.history.Record(ctx, run); err != nil {
		logger.Warn().Err(err).Msg("Failed to record run")
	}

	return nil
}

func (a *app) plot(args []string) error {
	fs := newFlagSet("plot")
	output := fs.StringP("output", "o", a.cfg.GetPlot().Output, "PNG file to write (default: FILE with .png extension)")
	width := fs.Int("width", a.cfg.GetPlot().Width, "Image width in pixels")
	height := fs.Int("height", a.cfg.GetPlot().Height, "Image height in pixels")
	noPeak := fs.Bool("no-peak", false, "Do not annotate the maximum thrust")

	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	if *width <= 0 || *height <= 0 {
		return errors.New().WithMessage(errors.ErrInvalidArgument, "--width and --height must be positive")
	}

	_, s, err := a.load(path)
	if err != nil {
		return err
	}

	dest := *output
	if dest == "" {
		dest = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}

	opts := plot.Options{
		Width:    *width,
		Height:   *height,
		Title:    filepath.Base(path),
		MarkPeak: !*noPeak,
	}
	if err := plot.RenderFile(dest, s, opts); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Plot written to %s\n", dest)
	return nil
}

func (a *app) rows(args []string) error {
	fs := newFlagSet("rows")
	limit := fs.Int("limit", defaultRowLimit, "Maximum rows to print, 0 for all")
	xlsx := fs.String("xlsx", "", "Export every row to this .xlsx file instead of printing")

	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}

	if _, _, err := a.load(path); err != nil {
		return err
	}
	res, _ := a.repo.CurrentResult()

	df, err := table.Frame(res, a.cfg.GetUnit())
	if err != nil {
		return err
	}

	if *xlsx != "" {
		if err := table.ExportXLSX(*xlsx, df); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d rows exported to %s\n", df.Nrow(), *xlsx)
		return nil
	}

	if err := table.Render(a.out, table.Head(df, *limit)); err != nil {
		return err
	}
	if *limit > 0 && df.Nrow() > *limit {
		fmt.Fprintf(a.out, "... %d more rows\n", df.Nrow()-*limit)
	}
	return nil
}

func (a *app) watch(ctx context.Context, args []string) error {
	fs := newFlagSet("watch")
	debounce := fs.Duration("debounce", watch.DefaultDebounce, "Quiet period before reloading after a change")

	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}

	if err := pid.Write(watchLockName); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(watchLockName); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	unit := a.cfg.GetUnit()
	w := watch.New(path, a.repo,
		watch.WithDebounce(*debounce),
		watch.OnLoad(func(res loader.Result) {
			sum := stats.Summarize(res.Series.In(unit))
			ev := logger.Info().
				Str("path", res.Source).
				Int("samples", sum.Samples).
				Str("unit", unit.String())
			if sum.HasPeak {
				ev.Float64("max_thrust", sum.Peak.Thrust).Float64("peak_time", sum.Peak.Time)
			}
			ev.Msg("Summary")
		}),
	)

	return w.Run(ctx)
}

func (a *app) recent(ctx context.Context, args []string) error {
	fs := newFlagSet("history")
	limit := fs.Int("limit", history.DefaultRecentLimit, "Number of runs to list")
	if err := fs.Parse(args); err != nil {
		return errors.New().Wrap(errors.ErrInvalidArgument, err)
	}

	runs, err := a.history.Recent(ctx, *limit)
	if err != nil {
		return err
	}

	for _, r := range runs {
		line := fmt.Sprintf("%d\t%s\t%s\t%d samples", r.ID, r.RecordedAt.Format(time.RFC3339), r.Source, r.Samples)
		if r.Peak != nil {
			line += fmt.Sprintf("\tmax %.2f %s", r.Peak.Thrust, r.Unit)
		}
		if r.Window != nil {
			if r.Window.Average != nil {
				line += fmt.Sprintf("\tavg[%g,%g] %.2f %s", r.Window.Start, r.Window.End, *r.Window.Average, r.Unit)
			} else {
				line += fmt.Sprintf("\tavg[%g,%g] no data", r.Window.Start, r.Window.End)
			}
		}
		fmt.Fprintln(a.out, line)
	}

	return nil
}
