package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/thrustctl/internal/config"
	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/history"
	"codeberg.org/mutker/thrustctl/internal/logger"
	"codeberg.org/mutker/thrustctl/internal/repository"
)

const usage = `Usage: thrustctl [--config FILE] [--log-level LEVEL] [--unit ozf|lbf] [--history] [--history-db FILE] COMMAND [flags]

Commands:
  summary FILE   Report maximum thrust and, with --start/--end, the average over a time window
  plot FILE      Render thrust vs time to a PNG
  rows FILE      Print the raw rows, or export them with --xlsx
  watch FILE     Reload FILE on every change and log its summary
  history        List recently analysed runs
`

// app carries what every command needs
type app struct {
	cfg     config.Provider
	repo    *repository.Repository
	history history.Recorder
	out     io.Writer
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		cancel()
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.FatalWithCode(appErr).Msg("thrustctl failed")
		}
		logger.Fatal().Err(err).Msg("thrustctl failed")
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	errFactory := errors.New()

	cfg, rest, err := config.Load(args)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.GetLogLevel().String())
	if err != nil {
		return err
	}
	logger.Init(level, logger.IsService())
	logger.Debug().
		Str("unit", cfg.GetUnit().String()).
		Bool("history", cfg.IsHistoryEnabled()).
		Msg("Config loaded")

	if len(rest) == 0 {
		fmt.Fprint(out, usage)
		return errFactory.WithMessage(errors.ErrInvalidArgument, "no command given")
	}

	recorder, err := history.NewService(history.Config{
		DBPath:  cfg.GetHistoryDBPath(),
		Enabled: cfg.IsHistoryEnabled(),
	}, logger.Default())
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close history")
		}
	}()

	a := &app{
		cfg:     cfg,
		repo:    repository.New(),
		history: recorder,
		out:     out,
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "summary":
		return a.summary(ctx, cmdArgs)
	case "plot":
		return a.plot(cmdArgs)
	case "rows":
		return a.rows(cmdArgs)
	case "watch":
		return a.watch(ctx, cmdArgs)
	case "history":
		return a.recent(ctx, cmdArgs)
	case "help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return errFactory.WithData(errors.ErrUnknownAction, cmd)
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
