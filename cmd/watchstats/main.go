package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/watchstats/internal/bus"
	"github.com/standardbeagle/watchstats/internal/config"
	"github.com/standardbeagle/watchstats/internal/coordinator"
	"github.com/standardbeagle/watchstats/internal/debug"
	"github.com/standardbeagle/watchstats/internal/registry"
	"github.com/standardbeagle/watchstats/internal/render"
	"github.com/standardbeagle/watchstats/internal/reporter"
	"github.com/standardbeagle/watchstats/internal/watch"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:                   "watchstats",
		Usage:                  "Tail a directory of log files and report rolling stats",
		Version:                version,
		UseShortOptionHandling: true,
		ArgsUsage:              "<watch-path>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Number of processing worker goroutines"},
			&cli.IntFlag{Name: "queue-capacity", Aliases: []string{"q"}, Usage: "Bounded event bus capacity"},
			&cli.IntFlag{Name: "report-interval", Aliases: []string{"i"}, Usage: "Report interval, in seconds"},
			&cli.IntFlag{Name: "topk", Aliases: []string{"k"}, Usage: "Number of top message keys to report"},
			&cli.IntFlag{Name: "chunk-size", Usage: "Tailer read-buffer size, in bytes"},
			&cli.IntFlag{Name: "dequeue-timeout-ms", Usage: "Worker try_dequeue timeout, in milliseconds"},
			&cli.StringSliceFlag{Name: "ext", Usage: "File extension treated as processable, e.g. --ext .log (repeatable)"},
			&cli.StringSliceFlag{Name: "exclude", Aliases: []string{"e"}, Usage: "Glob pattern excluded from processing, e.g. --exclude '**/archive/**' (repeatable)"},
			&cli.BoolFlag{Name: "quiet", Usage: "Suppress the periodic text report"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := &config.Config{}
	if c.Args().Len() > 0 {
		cfg.WatchPath = c.Args().First()
	}
	if cfg.WatchPath != "" {
		if abs, err := filepath.Abs(cfg.WatchPath); err == nil {
			cfg.WatchPath = abs
		}
	}

	if cfg.WatchPath != "" {
		fileDefaults, err := config.LoadDefaultsFile(cfg.WatchPath)
		if err != nil {
			return fmt.Errorf("loading .watchstats.kdl: %w", err)
		}
		cfg.ApplyDefaultsFile(fileDefaults)
	}

	cfg.ApplyBuiltinDefaults()

	// Explicit CLI flags are applied last, unconditionally, so they win
	// over both the file and the built-in defaults. This must not use the
	// same "fill if zero" merge as the layers above it: an explicit
	// --workers 0 has to reach Validate as a real zero, not be mistaken
	// for "unset" and silently re-filled from the file or the default.
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("queue-capacity") {
		cfg.QueueCapacity = c.Int("queue-capacity")
	}
	if c.IsSet("report-interval") {
		cfg.ReportIntervalSec = c.Int("report-interval")
	}
	if c.IsSet("topk") {
		cfg.TopK = c.Int("topk")
	}
	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("dequeue-timeout-ms") {
		cfg.DequeueTimeoutMs = c.Int("dequeue-timeout-ms")
	}
	if exts := c.StringSlice("ext"); len(exts) > 0 {
		cfg.Extensions = exts
	}
	if excl := c.StringSlice("exclude"); len(excl) > 0 {
		cfg.Exclude = excl
	}
	if c.Bool("quiet") {
		cfg.Quiet = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return serve(cfg)
}

func serve(cfg *config.Config) error {
	b := bus.New(cfg.QueueCapacity)
	reg := registry.New()
	coord := coordinator.New(b, reg, cfg.Workers, cfg.DequeueTimeoutMs, cfg.ChunkSize)

	var rep *reporter.Reporter
	if !cfg.Quiet {
		rep = reporter.New(coord.Slots(), time.Duration(cfg.ReportIntervalSec)*time.Second, cfg.TopK, render.NewTextRenderer(os.Stdout))
	}

	matcher := watch.NewMatcher(cfg.Extensions, cfg.Exclude)
	watcher, err := watch.New(b, matcher)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Start(cfg.WatchPath); err != nil {
		return fmt.Errorf("starting watcher on %s: %w", cfg.WatchPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	coord.Start(ctx)

	var reportCtx context.Context
	var reportCancel context.CancelFunc
	if rep != nil {
		reportCtx, reportCancel = context.WithCancel(context.Background())
		go rep.Run(reportCtx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	debug.LogCoordinator("received signal %v, shutting down", sig)

	cancel()
	if reportCancel != nil {
		reportCancel()
		rep.Wait()
	}
	if err := watcher.Stop(); err != nil {
		debug.LogWatch("error stopping watcher: %v", err)
	}
	return coord.Stop()
}
