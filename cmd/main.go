// Command breaktime is a break reminder living in the system tray.
//
// Running it without a command prints help. Any other command starts the
// tray instance and applies the command to it, so "breaktime resume" is
// the usual way to launch it. While an instance runs, further commands are
// rejected because they cannot be forwarded to it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"breaktime/internal/app"
	"breaktime/internal/core/command"
	"breaktime/internal/core/morning"
	"breaktime/internal/core/naturalbreak"
	"breaktime/internal/core/timekeeper"
	"breaktime/internal/logging"
	"breaktime/internal/metrics"
	"breaktime/internal/platform"
	"breaktime/internal/storage"
	"breaktime/internal/ui/notify"
	"breaktime/internal/ui/tray"
	"breaktime/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/pflag"
)

const (
	appName = "BreakTime"
	appID   = "io.breaktime.app"
	version = "1.0.0"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	eventBufferSize = 16
)

type hostOptions struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsAddr string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	options, err := parseHostFlags(command.HostFlags(args))
	if err != nil {
		fmt.Fprintf(stderr, "breaktime: %v\n", err)
		return exitUsage
	}

	level, err := logging.ParseLevel(options.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "breaktime: %v\n", err)
		return exitUsage
	}
	logger, err := logging.New(level, options.logFormat)
	if err != nil {
		fmt.Fprintf(stderr, "breaktime: %v\n", err)
		return exitUsage
	}
	slog.SetDefault(logger)

	cmd := command.New(args, version, command.WithLogger(logger))
	if err := cmd.Err(); err != nil {
		fmt.Fprintf(stderr, "breaktime: %v\n\n", err)
		fmt.Fprint(stderr, command.HelpText())
		return exitUsage
	}
	if !cmd.RunOrForward(stdout) {
		return exitOK
	}

	settings, err := storage.LoadSettings(appName, options.configPath)
	if err != nil {
		logger.Error("load settings", "error", err)
		return exitFailure
	}
	if options.metricsAddr != "" {
		settings.MetricsAddr = options.metricsAddr
	}

	lock, err := platform.AcquireInstanceLock(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Error("another instance is running and cannot receive commands", "command", cmd.Name, "error", err)
		return exitFailure
	}
	if err != nil {
		logger.Error("acquire instance lock", "error", err)
		return exitFailure
	}
	defer func() {
		_ = lock.Release()
	}()

	return runMainInstance(cmd, settings, logger)
}

func parseHostFlags(hostFlags []string) (hostOptions, error) {
	var options hostOptions
	flags := pflag.NewFlagSet("breaktime", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.StringVar(&options.configPath, "config", "", "path to settings.yaml")
	flags.StringVar(&options.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&options.logFormat, "log-format", logging.FormatAuto, "log format (auto, text, json)")
	flags.StringVar(&options.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	if err := flags.Parse(hostFlags); err != nil {
		return options, fmt.Errorf("parse host flags: %w", err)
	}
	return options, nil
}

func runMainInstance(cmd *command.Command, settings storage.Settings, logger *slog.Logger) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recorder *metrics.Recorder
	if settings.MetricsAddr != "" {
		recorder = metrics.New()
		go func() {
			if err := metrics.Serve(ctx, settings.MetricsAddr, recorder.Handler(), logger); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	keeper := timekeeper.New(settings.TimeKeeperConfig(), timekeeper.Config{})
	natural := naturalbreak.New(settings, platform.NewIdleProvider(), naturalbreak.Config{Logger: logger})
	controller := app.New(keeper, natural, settings,
		app.WithLogger(logger),
		app.WithMetrics(recorder),
		app.WithMorningClock(morning.New(settings.MorningHour)),
	)
	uiEvents := keeper.Subscribe(eventBufferSize)

	go natural.Watch(ctx)
	go controller.Run(ctx)
	keeper.Start()
	defer natural.Close()
	defer keeper.Stop()

	if err := controller.Execute(cmd); err != nil {
		logger.Error("apply startup command", "command", cmd.Name, "error", err)
		return exitUsage
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.SetIcon(resources.ActiveIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return exitFailure
	}

	trayManager := tray.New(desktopApp, controller, tray.Icons{
		Active: resources.ActiveIcon(),
		Paused: resources.PausedIcon(),
	}, version, logger, fyneApp.Quit)
	presenter := notify.New(fyneApp)

	go func() {
		for event := range uiEvents {
			fyne.Do(func() {
				trayManager.HandleEvent(event)
				presenter.HandleEvent(event)
			})
		}
	}()

	logger.Info("breaktime started", "version", version, "natural_breaks", settings.NaturalBreaks())
	fyneApp.Run()
	logger.Info("breaktime stopped")
	return exitOK
}
