package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_app/internal/daemon"
	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
	"github.com/eliteGoblin/focusd/focus_app/internal/policy"
	"github.com/eliteGoblin/focusd/focus_app/internal/usecase"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run focusapp (or bring the running instance to the front)",
	Long: `Takes the single-instance lock and runs the focus watchdog.
If another instance already owns the lock, asks it to show its window
and exits.

Ctrl+C hides the window and keeps watching. Send SIGTERM to quit.`,
	RunE: runRun,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start focusapp in the background, hidden and watching",
	RunE:  runStart,
}

var (
	runInterval string
	runHidden   bool
	runWatch    bool
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runInterval, "interval", "", "Check interval in seconds (default from config)")
	cmd.Flags().BoolVar(&runHidden, "hidden", false, "Start with the window hidden and watching")
	cmd.Flags().BoolVar(&runWatch, "watch", false, "Start watching immediately")
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	logger := env.newLogger()
	defer func() { _ = logger.Sync() }()

	coordinator := daemon.NewCoordinator(
		daemon.DefaultCoordinatorConfig(),
		infra.NewInstanceLock(env.paths),
		infra.NewWakeTransport(env.paths),
		logger,
	)

	role, err := coordinator.Acquire()
	if err != nil {
		return fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	if role == domain.RoleClient {
		if err := coordinator.NotifyOwner(); err != nil {
			logger.Debug("failed to wake running instance", zap.Error(err))
		}
		return nil
	}
	defer func() { _ = coordinator.Close() }()

	pm := infra.NewProcessManager()
	if err := infra.WritePIDFile(env.paths.PIDPath, pm.GetCurrentPID()); err != nil {
		logger.Warn("failed to write pid file", zap.Error(err))
	}
	defer func() { _ = infra.RemovePIDFile(env.paths.PIDPath) }()

	store := infra.NewAllowListStore(env.allowListPath())
	allowList := policy.NewAllowList(daemon.LoadAllowList(store, logger)...)

	var journal domain.DistractionJournal
	if env.config.JournalEnabled() {
		j, err := infra.OpenJournal(env.paths.DataDir)
		if err != nil {
			logger.Warn("distraction journal unavailable", zap.Error(err))
		} else {
			defer j.Close()
			journal = j
		}
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	loop := daemon.NewLoop(daemon.DefaultLoopBuffer)
	watchdog := usecase.NewWatchdog(
		usecase.WatchdogConfig{
			Notify:   env.config.NotifyEnabled(),
			Minimize: env.config.MinimizeEnabled(),
		},
		infra.NewForegroundInspector(pm),
		allowList,
		store,
		infra.NewDesktopNotifier(),
		journal,
		loop,
		logger,
	)

	intervalText := env.config.IntervalText()
	if runInterval != "" {
		intervalText = runInterval
	}

	shell := daemon.NewShell(
		daemon.ShellConfig{
			IntervalText:   intervalText,
			StartWatching:  runWatch || runHidden,
			StartupOnClose: env.config.StartupOnCloseEnabled(),
		},
		loop,
		coordinator,
		watchdog,
		allowList,
		store,
		infra.NewMainWindow(!runHidden),
		infra.NewStartupRegistrar(),
		execPath,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGINT is the window's close button; SIGTERM quits.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for {
			select {
			case sig := <-sigChan:
				if sig == syscall.SIGINT {
					logger.Info("close requested")
					shell.Post(shell.RequestClose)
					continue
				}
				logger.Info("received shutdown signal")
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	if !runHidden && isatty.IsTerminal(os.Stdin.Fd()) {
		go daemon.NewConsole(shell, os.Stdin, os.Stdout, cancel).Run()
	}

	logger.Info("focusapp started",
		zap.String("version", Version),
		zap.String("allowlist", store.Path()),
		zap.Int("entries", allowList.Len()),
		zap.Bool("hidden", runHidden),
	)

	if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("focusapp stopped")
	return nil
}

func runStart(cmd *cobra.Command, args []string) error {
	var extra []string
	if configPath != "" {
		extra = append(extra, "--config", configPath)
	}
	if allowListFlag != "" {
		extra = append(extra, "--allowlist", allowListFlag)
	}
	if systemLog {
		extra = append(extra, "--system-log")
	}

	pid, err := daemon.StartDetached(extra...)
	if err != nil {
		return err
	}
	fmt.Printf("focusapp started in the background (pid %d)\n", pid)
	fmt.Println("Run 'focusapp' again to bring up its window.")
	return nil
}
