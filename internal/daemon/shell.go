package daemon

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/policy"
	"github.com/eliteGoblin/focusd/focus_app/internal/usecase"
)

// ShellConfig holds owner startup behavior.
type ShellConfig struct {
	IntervalText   string // initial content of the interval field
	StartWatching  bool   // begin a session as soon as the loop runs
	StartupOnClose bool   // register launch-at-login when the window is closed
}

// quarantiner is implemented by stores that can set a corrupt file aside.
type quarantiner interface {
	Quarantine() (string, error)
}

// Shell is the owner process: it ties the main window, the allow-list, the
// watchdog and the wake listener together on one UI loop.
//
// Methods other than Run, Post and IntervalText must be called on the loop.
type Shell struct {
	config      ShellConfig
	loop        *Loop
	coordinator *Coordinator
	watchdog    *usecase.Watchdog
	allowList   *policy.AllowList
	store       domain.AllowListStore
	window      domain.MainWindow
	startup     domain.StartupRegistrar
	execPath    string
	logger      *zap.Logger

	mu           sync.Mutex
	intervalText string
}

// NewShell creates the owner shell.
func NewShell(
	config ShellConfig,
	loop *Loop,
	coordinator *Coordinator,
	watchdog *usecase.Watchdog,
	allowList *policy.AllowList,
	store domain.AllowListStore,
	window domain.MainWindow,
	startup domain.StartupRegistrar,
	execPath string,
	logger *zap.Logger,
) *Shell {
	text := config.IntervalText
	if text == "" {
		text = policy.DefaultIntervalText
	}
	return &Shell{
		config:       config,
		loop:         loop,
		coordinator:  coordinator,
		watchdog:     watchdog,
		allowList:    allowList,
		store:        store,
		window:       window,
		startup:      startup,
		execPath:     execPath,
		logger:       logger,
		intervalText: text,
	}
}

// LoadAllowList reads the persisted allow-list. A corrupt file is moved aside
// and an empty list returned, so the next save cannot destroy it.
func LoadAllowList(store domain.AllowListStore, logger *zap.Logger) []string {
	entries, err := store.Load()
	if err == nil {
		return entries
	}

	if errors.Is(err, domain.ErrPersistenceCorrupt) {
		fields := []zap.Field{zap.String("path", store.Path()), zap.Error(err)}
		if q, ok := store.(quarantiner); ok {
			if moved, qerr := q.Quarantine(); qerr == nil {
				fields = append(fields, zap.String("moved_to", moved))
			} else {
				fields = append(fields, zap.NamedError("quarantine_error", qerr))
			}
		}
		logger.Warn("allow-list is corrupt, starting with an empty list", fields...)
		return []string{}
	}

	logger.Warn("failed to load allow-list, starting with an empty list",
		zap.String("path", store.Path()), zap.Error(err))
	return []string{}
}

// Run owns the process until ctx is canceled: it serves wake commands,
// persists allow-list edits and runs the UI loop on the calling goroutine.
func (s *Shell) Run(ctx context.Context) error {
	unsubscribe := s.allowList.Subscribe(s.persist)
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.coordinator.Serve(ctx, func() {
			s.loop.Post(s.OnWake)
		})
	}()

	if s.config.StartWatching {
		s.loop.Post(func() { s.StartWatching(s.IntervalText()) })
	}

	s.logger.Info("focus app running",
		zap.Int("allowed_apps", s.allowList.Len()),
		zap.Bool("visible", s.window.IsVisible()))

	err := s.loop.Run(ctx)

	// The loop has exited, so this goroutine is the UI thread now.
	s.watchdog.Stop()
	wg.Wait()

	s.logger.Info("focus app stopped", zap.Int("distractions", s.watchdog.Distractions()))
	return err
}

// Post queues fn on the UI loop.
func (s *Shell) Post(fn func()) bool {
	return s.loop.Post(fn)
}

// OnWake shows and activates the main window after another instance asked for it.
func (s *Shell) OnWake() {
	if err := s.window.Show(); err != nil {
		s.logger.Warn("failed to show main window", zap.Error(err))
	}
	if err := s.window.Activate(); err != nil {
		s.logger.Warn("failed to activate main window", zap.Error(err))
	}
	s.logger.Info("main window restored by another instance")
}

// StartWatching starts (or re-arms) a focus session and corrects the interval field.
func (s *Shell) StartWatching(intervalText string) {
	_, display := s.watchdog.Start(intervalText)
	s.setIntervalText(display)
}

// StopWatching ends the current session.
func (s *Shell) StopWatching() {
	s.watchdog.Stop()
}

// AddApp appends path to the allow-list. Blank paths are ignored.
func (s *Shell) AddApp(path string) bool {
	return s.allowList.Add(path)
}

// RemoveApp removes the first entry equal to path.
func (s *Shell) RemoveApp(path string) bool {
	return s.allowList.Remove(path)
}

// RequestClose intercepts a window close: the app goes to the background and
// keeps watching instead of exiting.
func (s *Shell) RequestClose() {
	if s.config.StartupOnClose && s.startup != nil && s.execPath != "" {
		if err := s.startup.Register(s.execPath); err != nil {
			s.logger.Warn("failed to register launch at login",
				zap.String("entry", s.startup.EntryPath()),
				zap.Error(err))
		}
	}

	s.setIntervalText(policy.DefaultIntervalText)
	if s.watchdog.State() == domain.StateIdle {
		s.StartWatching(s.IntervalText())
	}

	if err := s.window.Hide(); err != nil {
		s.logger.Warn("failed to hide main window", zap.Error(err))
	}
	s.logger.Info("main window closed, watching in background",
		zap.String("interval", s.IntervalText()))
}

// State returns the watchdog state.
func (s *Shell) State() domain.WatchState {
	return s.watchdog.State()
}

// IntervalText returns the interval field content.
func (s *Shell) IntervalText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intervalText
}

func (s *Shell) setIntervalText(text string) {
	s.mu.Lock()
	s.intervalText = text
	s.mu.Unlock()
}

// persist saves the allow-list after every edit.
func (s *Shell) persist(c policy.Change) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(c.Items); err != nil {
		s.logger.Warn("failed to persist allow-list",
			zap.String("path", s.store.Path()),
			zap.Error(err))
	}
}
