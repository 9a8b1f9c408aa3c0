// Package usecase contains application business logic.
package usecase

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/policy"
)

// Ticker is the part of time.Ticker the watchdog uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a recurring ticker with the given period.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// WatchdogConfig holds watchdog behavior switches.
type WatchdogConfig struct {
	Notify   bool // show a desktop notification on distraction
	Minimize bool // minimize the offending window
}

// DefaultWatchdogConfig returns default watchdog configuration.
func DefaultWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		Notify:   true,
		Minimize: true,
	}
}

// watchSession is one armed timer. stopped is checked by every queued tick.
type watchSession struct {
	domain.FocusSession
	ticker  Ticker
	stopped atomic.Bool
	done    chan struct{}
}

// Watchdog samples the foreground app and reacts when it is not on the allow-list.
//
// Start, Stop and Tick must run on the UI thread (the Dispatcher). Timer ticks
// arrive on their own goroutine and are posted there.
type Watchdog struct {
	config     WatchdogConfig
	inspector  domain.ForegroundInspector
	allowList  *policy.AllowList
	store      domain.AllowListStore
	notifier   domain.Notifier
	journal    domain.DistractionJournal
	dispatcher domain.Dispatcher
	newTicker  TickerFactory
	now        func() time.Time
	logger     *zap.Logger

	state        domain.WatchState
	session      *watchSession
	distractions int
}

// NewWatchdog creates an idle watchdog. journal may be nil.
func NewWatchdog(
	config WatchdogConfig,
	inspector domain.ForegroundInspector,
	allowList *policy.AllowList,
	store domain.AllowListStore,
	notifier domain.Notifier,
	journal domain.DistractionJournal,
	dispatcher domain.Dispatcher,
	logger *zap.Logger,
) *Watchdog {
	return &Watchdog{
		config:     config,
		inspector:  inspector,
		allowList:  allowList,
		store:      store,
		notifier:   notifier,
		journal:    journal,
		dispatcher: dispatcher,
		newTicker:  NewTimeTicker,
		now:        time.Now,
		logger:     logger,
		state:      domain.StateIdle,
	}
}

// Start persists the allow-list, parses intervalText and arms the timer.
// Calling Start while watching re-arms with the new interval.
// Returns the effective interval and the text the interval field should display.
func (w *Watchdog) Start(intervalText string) (time.Duration, string) {
	if w.store != nil {
		if err := w.store.Save(w.allowList.Items()); err != nil {
			w.logger.Warn("failed to persist allow-list",
				zap.String("path", w.store.Path()),
				zap.Error(err))
		}
	}

	interval, display, fellBack := policy.ParseInterval(intervalText)
	if fellBack {
		w.logger.Info("invalid interval, using default",
			zap.String("input", intervalText),
			zap.Duration("interval", interval))
	}

	if w.session != nil {
		w.stopSession()
	}

	s := &watchSession{
		FocusSession: domain.FocusSession{
			ID:        uuid.NewString(),
			Interval:  interval,
			StartedAt: w.now(),
		},
		ticker: w.newTicker(interval),
		done:   make(chan struct{}),
	}
	w.session = s
	w.state = domain.StateWatching

	go w.pump(s)

	w.logger.Info("focus session started",
		zap.String("session", s.ID),
		zap.Duration("interval", interval),
		zap.Int("allowed_apps", w.allowList.Len()))

	return interval, display
}

// Stop disarms the timer. No-op when idle.
func (w *Watchdog) Stop() {
	if w.state == domain.StateIdle {
		return
	}

	s := w.session
	w.stopSession()
	w.state = domain.StateIdle

	if s != nil {
		w.logger.Info("focus session stopped",
			zap.String("session", s.ID),
			zap.Int("distractions", s.Distractions),
			zap.Duration("elapsed", w.now().Sub(s.StartedAt)))
	}
}

// State returns the current watchdog state.
func (w *Watchdog) State() domain.WatchState {
	return w.state
}

// Distractions returns the process-lifetime distraction count.
func (w *Watchdog) Distractions() int {
	return w.distractions
}

// Session returns a copy of the active session, or nil when idle.
func (w *Watchdog) Session() *domain.FocusSession {
	if w.session == nil {
		return nil
	}
	s := w.session.FocusSession
	return &s
}

// Tick samples the foreground once and reacts to it.
func (w *Watchdog) Tick() domain.TickResult {
	win, err := w.inspector.Foreground()
	if err != nil {
		w.logger.Warn("cannot resolve foreground process, skipping tick", zap.Error(err))
		return domain.TickResult{Skipped: true, Count: w.distractions, Err: err}
	}

	result := domain.TickResult{Foreground: win}

	if w.allowList.Matches(win.ExecutablePath) {
		result.OnTask = true
		result.Count = w.distractions
		w.logger.Debug("foreground on task", zap.String("path", win.ExecutablePath))
		return result
	}

	w.distractions++
	result.Count = w.distractions

	var sessionID string
	if w.session != nil {
		w.session.Distractions++
		sessionID = w.session.ID
	}

	w.logger.Info("distraction detected",
		zap.String("path", win.ExecutablePath),
		zap.Int("pid", win.PID),
		zap.Int("count", w.distractions))

	if w.config.Notify && w.notifier != nil {
		if err := w.notifier.Notify(policy.DistractionTitle, policy.DistractionMessage(w.distractions)); err != nil {
			w.logger.Warn("failed to show notification", zap.Error(err))
		}
	}

	minimized := false
	if w.config.Minimize {
		if err := w.inspector.Minimize(win.Handle); err != nil {
			w.logger.Warn("failed to minimize window",
				zap.String("path", win.ExecutablePath),
				zap.Error(err))
		} else {
			minimized = true
		}
	}

	if w.journal != nil {
		d := domain.Distraction{
			SessionID:      sessionID,
			Count:          w.distractions,
			ExecutablePath: win.ExecutablePath,
			Minimized:      minimized,
			OccurredAt:     w.now(),
		}
		if err := w.journal.Record(d); err != nil {
			w.logger.Warn("failed to journal distraction", zap.Error(err))
		}
	}

	return result
}

// pump forwards timer ticks of one session to the UI thread.
func (w *Watchdog) pump(s *watchSession) {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C():
			if s.stopped.Load() {
				return
			}
			posted := w.dispatcher.Post(func() {
				// A tick queued before Stop must not touch state after it.
				if s.stopped.Load() {
					return
				}
				w.Tick()
			})
			if !posted {
				return
			}
		}
	}
}

func (w *Watchdog) stopSession() {
	s := w.session
	if s == nil {
		return
	}
	s.stopped.Store(true)
	s.ticker.Stop()
	close(s.done)
	w.session = nil
}
