// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// WatchState is the state of the focus watchdog.
type WatchState string

const (
	StateIdle     WatchState = "idle"
	StateWatching WatchState = "watching"
)

// Instance coordination names. Both are OS-visible and shared by every copy of the app.
const (
	InstanceLockName = "FocusAppMutex"
	WakeChannelName  = "FocusAppPipe"

	// WakeCommand is the only line a client instance ever sends to the owner.
	WakeCommand = "ShowWindow"
)

// InstanceRole is the outcome of trying to take the single-instance lock.
type InstanceRole string

const (
	RoleOwner  InstanceRole = "owner"
	RoleClient InstanceRole = "client"
)

// ForegroundWindow is one sample of the window the user is currently looking at.
type ForegroundWindow struct {
	Handle         uintptr
	PID            int
	ExecutablePath string
}

// FocusSession is the transient state of one Idle -> Watching -> Idle cycle.
type FocusSession struct {
	ID           string
	Interval     time.Duration
	StartedAt    time.Time
	Distractions int
}

// Distraction records a tick where the foreground app was not on the allow-list.
type Distraction struct {
	SessionID      string
	Count          int // running distraction count at the time of the event
	ExecutablePath string
	Minimized      bool
	OccurredAt     time.Time
}

// PathCount is a per-executable distraction tally.
type PathCount struct {
	ExecutablePath string
	Count          int
}

// DistractionSummary aggregates journaled distractions since a point in time.
type DistractionSummary struct {
	Since    time.Time
	Total    int
	Sessions int
	Last     time.Time
	TopPaths []PathCount
}

// TickResult captures what a single watchdog tick did.
type TickResult struct {
	Skipped    bool // foreground could not be resolved
	OnTask     bool
	Foreground ForegroundWindow
	Count      int // distraction counter after the tick
	Err        error
}
