package domain

import (
	"net"
	"time"
)

// ForegroundInspector is the platform capability behind the watchdog.
// Implementation: user32 + kernel32 on Windows, ErrUnsupported elsewhere.
type ForegroundInspector interface {
	// Foreground returns the current foreground window and its owning executable.
	// Fails if the window is gone, the process exited, or access is denied.
	Foreground() (ForegroundWindow, error)

	// Minimize minimizes the given top-level window.
	Minimize(handle uintptr) error
}

// ProcessManager handles OS process lookups.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// ExecutablePath returns the full path of the process image.
	ExecutablePath(pid int) (string, error)

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// GetCurrentPID returns the current process PID.
	GetCurrentPID() int
}

// AllowListStore persists the ordered allow-list.
// Implementation: JSON array file written with temp-file + rename.
type AllowListStore interface {
	// Load returns the stored entries; a missing file yields an empty list.
	// Malformed content yields an error wrapping ErrPersistenceCorrupt.
	Load() ([]string, error)

	// Save overwrites the stored entries.
	Save(entries []string) error

	// Path returns the backing file path.
	Path() string
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// StartupRegistrar handles launch-at-login registration.
type StartupRegistrar interface {
	// Register creates the startup entry pointing at execPath.
	Register(execPath string) error

	// Unregister removes the startup entry if present.
	Unregister() error

	// IsRegistered checks if the startup entry exists.
	IsRegistered() bool

	// EntryPath returns where the startup entry lives.
	EntryPath() string
}

// InstanceLock is the named, system-wide single-instance lock.
type InstanceLock interface {
	// TryAcquire takes the lock without blocking. false means another process holds it.
	TryAcquire() (bool, error)

	// Release gives the lock back. Safe to call when not held.
	Release() error
}

// WakeTransport is the local, client -> owner channel carrying WakeCommand.
type WakeTransport interface {
	// Listen opens the inbound end. Only the owner calls it.
	Listen() (net.Listener, error)

	// Dial connects to the owner, giving up after timeout.
	Dial(timeout time.Duration) (net.Conn, error)

	// Address returns the platform name of the channel (pipe path or socket path).
	Address() string
}

// MainWindow is the owner's main window as far as the core is concerned.
type MainWindow interface {
	Show() error
	Activate() error
	Hide() error
	IsVisible() bool
}

// Dispatcher runs closures on the UI thread.
type Dispatcher interface {
	// Post queues fn. Returns false if the UI thread is gone.
	Post(fn func()) bool
}

// DistractionJournal keeps a history of distractions across restarts.
type DistractionJournal interface {
	// Record appends one distraction.
	Record(d Distraction) error

	// Summary aggregates distractions that occurred at or after since.
	Summary(since time.Time) (*DistractionSummary, error)

	// Close releases resources (e.g., database connection).
	Close() error
}
