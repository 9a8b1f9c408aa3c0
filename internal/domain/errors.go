package domain

import "errors"

var (
	// ErrPersistenceCorrupt means the allow-list file exists but is not a JSON array of strings.
	ErrPersistenceCorrupt = errors.New("allow-list file is corrupt")

	// ErrInvalidEntry means an allow-list path cannot be stored as JSON text unchanged.
	ErrInvalidEntry = errors.New("invalid allow-list entry")

	// ErrNoForegroundWindow means the OS reported no foreground window (e.g. desktop switch).
	ErrNoForegroundWindow = errors.New("no foreground window")

	// ErrUnsupported is returned by platform capabilities that do not exist on this OS.
	ErrUnsupported = errors.New("not supported on this platform")

	// ErrInstanceRunning means another instance owns the single-instance lock.
	ErrInstanceRunning = errors.New("another focusapp instance is running")
)
