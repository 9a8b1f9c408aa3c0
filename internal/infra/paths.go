// Package infra implements infrastructure concerns (OS capabilities, storage, IPC).
package infra

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDirEnv overrides the data directory (used by tests and portable installs).
const DataDirEnv = "FOCUSAPP_HOME"

const (
	configFileName   = "focusapp.yaml"
	logFileName      = "focusapp.log"
	errorLogFileName = "focusapp.error.log"
	lockFileName     = "focusapp.lock"
	socketFileName   = "focusapp.sock"
	pidFileName      = "focusapp.pid"
)

// Paths holds every file location derived from the data directory.
type Paths struct {
	DataDir      string
	ConfigPath   string
	LogPath      string
	ErrorLogPath string
	LockPath     string // flock target on non-Windows
	SocketPath   string // wake socket on non-Windows
	PIDPath      string
}

// DefaultDataDir returns %LOCALAPPDATA%\FocusApp on Windows and ~/.focusapp elsewhere.
func DefaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "FocusApp")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "focusapp")
	}
	return filepath.Join(home, ".focusapp")
}

// DefaultPaths returns paths under DefaultDataDir.
func DefaultPaths() *Paths {
	return PathsFor(DefaultDataDir())
}

// PathsFor returns paths under dataDir.
func PathsFor(dataDir string) *Paths {
	return &Paths{
		DataDir:      dataDir,
		ConfigPath:   filepath.Join(dataDir, configFileName),
		LogPath:      filepath.Join(dataDir, logFileName),
		ErrorLogPath: filepath.Join(dataDir, errorLogFileName),
		LockPath:     filepath.Join(dataDir, lockFileName),
		SocketPath:   filepath.Join(dataDir, socketFileName),
		PIDPath:      filepath.Join(dataDir, pidFileName),
	}
}

// EnsureDataDir creates the data directory if missing.
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir, 0700)
}
