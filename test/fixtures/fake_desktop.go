// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"sync"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// FakeDesktop stands in for the OS window manager. It reports a configurable
// foreground window and records minimize calls.
type FakeDesktop struct {
	mu        sync.Mutex
	current   domain.ForegroundWindow
	err       error
	minimized []uintptr
}

// NewFakeDesktop creates a desktop with no foreground window.
func NewFakeDesktop() *FakeDesktop {
	return &FakeDesktop{err: domain.ErrNoForegroundWindow}
}

// Focus brings a window owned by executablePath to the foreground.
func (d *FakeDesktop) Focus(handle uintptr, pid int, executablePath string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = domain.ForegroundWindow{Handle: handle, PID: pid, ExecutablePath: executablePath}
	d.err = nil
}

// Fail makes the next samples return err (e.g. access denied).
func (d *FakeDesktop) Fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// Foreground implements domain.ForegroundInspector.
func (d *FakeDesktop) Foreground() (domain.ForegroundWindow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return domain.ForegroundWindow{}, d.err
	}
	return d.current, nil
}

// Minimize implements domain.ForegroundInspector.
func (d *FakeDesktop) Minimize(handle uintptr) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.minimized = append(d.minimized, handle)
	return nil
}

// Minimized returns every handle minimized so far.
func (d *FakeDesktop) Minimized() []uintptr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uintptr(nil), d.minimized...)
}

// RecordingNotifier keeps notifications instead of showing them.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements domain.Notifier.
func (n *RecordingNotifier) Notify(title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

// Messages returns the notification bodies shown so far.
func (n *RecordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// StartupRecorder is an in-memory domain.StartupRegistrar.
type StartupRecorder struct {
	mu     sync.Mutex
	target string
}

// Register implements domain.StartupRegistrar.
func (s *StartupRecorder) Register(execPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = execPath
	return nil
}

// Unregister implements domain.StartupRegistrar.
func (s *StartupRecorder) Unregister() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = ""
	return nil
}

// IsRegistered implements domain.StartupRegistrar.
func (s *StartupRecorder) IsRegistered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target != ""
}

// EntryPath implements domain.StartupRegistrar.
func (s *StartupRecorder) EntryPath() string { return "fixture://startup" }

// Target returns the registered executable path.
func (s *StartupRecorder) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}
