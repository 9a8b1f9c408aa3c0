package daemon

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// sharedLock simulates one OS-wide named lock shared by several fakeLocks.
type sharedLock struct {
	mu    sync.Mutex
	owner *fakeLock
}

type fakeLock struct {
	shared *sharedLock
	err    error
}

func (s *sharedLock) newLock() *fakeLock {
	return &fakeLock{shared: s}
}

func (l *fakeLock) TryAcquire() (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.shared.mu.Lock()
	defer l.shared.mu.Unlock()
	if l.shared.owner == nil || l.shared.owner == l {
		l.shared.owner = l
		return true, nil
	}
	return false, nil
}

func (l *fakeLock) Release() error {
	l.shared.mu.Lock()
	defer l.shared.mu.Unlock()
	if l.shared.owner == l {
		l.shared.owner = nil
	}
	return nil
}

// loopbackTransport is a WakeTransport over 127.0.0.1 so tests run on every OS.
type loopbackTransport struct {
	mu         sync.Mutex
	addr       string
	listenErrs int // number of Listen calls that fail before one succeeds
	listens    int
	current    net.Listener
}

func (t *loopbackTransport) Listen() (net.Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listens++
	if t.listenErrs > 0 {
		t.listenErrs--
		return nil, errors.New("pipe busy")
	}

	addr := t.addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	t.addr = ln.Addr().String()
	t.current = ln
	return ln, nil
}

func (t *loopbackTransport) Dial(timeout time.Duration) (net.Conn, error) {
	t.mu.Lock()
	addr := t.addr
	t.mu.Unlock()
	if addr == "" {
		return nil, errors.New("no listener")
	}
	return net.DialTimeout("tcp", addr, timeout)
}

func (t *loopbackTransport) Address() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.addr
}

func (t *loopbackTransport) listenCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.listens
}

// breakListener closes the active listener as if the OS tore it down.
func (t *loopbackTransport) breakListener() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		t.current.Close()
	}
}

func (t *loopbackTransport) isListening() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current != nil
}

// fakeInspector always reports the same foreground window.
type fakeInspector struct {
	mu  sync.Mutex
	win domain.ForegroundWindow
}

func (f *fakeInspector) Foreground() (domain.ForegroundWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.win, nil
}

func (f *fakeInspector) Minimize(uintptr) error { return nil }

// memStore is an in-memory AllowListStore.
type memStore struct {
	mu      sync.Mutex
	entries []string
	saves   int
	loadErr error
}

func (m *memStore) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]string{}, m.entries...), nil
}

func (m *memStore) Save(entries []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]string{}, entries...)
	m.saves++
	return nil
}

func (m *memStore) Path() string { return "mem://allowlist.json" }

func (m *memStore) snapshot() ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.entries...), m.saves
}

// fakeStartup records registrations.
type fakeStartup struct {
	mu         sync.Mutex
	registered string
	err        error
}

func (f *fakeStartup) Register(execPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.registered = execPath
	return nil
}

func (f *fakeStartup) Unregister() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = ""
	return nil
}

func (f *fakeStartup) IsRegistered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered != ""
}

func (f *fakeStartup) EntryPath() string { return "startup://Focus App.lnk" }
