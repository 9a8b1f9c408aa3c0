//go:build !windows

package infra

import (
	"net"
	"os"
	"time"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// SocketWakeTransport carries the wake command over a unix domain socket.
type SocketWakeTransport struct {
	path string
}

// NewWakeTransport returns the transport at paths.SocketPath.
func NewWakeTransport(paths *Paths) domain.WakeTransport {
	return NewSocketWakeTransport(paths.SocketPath)
}

// NewSocketWakeTransport returns a transport at an explicit socket path.
func NewSocketWakeTransport(path string) *SocketWakeTransport {
	return &SocketWakeTransport{path: path}
}

// Listen binds the socket. Only the lock holder calls it, so any existing
// socket file is left over from a crashed owner and is removed first.
func (t *SocketWakeTransport) Listen() (net.Listener, error) {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	ln, err := net.Listen("unix", t.path)
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(t.path, 0600)
	return ln, nil
}

// Dial connects to the owner's socket.
func (t *SocketWakeTransport) Dial(timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", t.path, timeout)
}

// Address returns the socket path.
func (t *SocketWakeTransport) Address() string {
	return t.path
}

// Ensure SocketWakeTransport implements domain.WakeTransport.
var _ domain.WakeTransport = (*SocketWakeTransport)(nil)
