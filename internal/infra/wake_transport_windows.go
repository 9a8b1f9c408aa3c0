//go:build windows

package infra

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

const pipePrefix = `\\.\pipe\`

// PipeWakeTransport carries the wake command over a local named pipe.
type PipeWakeTransport struct {
	path string
}

// NewWakeTransport returns the transport for \\.\pipe\FocusAppPipe.
func NewWakeTransport(*Paths) domain.WakeTransport {
	return &PipeWakeTransport{path: pipePrefix + domain.WakeChannelName}
}

// Listen creates the pipe server. Remote clients are rejected by go-winio.
func (t *PipeWakeTransport) Listen() (net.Listener, error) {
	return winio.ListenPipe(t.path, &winio.PipeConfig{
		InputBufferSize:  512,
		OutputBufferSize: 512,
	})
}

// Dial connects to the owner's pipe.
func (t *PipeWakeTransport) Dial(timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(t.path, &timeout)
}

// Address returns the pipe path.
func (t *PipeWakeTransport) Address() string {
	return t.path
}

// Ensure PipeWakeTransport implements domain.WakeTransport.
var _ domain.WakeTransport = (*PipeWakeTransport)(nil)
