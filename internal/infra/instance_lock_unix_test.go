//go:build !windows

package infra

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

func TestFileInstanceLock(t *testing.T) {
	paths := PathsFor(filepath.Join(t.TempDir(), "data"))

	first := NewInstanceLock(paths)
	second := NewInstanceLock(paths)

	ok, err := first.TryAcquire()
	require.NoError(t, err)
	assert.True(t, ok, "first instance becomes owner")

	ok, err = first.TryAcquire()
	require.NoError(t, err)
	assert.True(t, ok, "re-acquire by the holder is a no-op")

	ok, err = second.TryAcquire()
	require.NoError(t, err)
	assert.False(t, ok, "second instance is a client")

	require.NoError(t, first.Release())
	require.NoError(t, first.Release(), "release when not held is safe")

	ok, err = second.TryAcquire()
	require.NoError(t, err)
	assert.True(t, ok, "lock is free after release")
	require.NoError(t, second.Release())
}

func TestSocketWakeTransport(t *testing.T) {
	// Short base dir: unix socket paths are limited to ~104 bytes on macOS.
	dir, err := os.MkdirTemp("", "fa")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "focusapp.sock")
	transport := NewSocketWakeTransport(path)
	assert.Equal(t, path, transport.Address())

	_, err = transport.Dial(100 * time.Millisecond)
	assert.Error(t, err, "no owner listening")

	// A leftover socket file from a crashed owner does not block Listen.
	require.NoError(t, os.WriteFile(path, nil, 0600))

	ln, err := transport.Listen()
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
	}()

	conn, err := transport.Dial(time.Second)
	require.NoError(t, err)
	_, err = conn.Write([]byte(domain.WakeCommand + "\n"))
	require.NoError(t, err)
	conn.Close()

	select {
	case line := <-received:
		assert.Equal(t, domain.WakeCommand+"\n", line)
	case <-time.After(2 * time.Second):
		t.Fatal("owner never received the command")
	}
}
