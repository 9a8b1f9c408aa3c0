//go:build !windows

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
)

func TestStartupStatus(t *testing.T) {
	registrar := infra.NewAutostartRegistrar(infra.FormatDesktop, filepath.Join(t.TempDir(), "focusapp.desktop"))

	assert.Equal(t, "Launch at login: disabled", startupStatus(registrar, "/opt/focusapp/focusapp"))

	require.NoError(t, registrar.Register("/opt/focusapp/focusapp"))
	status := startupStatus(registrar, "/opt/focusapp/focusapp")
	assert.Contains(t, status, "enabled")
	assert.NotContains(t, status, "old binary")

	status = startupStatus(registrar, "/usr/local/bin/focusapp")
	assert.Contains(t, status, "old binary")
}
