//go:build !windows

package infra

import (
	"fmt"
	"runtime"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// unsupportedInspector reports ErrUnsupported. The watchdog logs it and skips the tick.
type unsupportedInspector struct{}

// NewForegroundInspector returns an inspector that always fails on this platform.
func NewForegroundInspector(domain.ProcessManager) domain.ForegroundInspector {
	return unsupportedInspector{}
}

func (unsupportedInspector) Foreground() (domain.ForegroundWindow, error) {
	return domain.ForegroundWindow{}, fmt.Errorf("foreground window on %s: %w", runtime.GOOS, domain.ErrUnsupported)
}

func (unsupportedInspector) Minimize(uintptr) error {
	return fmt.Errorf("minimize on %s: %w", runtime.GOOS, domain.ErrUnsupported)
}
