//go:build !windows

package infra

import "github.com/eliteGoblin/focusd/focus_app/internal/domain"

// NewMainWindow returns a headless window; there is no native window here.
func NewMainWindow(visible bool) domain.MainWindow {
	return NewHeadlessWindow(visible)
}
