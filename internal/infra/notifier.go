package infra

import (
	"github.com/gen2brain/beeep"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// DesktopNotifier implements domain.Notifier with native desktop notifications
// (toast on Windows, notify-send/D-Bus on Linux, osascript on macOS).
type DesktopNotifier struct {
	icon string
}

// NewDesktopNotifier creates a notifier without a custom icon.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

// Notify shows title and message.
func (n *DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, n.icon)
}

// Ensure DesktopNotifier implements domain.Notifier.
var _ domain.Notifier = (*DesktopNotifier)(nil)
