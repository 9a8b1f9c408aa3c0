package infra

import (
	"sync"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// HeadlessWindow is a MainWindow with no on-screen surface. It tracks the
// visibility the shell asked for, which is all a background instance has.
type HeadlessWindow struct {
	mu        sync.Mutex
	visible   bool
	activated int
}

// NewHeadlessWindow creates a headless window in the given visibility.
func NewHeadlessWindow(visible bool) *HeadlessWindow {
	return &HeadlessWindow{visible: visible}
}

func (w *HeadlessWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	return nil
}

func (w *HeadlessWindow) Activate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activated++
	return nil
}

func (w *HeadlessWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	return nil
}

func (w *HeadlessWindow) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Activations returns how many times Activate was called.
func (w *HeadlessWindow) Activations() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activated
}

// Ensure HeadlessWindow implements domain.MainWindow.
var _ domain.MainWindow = (*HeadlessWindow)(nil)
