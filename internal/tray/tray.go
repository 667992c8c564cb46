// Package tray provides the system tray interface for lanetap.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

const (
	titleStart = "▶ Start Detection"
	titleStop  = "■ Stop Detection"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool) error
	onPreview func()
	onQuit    func()
	detecting bool
	status    string
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance with detection off.
func New() *Tray {
	return &Tray{status: "idle"}
}

// OnToggle sets the callback invoked when the user starts or stops detection.
// A failed start leaves the menu in the stopped state.
func (t *Tray) OnToggle(fn func(enabled bool) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnPreview sets the callback function to be called when the preview menu item is clicked.
func (t *Tray) OnPreview(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPreview = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("lanetap")
	systray.SetTooltip("lanetap touch replay")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.detecting), "Start or stop touch detection")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(statusTitle(t.status), "Last session status")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuPreview := systray.AddMenuItem("Open Preview...", "Open the capture preview in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit lanetap")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuPreview.ClickedCh:
				t.handlePreview()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips detection and reports the outcome back into the menu.
func (t *Tray) handleToggle() {
	t.mu.RLock()
	enabled := !t.detecting
	callback := t.onToggle
	t.mu.RUnlock()

	// Call the callback outside the lock to prevent deadlocks
	var err error
	if callback != nil {
		err = callback(enabled)
	}

	switch {
	case err != nil:
		t.SetStatus(fmt.Sprintf("error: %v", err))
		enabled = false
	case enabled:
		t.SetStatus("detecting")
	default:
		t.SetStatus("stopped")
	}

	t.SetDetecting(enabled)
}

// handlePreview handles the preview menu item click.
func (t *Tray) handlePreview() {
	t.mu.RLock()
	callback := t.onPreview
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetDetecting syncs the toggle item with the detection state, e.g. after
// a session stopped itself on an invalid frame.
func (t *Tray) SetDetecting(detecting bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.detecting = detecting
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(detecting))
	}
}

// SetStatus updates the status line in the menu.
func (t *Tray) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = status
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(status))
	}
}

// IsDetecting returns the detection state shown in the menu.
func (t *Tray) IsDetecting() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.detecting
}

// Status returns the current status line text.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func toggleTitle(detecting bool) string {
	if detecting {
		return titleStop
	}
	return titleStart
}

func statusTitle(status string) string {
	if status == "" {
		status = "idle"
	}
	return "Status: " + status
}
