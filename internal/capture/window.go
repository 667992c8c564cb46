package capture

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync"

	"github.com/kbinani/screenshot"
)

// StaticWindow is a WindowLocator for a window that is positioned by the user.
type StaticWindow struct {
	mu   sync.RWMutex
	rect image.Rectangle
}

// NewStaticWindow creates a StaticWindow covering rect.
func NewStaticWindow(rect image.Rectangle) *StaticWindow {
	return &StaticWindow{rect: rect}
}

// Origin returns the top-left corner of the window.
func (w *StaticWindow) Origin() (image.Point, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.rect.Empty() {
		return image.Point{}, fmt.Errorf("window rectangle %v is empty", w.rect)
	}
	return w.rect.Min, nil
}

// Rect returns the full window rectangle.
func (w *StaticWindow) Rect() image.Rectangle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rect
}

// Move updates the window rectangle, e.g. after the user drags the window.
func (w *StaticWindow) Move(rect image.Rectangle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rect = rect
}

// ParseRect parses "x,y,w,h" into a rectangle.
func ParseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("window %q: want x,y,w,h", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("window %q: %w", s, err)
		}
		v[i] = n
	}

	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("window %q: size must be positive", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// DisplayRect returns the bounds of the given display, used when no window
// rectangle is configured.
func DisplayRect(display int) (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if display < 0 || display >= n {
		return image.Rectangle{}, fmt.Errorf("display %d out of range (have %d)", display, n)
	}
	return screenshot.GetDisplayBounds(display), nil
}
