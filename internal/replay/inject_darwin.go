//go:build darwin

package replay

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices

#include <stdbool.h>
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <ApplicationServices/ApplicationServices.h>

static bool hasAccessibilityPermissions() {
    return AXIsProcessTrusted();
}

static void postLeftMouse(int kind, double x, double y) {
    CGEventType type;
    switch (kind) {
        case 0: type = kCGEventLeftMouseDown; break;
        case 1: type = kCGEventLeftMouseDragged; break;
        case 2: type = kCGEventLeftMouseUp; break;
        default: return;
    }
    CGEventRef event = CGEventCreateMouseEvent(NULL, type, CGPointMake(x, y), kCGMouseButtonLeft);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
}
*/
import "C"

import (
	"errors"
	"image"
)

// macOS implementation using CoreGraphics. Drags are posted as
// LeftMouseDragged so the mirrored app sees a held, moving touch.

var errNoAccessibility = errors.New("accessibility permission is required to inject pointer events")

// SystemInjector posts pointer events through CoreGraphics.
type SystemInjector struct{}

// NewSystemInjector creates the platform injector.
func NewSystemInjector() Injector {
	return &SystemInjector{}
}

func (SystemInjector) post(kind int, p image.Point) error {
	if !bool(C.hasAccessibilityPermissions()) {
		return errNoAccessibility
	}
	C.postLeftMouse(C.int(kind), C.double(p.X), C.double(p.Y))
	return nil
}

// Press posts a left button-down at p.
func (s SystemInjector) Press(p image.Point) error { return s.post(0, p) }

// Drag posts a left-button drag to p.
func (s SystemInjector) Drag(p image.Point) error { return s.post(1, p) }

// Release posts a left button-up at p.
func (s SystemInjector) Release(p image.Point) error { return s.post(2, p) }
