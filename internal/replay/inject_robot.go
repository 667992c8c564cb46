//go:build !darwin

package replay

import (
	"image"

	"github.com/go-vgo/robotgo"
)

// SystemInjector drives the pointer through robotgo.
type SystemInjector struct{}

// NewSystemInjector creates the platform injector.
func NewSystemInjector() Injector {
	return &SystemInjector{}
}

// Press moves to p and holds the left button.
func (SystemInjector) Press(p image.Point) error {
	robotgo.Move(p.X, p.Y)
	return robotgo.Toggle("left")
}

// Drag moves to p with the left button held.
func (SystemInjector) Drag(p image.Point) error {
	robotgo.Move(p.X, p.Y)
	return nil
}

// Release moves to p and lets go of the left button.
func (SystemInjector) Release(p image.Point) error {
	robotgo.Move(p.X, p.Y)
	return robotgo.Toggle("left", "up")
}
