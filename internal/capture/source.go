// Package capture grabs frames of the mirrored phone window.
package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/kbinani/screenshot"
	"gocv.io/x/gocv"
)

// ErrSourceNotOpen is returned when trying to read from a source that is not open.
var ErrSourceNotOpen = errors.New("capture source is not open")

// Source defines the interface for frame capture implementations.
type Source interface {
	Open() error
	Close() error
	// ReadFrame returns a BGR frame. The caller is responsible for closing it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// WindowLocator reports where the mirrored window currently sits on screen.
type WindowLocator interface {
	Origin() (image.Point, error)
}

// grabFunc captures a screen rectangle.
type grabFunc func(image.Rectangle) (*image.RGBA, error)

// screenSource captures a fixed screen rectangle using the screenshot package.
type screenSource struct {
	window WindowLocator
	size   image.Point
	grab   grabFunc
	mu     sync.Mutex
	open   bool
}

// NewScreenSource creates a Source that captures a size.X by size.Y
// rectangle whose top-left corner follows window.
func NewScreenSource(window WindowLocator, size image.Point) Source {
	return &screenSource{
		window: window,
		size:   size,
		grab:   screenshot.CaptureRect,
	}
}

// Open marks the source as ready. At least one display must be active.
func (s *screenSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}
	if screenshot.NumActiveDisplays() == 0 {
		return errors.New("no active display")
	}
	if s.size.X <= 0 || s.size.Y <= 0 {
		return fmt.Errorf("invalid capture size %v", s.size)
	}

	s.open = true
	return nil
}

// Close stops the source.
func (s *screenSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	return nil
}

// ReadFrame grabs the window rectangle and converts it to a BGR Mat.
func (s *screenSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, ErrSourceNotOpen
	}

	origin, err := s.window.Origin()
	if err != nil {
		return nil, fmt.Errorf("locate window: %w", err)
	}

	img, err := s.grab(image.Rectangle{Min: origin, Max: origin.Add(s.size)})
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen returns true if the source is currently open.
func (s *screenSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}
