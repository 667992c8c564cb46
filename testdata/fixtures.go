// Package testdata builds synthetic mirrored-screen frames for tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/lanetap/internal/config"
)

// TouchWidth is the lit width drawn for one touch. It sits between the
// default min and max width thresholds.
const TouchWidth = 61

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Frame returns a black BGR frame of the given size with one lit run of
// TouchWidth columns centered on each detect bar position. The caller must
// close it.
func Frame(settings config.Config, size image.Point, positions ...int) gocv.Mat {
	frame := gocv.NewMatWithSize(size.Y, size.X, gocv.MatTypeCV8UC3)
	for _, pos := range positions {
		drawRun(&frame, settings, size, pos, TouchWidth)
	}
	return frame
}

// WideFrame returns a frame with a single run of the given width centered on
// pos, for signals wider than the max width threshold.
func WideFrame(settings config.Config, size image.Point, pos, width int) gocv.Mat {
	frame := gocv.NewMatWithSize(size.Y, size.X, gocv.MatTypeCV8UC3)
	drawRun(&frame, settings, size, pos, width)
	return frame
}

// Sequence builds one frame per position list. The caller must close every frame.
func Sequence(settings config.Config, size image.Point, steps ...[]int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, len(steps))
	for _, positions := range steps {
		frame := Frame(settings, size, positions...)
		frames = append(frames, &frame)
	}
	return frames
}

// drawRun fills width columns centered on pos, relative to the detect bar.
func drawRun(frame *gocv.Mat, settings config.Config, size image.Point, pos, width int) {
	barX := config.BarX(size.X, settings.DetectBarWidth)
	start := barX + pos - width/2
	rect := image.Rect(start, settings.DetectBarY, start+width, settings.DetectBarY+settings.BarHeight)
	gocv.Rectangle(frame, rect, white, -1)
}
