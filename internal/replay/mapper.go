// Package replay turns tracked touch records into pointer events on screen.
package replay

import (
	"image"
	"math"

	"github.com/go-vgo/robotgo"
)

// Mapper converts input bar coordinates into absolute screen points.
type Mapper struct {
	// InputBarX and InputBarY locate the input bar inside the captured frame,
	// in frame pixels.
	InputBarX int
	InputBarY int

	// Density is the number of frame pixels per screen point.
	Density float64
}

// ToScreen maps x, a position along the input bar, to a screen point given
// the current window origin.
func (m Mapper) ToScreen(origin image.Point, x float64) image.Point {
	density := m.Density
	if density <= 0 {
		density = 1
	}
	return image.Point{
		X: origin.X + int(math.Floor((x+float64(m.InputBarX))/density)),
		Y: origin.Y + int(math.Floor(float64(m.InputBarY)/density)),
	}
}

// DisplayDensity returns configured when positive, otherwise the scale
// factor reported for the main display.
func DisplayDensity(configured float64) float64 {
	if configured > 0 {
		return configured
	}
	if f := robotgo.ScaleF(); f > 0 {
		return f
	}
	return 1
}
