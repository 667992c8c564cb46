package app

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/lanetap/internal/tracker"
)

var (
	detectBarColor = color.RGBA{R: 255, A: 255}
	inputBarColor  = color.RGBA{G: 255, A: 255}
	slotColors     = [tracker.NumSlots]color.RGBA{
		{R: 255, G: 200, A: 255},
		{G: 200, B: 255, A: 255},
	}
)

// overlayAlpha is the opacity of the bar fill.
const overlayAlpha = 0.35

// drawOverlay shades the detect bar red and the input bar green, then marks
// each occupied slot on both bars.
func drawOverlay(frame *gocv.Mat, detect, input image.Rectangle, state tracker.State, ratio float64) {
	bars := frame.Clone()
	defer bars.Close()

	gocv.Rectangle(&bars, detect, detectBarColor, -1)
	gocv.Rectangle(&bars, input, inputBarColor, -1)
	gocv.AddWeighted(bars, overlayAlpha, *frame, 1-overlayAlpha, 0, frame)

	radius := detect.Dy() / 2
	for i, slot := range state.Slots {
		if !slot.Occupied {
			continue
		}
		c := slotColors[i]

		onDetect := image.Pt(detect.Min.X+slot.Pos, detect.Min.Y+detect.Dy()/2)
		gocv.Circle(frame, onDetect, radius, c, 2)

		onInput := image.Pt(input.Min.X+int(float64(slot.Pos)*ratio), input.Min.Y+input.Dy()/2)
		thickness := 2
		if state.Actions[i] == tracker.Press {
			thickness = -1
		}
		gocv.Circle(frame, onInput, radius, c, thickness)
	}
}
