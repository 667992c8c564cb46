// Package detector turns a detect bar strip into touch candidate positions.
package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrEmptyStrip is returned when the strip has no pixels.
var ErrEmptyStrip = errors.New("strip is empty")

// LumaDetector implements Detector on top of OpenCV.
type LumaDetector struct {
	config Config
}

// NewLumaDetector creates a LumaDetector with the given thresholds.
func NewLumaDetector(config Config) *LumaDetector {
	return &LumaDetector{config: config}
}

// Detect computes the luminance profile of the strip and scans it for runs.
func (d *LumaDetector) Detect(strip *gocv.Mat) ([]int, error) {
	profile, err := Profile(strip, d.config.Weights)
	if err != nil {
		return nil, err
	}
	return FindPositions(profile, d.config)
}

// Profile collapses a BGR strip into one luma value per column.
//
// Algorithm:
// 1. Convert the strip to 32-bit float
// 2. Weighted channel sum (weights are RGB, the Mat is BGR)
// 3. Column-wise maximum over the strip height
//
// A single channel strip is treated as already being luma.
func Profile(strip *gocv.Mat, weights [3]float64) ([]float64, error) {
	if strip == nil || strip.Empty() {
		return nil, ErrEmptyStrip
	}

	luma := gocv.NewMat()
	defer luma.Close()

	if strip.Channels() >= 3 {
		color := gocv.NewMat()
		defer color.Close()
		if strip.Channels() == 4 {
			gocv.CvtColor(*strip, &color, gocv.ColorBGRAToBGR)
		} else {
			strip.CopyTo(&color)
		}

		floats := gocv.NewMat()
		defer floats.Close()
		color.ConvertTo(&floats, gocv.MatTypeCV32FC3)

		kernel := gocv.NewMatWithSize(1, 3, gocv.MatTypeCV32F)
		defer kernel.Close()
		kernel.SetFloatAt(0, 0, float32(weights[2]))
		kernel.SetFloatAt(0, 1, float32(weights[1]))
		kernel.SetFloatAt(0, 2, float32(weights[0]))

		gocv.Transform(floats, &luma, kernel)
	} else {
		strip.ConvertTo(&luma, gocv.MatTypeCV32F)
	}

	columnMax := gocv.NewMat()
	defer columnMax.Close()
	gocv.Reduce(luma, &columnMax, 0, gocv.ReduceMax, gocv.MatTypeCV32F)

	profile := make([]float64, columnMax.Cols())
	for i := range profile {
		profile[i] = float64(columnMax.GetFloatAt(0, i))
	}
	return profile, nil
}
