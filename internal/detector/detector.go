package detector

import (
	"errors"

	"github.com/ayusman/lanetap/internal/config"
	"gocv.io/x/gocv"
)

// ErrInvalidSignal is returned when a lit run is wider than the maximum
// width threshold. It usually means the game is not in gameplay.
var ErrInvalidSignal = errors.New("invalid signal: lit run exceeds max width")

// Detector defines the interface for touch position detection implementations.
type Detector interface {
	// Detect analyzes a detect bar strip and returns candidate positions,
	// ordered left to right, in strip-local columns.
	Detect(strip *gocv.Mat) ([]int, error)
}

// Config holds the thresholds used to turn a luminance profile into positions.
type Config struct {
	// Weights are the R, G, B luma weights.
	Weights [3]float64

	// LuminanceThreshold is the value a column must exceed to count as lit.
	LuminanceThreshold float64

	// MinWidth is the run length a run must exceed to be reported.
	MinWidth int

	// MaxWidth is the run length above which the whole frame is invalid.
	MaxWidth int
}

// DefaultConfig returns a Config built from config.Default.
func DefaultConfig() Config {
	return FromConfig(config.Default())
}

// FromConfig extracts the detector thresholds from the application config.
func FromConfig(c config.Config) Config {
	return Config{
		Weights:            c.LuminanceWeight,
		LuminanceThreshold: c.LuminanceThreshold,
		MinWidth:           c.MinWidthThreshold,
		MaxWidth:           c.MaxWidthThreshold,
	}
}
