// Package config holds the static detection and replay settings for lanetap.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Config is the full set of options recognized by lanetap.
// All values are read-only for the lifetime of a detection session.
type Config struct {
	// BarHeight is the pixel height of both the detect bar and the input bar.
	BarHeight int `json:"bar_height"`

	// DetectBarY is the top row of the detect bar within a captured frame.
	DetectBarY int `json:"detect_bar_y"`

	// DetectBarWidth is the width of the detect bar. The bar is horizontally
	// centered in the frame.
	DetectBarWidth int `json:"detect_bar_width"`

	// InputBarY is the top row of the input bar within a captured frame.
	InputBarY int `json:"input_bar_y"`

	// InputBarWidth is the width of the input bar, also horizontally centered.
	InputBarWidth int `json:"input_bar_width"`

	// MinWidthThreshold discards lit runs that are too narrow (noise).
	MinWidthThreshold int `json:"min_width_threshold"`

	// MaxWidthThreshold invalidates the frame when a lit run is wider.
	MaxWidthThreshold int `json:"max_width_threshold"`

	// LuminanceWeight are the R, G, B weights of the luma sum.
	LuminanceWeight [3]float64 `json:"luminance_weight"`

	// LuminanceThreshold is the luma above which a column counts as lit.
	LuminanceThreshold float64 `json:"luminance_threshold"`

	// PositionThreshold is the slide-match tolerance between a tracked slot
	// and a new candidate. Zero falls back to MoveThreshold.
	PositionThreshold int `json:"position_threshold"`

	// MoveThreshold is the legacy name of the slide-match tolerance.
	MoveThreshold int `json:"move_threshold"`

	// FramePeriod is the interval between detection cycles.
	FramePeriod Duration `json:"frame_period"`

	// DelayFrames is the depth of the replay delay buffer.
	DelayFrames int `json:"delay_frames"`

	// ReleaseNudge is how far above the touch point (in screen points) the
	// pointer is dragged before lift-off.
	ReleaseNudge int `json:"release_nudge"`

	// PixelDensity converts captured pixels into screen points. Zero means
	// query the display scale at runtime.
	PixelDensity float64 `json:"pixel_density"`

	// Verbose logs every replayed pointer event.
	Verbose bool `json:"verbose"`
}

// Default returns the settings tuned for a Retina display mirroring a phone.
func Default() Config {
	return Config{
		BarHeight:          30,
		DetectBarY:         250,
		DetectBarWidth:     420,
		InputBarY:          500,
		InputBarWidth:      840,
		MinWidthThreshold:  50,
		MaxWidthThreshold:  120,
		LuminanceWeight:    [3]float64{0.299, 0.587, 0.114},
		LuminanceThreshold: 196,
		PositionThreshold:  50,
		MoveThreshold:      50,
		FramePeriod:        Duration(20 * time.Millisecond),
		DelayFrames:        1,
		ReleaseNudge:       5,
		PixelDensity:       2,
	}
}

// Load reads a JSON file and overlays it onto Default.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings for values that would make detection meaningless.
func (c Config) Validate() error {
	switch {
	case c.BarHeight <= 0:
		return fmt.Errorf("bar_height must be positive, got %d", c.BarHeight)
	case c.DetectBarWidth <= 0:
		return fmt.Errorf("detect_bar_width must be positive, got %d", c.DetectBarWidth)
	case c.InputBarWidth <= 0:
		return fmt.Errorf("input_bar_width must be positive, got %d", c.InputBarWidth)
	case c.DetectBarY < 0 || c.InputBarY < 0:
		return errors.New("bar offsets must not be negative")
	case c.MinWidthThreshold < 0:
		return fmt.Errorf("min_width_threshold must not be negative, got %d", c.MinWidthThreshold)
	case c.MaxWidthThreshold <= c.MinWidthThreshold:
		return fmt.Errorf("max_width_threshold (%d) must exceed min_width_threshold (%d)",
			c.MaxWidthThreshold, c.MinWidthThreshold)
	case c.SlideThreshold() < 0:
		return errors.New("position_threshold must not be negative")
	case c.FramePeriod <= 0:
		return errors.New("frame_period must be positive")
	case c.DelayFrames < 0:
		return fmt.Errorf("delay_frames must not be negative, got %d", c.DelayFrames)
	case c.PixelDensity < 0:
		return errors.New("pixel_density must not be negative")
	}
	return nil
}

// SlideThreshold returns the tolerance used to match a slot to a candidate.
func (c Config) SlideThreshold() int {
	if c.PositionThreshold != 0 {
		return c.PositionThreshold
	}
	return c.MoveThreshold
}

// Ratio is the scale from detect bar coordinates to input bar coordinates.
func (c Config) Ratio() float64 {
	return float64(c.InputBarWidth) / float64(c.DetectBarWidth)
}

// BarX returns the left edge of a bar of the given width centered in a frame.
func BarX(frameWidth, barWidth int) int {
	return (frameWidth - barWidth) / 2
}

// Duration is a time.Duration that reads from JSON as either a Go duration
// string ("20ms") or a number of milliseconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes d as a duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "20ms" or 20.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value * float64(time.Millisecond)))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}
