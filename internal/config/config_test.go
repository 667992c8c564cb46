package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	if cfg.FramePeriod.Std() != 20*time.Millisecond {
		t.Errorf("FramePeriod = %v, want 20ms", cfg.FramePeriod.Std())
	}
	if cfg.DelayFrames != 1 {
		t.Errorf("DelayFrames = %d, want 1", cfg.DelayFrames)
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg != Default() {
			t.Errorf("Load(\"\") = %+v, want defaults", cfg)
		}
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg != Default() {
			t.Errorf("Load() = %+v, want defaults", cfg)
		}
	})

	t.Run("overlays file onto defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lanetap.json")
		data := `{"detect_bar_width": 400, "frame_period": "33ms", "delay_frames": 2}`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.DetectBarWidth != 400 {
			t.Errorf("DetectBarWidth = %d, want 400", cfg.DetectBarWidth)
		}
		if cfg.FramePeriod.Std() != 33*time.Millisecond {
			t.Errorf("FramePeriod = %v, want 33ms", cfg.FramePeriod.Std())
		}
		if cfg.DelayFrames != 2 {
			t.Errorf("DelayFrames = %d, want 2", cfg.DelayFrames)
		}
		if cfg.InputBarWidth != 840 {
			t.Errorf("InputBarWidth = %d, want default 840", cfg.InputBarWidth)
		}
	})

	t.Run("verbose defaults off", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lanetap.json")
		if err := os.WriteFile(path, []byte(`{"verbose": true}`), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if Default().Verbose {
			t.Error("Default().Verbose should be false")
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !cfg.Verbose {
			t.Error("Verbose = false, want true from file")
		}
	})

	t.Run("numeric frame period is milliseconds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lanetap.json")
		if err := os.WriteFile(path, []byte(`{"frame_period": 40}`), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.FramePeriod.Std() != 40*time.Millisecond {
			t.Errorf("FramePeriod = %v, want 40ms", cfg.FramePeriod.Std())
		}
	})

	t.Run("rejects invalid thresholds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lanetap.json")
		data := `{"min_width_threshold": 100, "max_width_threshold": 50}`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := Load(path); err == nil {
			t.Error("Load() should reject max_width_threshold <= min_width_threshold")
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lanetap.json")
		if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := Load(path); err == nil {
			t.Error("Load() should fail on malformed json")
		}
	})
}

func TestConfig_SlideThreshold(t *testing.T) {
	tests := []struct {
		name     string
		position int
		move     int
		want     int
	}{
		{name: "position threshold wins", position: 10, move: 50, want: 10},
		{name: "falls back to move threshold", position: 0, move: 50, want: 50},
		{name: "both zero", position: 0, move: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{PositionThreshold: tt.position, MoveThreshold: tt.move}
			if got := cfg.SlideThreshold(); got != tt.want {
				t.Errorf("SlideThreshold() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfig_Ratio(t *testing.T) {
	cfg := Default()
	if got := cfg.Ratio(); got != 2.0 {
		t.Errorf("Ratio() = %f, want 2.0", got)
	}

	cfg.InputBarWidth = 630
	if got := cfg.Ratio(); got != 1.5 {
		t.Errorf("Ratio() = %f, want 1.5", got)
	}
}

func TestBarX(t *testing.T) {
	tests := []struct {
		frame, bar, want int
	}{
		{frame: 1000, bar: 420, want: 290},
		{frame: 841, bar: 420, want: 210},
		{frame: 420, bar: 420, want: 0},
	}

	for _, tt := range tests {
		if got := BarX(tt.frame, tt.bar); got != tt.want {
			t.Errorf("BarX(%d, %d) = %d, want %d", tt.frame, tt.bar, got, tt.want)
		}
	}
}
