package detector

import (
	"errors"
	"reflect"
	"testing"
)

// litProfile returns a profile of the given width with every run in lit set
// to 255 and everything else set to 0. Runs are inclusive [start, end] pairs.
func litProfile(width int, lit ...[2]int) []float64 {
	profile := make([]float64, width)
	for _, run := range lit {
		for i := run[0]; i <= run[1]; i++ {
			profile[i] = 255
		}
	}
	return profile
}

func testConfig() Config {
	return Config{
		Weights:            [3]float64{0.299, 0.587, 0.114},
		LuminanceThreshold: 196,
		MinWidth:           5,
		MaxWidth:           100,
	}
}

func TestFindPositions_WidthFiltering(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		want    []int
		wantErr error
	}{
		{name: "shorter than min is noise", length: 3, want: nil},
		{name: "equal to min is noise", length: 5, want: nil},
		{name: "just above min", length: 6, want: []int{23}},
		{name: "between thresholds", length: 50, want: []int{45}},
		{name: "equal to max is accepted", length: 100, want: []int{70}},
		{name: "above max invalidates frame", length: 101, wantErr: ErrInvalidSignal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := litProfile(300, [2]int{20, 20 + tt.length})

			got, err := FindPositions(profile, testConfig())

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FindPositions() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindPositions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindPositions_TwoRunsOrdered(t *testing.T) {
	profile := litProfile(420, [2]int{10, 40}, [2]int{200, 230})

	got, err := FindPositions(profile, testConfig())
	if err != nil {
		t.Fatalf("FindPositions() error = %v", err)
	}

	want := []int{25, 215}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindPositions() = %v, want %v", got, want)
	}
}

func TestFindPositions_EdgeCases(t *testing.T) {
	t.Run("dark profile", func(t *testing.T) {
		got, err := FindPositions(make([]float64, 100), testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no positions, got %v", got)
		}
	})

	t.Run("empty profile", func(t *testing.T) {
		got, err := FindPositions(nil, testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no positions, got %v", got)
		}
	})

	t.Run("run open at right edge is closed at last index", func(t *testing.T) {
		profile := litProfile(100, [2]int{80, 99})

		got, err := FindPositions(profile, testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int{89}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FindPositions() = %v, want %v", got, want)
		}
	})

	t.Run("run starting at column zero", func(t *testing.T) {
		profile := litProfile(100, [2]int{0, 10})

		got, err := FindPositions(profile, testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int{5}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FindPositions() = %v, want %v", got, want)
		}
	})

	t.Run("fully lit strip is invalid", func(t *testing.T) {
		profile := litProfile(420, [2]int{0, 419})

		if _, err := FindPositions(profile, testConfig()); !errors.Is(err, ErrInvalidSignal) {
			t.Errorf("expected ErrInvalidSignal, got %v", err)
		}
	})

	t.Run("wide run after valid run still invalidates", func(t *testing.T) {
		profile := litProfile(420, [2]int{10, 40}, [2]int{100, 300})

		got, err := FindPositions(profile, testConfig())
		if !errors.Is(err, ErrInvalidSignal) {
			t.Fatalf("expected ErrInvalidSignal, got %v", err)
		}
		if got != nil {
			t.Errorf("expected nil positions on invalid frame, got %v", got)
		}
	})

	t.Run("value equal to threshold is dark", func(t *testing.T) {
		profile := make([]float64, 100)
		for i := 10; i <= 40; i++ {
			profile[i] = 196
		}

		got, err := FindPositions(profile, testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no positions, got %v", got)
		}
	})

	t.Run("three runs are all reported", func(t *testing.T) {
		profile := litProfile(420, [2]int{10, 40}, [2]int{100, 130}, [2]int{300, 330})

		got, err := FindPositions(profile, testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []int{25, 115, 315}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FindPositions() = %v, want %v", got, want)
		}
	})
}

func TestFromConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MinWidth != 50 || cfg.MaxWidth != 120 {
		t.Errorf("widths = (%d, %d), want (50, 120)", cfg.MinWidth, cfg.MaxWidth)
	}
	if cfg.LuminanceThreshold != 196 {
		t.Errorf("LuminanceThreshold = %f, want 196", cfg.LuminanceThreshold)
	}
	if cfg.Weights != [3]float64{0.299, 0.587, 0.114} {
		t.Errorf("Weights = %v", cfg.Weights)
	}
}
