package detector

// FindPositions scans a luminance profile left to right and returns the
// midpoint of every lit run whose length lies in (MinWidth, MaxWidth].
//
// A run covers columns start..end inclusive and its length is end - start.
// A run longer than MaxWidth aborts the scan with ErrInvalidSignal; one
// anomalous run invalidates the whole frame.
func FindPositions(profile []float64, config Config) ([]int, error) {
	var positions []int
	start := -1

	closeRun := func(end int) error {
		length := end - start
		if length > config.MaxWidth {
			return ErrInvalidSignal
		}
		if length > config.MinWidth {
			positions = append(positions, (start+end)/2)
		}
		start = -1
		return nil
	}

	for i, value := range profile {
		if value > config.LuminanceThreshold {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if err := closeRun(i - 1); err != nil {
				return nil, err
			}
		}
	}

	// Run still open at the right edge
	if start >= 0 {
		if err := closeRun(len(profile) - 1); err != nil {
			return nil, err
		}
	}

	return positions, nil
}
