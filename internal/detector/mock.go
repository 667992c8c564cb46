package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	positions []int
	err       error
	calls     int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPositions sets the positions that will be returned by Detect.
func (m *MockDetector) SetPositions(positions ...int) {
	m.positions = positions
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns a copy of the pre-configured positions or error.
func (m *MockDetector) Detect(strip *gocv.Mat) ([]int, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.positions == nil {
		return nil, nil
	}
	return append([]int(nil), m.positions...), nil
}
