package tracker

import (
	"github.com/ayusman/lanetap/internal/detector"
	"gocv.io/x/gocv"
)

// Tracker owns the two touch slots of a detection session. It is driven by
// a single goroutine and does no locking.
type Tracker struct {
	detector  detector.Detector
	threshold int
	state     State
}

// New creates a Tracker that reads candidates from d and matches slots to
// candidates within threshold columns.
func New(d detector.Detector, threshold int) *Tracker {
	return &Tracker{
		detector:  d,
		threshold: threshold,
	}
}

// Update runs detection on strip and advances the slot state by one frame.
// A non-nil error means the frame was invalid and Invalid now reports true;
// the session is expected to stop and Reset before detecting again.
func (t *Tracker) Update(strip *gocv.Mat) error {
	candidates, err := t.detector.Detect(strip)
	return t.Observe(candidates, err)
}

// Observe advances the slot state with already detected candidates.
func (t *Tracker) Observe(candidates []int, detectErr error) error {
	next, err := t.state.Next(candidates, detectErr, t.threshold)
	t.state = next
	return err
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	return t.state
}

// Invalid reports whether the session hit an invalid frame.
func (t *Tracker) Invalid() bool {
	return t.state.Invalid
}

// Reset frees both slots, clears actions and the invalid flag.
func (t *Tracker) Reset() {
	t.state = State{}
}

// SetDetector replaces the detector used by Update.
func (t *Tracker) SetDetector(d detector.Detector) {
	t.detector = d
}
