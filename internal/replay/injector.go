package replay

import (
	"fmt"
	"image"
	"sync"
)

// Injector issues left-button pointer events at absolute screen points.
type Injector interface {
	Press(p image.Point) error
	Drag(p image.Point) error
	Release(p image.Point) error
}

// EventKind identifies a recorded pointer event.
type EventKind string

// Recorded pointer event kinds.
const (
	EventPress   EventKind = "down"
	EventDrag    EventKind = "drag"
	EventRelease EventKind = "up"
)

// Event is one pointer event captured by RecordingInjector.
type Event struct {
	Kind  EventKind
	Point image.Point
}

func (e Event) String() string {
	return fmt.Sprintf("%s@(%d,%d)", e.Kind, e.Point.X, e.Point.Y)
}

// RecordingInjector records pointer events instead of sending them.
type RecordingInjector struct {
	mu     sync.Mutex
	events []Event
	err    error
}

// NewRecordingInjector creates an empty RecordingInjector.
func NewRecordingInjector() *RecordingInjector {
	return &RecordingInjector{}
}

// SetError makes every subsequent call fail with err.
func (r *RecordingInjector) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *RecordingInjector) record(kind EventKind, p image.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, Event{Kind: kind, Point: p})
	return nil
}

// Press records a button-down.
func (r *RecordingInjector) Press(p image.Point) error { return r.record(EventPress, p) }

// Drag records a drag.
func (r *RecordingInjector) Drag(p image.Point) error { return r.record(EventDrag, p) }

// Release records a button-up.
func (r *RecordingInjector) Release(p image.Point) error { return r.record(EventRelease, p) }

// Events returns a copy of the recorded events.
func (r *RecordingInjector) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Clear drops all recorded events.
func (r *RecordingInjector) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
