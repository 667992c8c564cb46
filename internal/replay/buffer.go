package replay

import "github.com/ayusman/lanetap/internal/tracker"

// DelayBuffer holds frame records back for a fixed number of frames.
// With one Push and at most one Pop per frame it never holds more than
// depth+1 frames.
type DelayBuffer struct {
	depth  int
	frames [][]tracker.Record
}

// NewDelayBuffer creates a DelayBuffer that delays frames by depth cycles.
// Negative depths are treated as zero.
func NewDelayBuffer(depth int) *DelayBuffer {
	if depth < 0 {
		depth = 0
	}
	return &DelayBuffer{
		depth:  depth,
		frames: make([][]tracker.Record, 0, depth+1),
	}
}

// Push enqueues the records of the current frame.
func (b *DelayBuffer) Push(records []tracker.Record) {
	b.frames = append(b.frames, records)
}

// Pop dequeues the oldest frame once more than depth frames are queued.
func (b *DelayBuffer) Pop() ([]tracker.Record, bool) {
	if len(b.frames) <= b.depth {
		return nil, false
	}
	head := b.frames[0]
	b.frames[0] = nil
	b.frames = b.frames[1:]
	return head, true
}

// Len returns the number of queued frames.
func (b *DelayBuffer) Len() int {
	return len(b.frames)
}

// Drain dequeues every queued frame, oldest first, leaving the buffer empty.
func (b *DelayBuffer) Drain() [][]tracker.Record {
	frames := make([][]tracker.Record, len(b.frames))
	copy(frames, b.frames)
	b.Reset()
	return frames
}

// Reset drops all queued frames.
func (b *DelayBuffer) Reset() {
	clear(b.frames)
	b.frames = b.frames[:0]
}
