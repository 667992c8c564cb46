// Package tracker maintains up to two persistent touch identities across frames.
package tracker

import (
	"errors"
	"fmt"
)

// NumSlots is the number of simultaneous touches the game can produce.
const NumSlots = 2

var (
	// ErrOverCapacity is returned when a frame holds more than NumSlots candidates.
	ErrOverCapacity = errors.New("more than two touch candidates")

	// ErrUnassigned is returned when candidates remain after slot assignment.
	ErrUnassigned = errors.New("unassigned touch candidates remain")
)

// Action is the per-slot outcome of a frame.
type Action int

// Slot actions.
const (
	Idle Action = iota
	Press
	Move
	Release
)

// String returns the lower-case action name.
func (a Action) String() string {
	switch a {
	case Idle:
		return "idle"
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Slot is one touch identity. Pos is meaningful only when Occupied is set.
type Slot struct {
	Occupied bool
	Pos      int
}

// At returns an occupied slot at pos.
func At(pos int) Slot {
	return Slot{Occupied: true, Pos: pos}
}

// State is the complete tracker state for one frame. The zero value is the
// state of a freshly started session.
type State struct {
	Slots   [NumSlots]Slot
	Actions [NumSlots]Action
	Invalid bool
}

// Next computes the state for a new frame from the detector output.
//
// The steps run in a fixed order:
// 1. Free slots released in the previous frame
// 2. Reset actions to Idle
// 3. Gate on detector error or too many candidates
// 4. Match occupied slots (index order) to candidates within threshold
// 5. Press leftover candidates into slots
// 6. Keep idle free slots free
//
// When the frame is invalid the returned state has Invalid set and the
// returned error explains why; slots are left as they were after step 2.
func (s State) Next(candidates []int, detectErr error, threshold int) (State, error) {
	next := s

	for i := range next.Slots {
		if s.Actions[i] == Release {
			next.Slots[i] = Slot{}
		}
	}

	next.Actions = [NumSlots]Action{}

	if detectErr != nil {
		next.Invalid = true
		return next, detectErr
	}
	if len(candidates) > NumSlots {
		next.Invalid = true
		return next, fmt.Errorf("%w: got %d", ErrOverCapacity, len(candidates))
	}

	matched := make([]bool, len(candidates))
	for i := range next.Slots {
		if !next.Slots[i].Occupied {
			continue
		}
		j := firstWithin(next.Slots[i].Pos, candidates, matched, threshold)
		if j < 0 {
			next.Actions[i] = Release
			continue
		}
		matched[j] = true
		if candidates[j] != next.Slots[i].Pos {
			next.Actions[i] = Move
			next.Slots[i].Pos = candidates[j]
		}
	}

	remaining := make([]int, 0, len(candidates))
	for j, p := range candidates {
		if !matched[j] {
			remaining = append(remaining, p)
		}
	}

	switch len(remaining) {
	case 2:
		for i := range next.Slots {
			next.Slots[i] = At(remaining[i])
			next.Actions[i] = Press
		}
		remaining = remaining[:0]
	case 1:
		i := 0
		if next.Slots[0].Occupied {
			i = 1
		}
		next.Slots[i] = At(remaining[0])
		next.Actions[i] = Press
		remaining = remaining[:0]
	}

	if len(remaining) != 0 {
		next.Invalid = true
		return next, fmt.Errorf("%w: %v", ErrUnassigned, remaining)
	}

	for i := range next.Slots {
		if next.Actions[i] == Idle && !next.Slots[i].Occupied {
			next.Slots[i] = Slot{}
		}
	}

	return next, nil
}

// firstWithin returns the index of the first unmatched candidate within
// threshold of pos, or -1.
func firstWithin(pos int, candidates []int, matched []bool, threshold int) int {
	for j, p := range candidates {
		if matched[j] {
			continue
		}
		if abs(p-pos) <= threshold {
			return j
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Occupied returns the number of occupied slots.
func (s State) Occupied() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Occupied {
			n++
		}
	}
	return n
}
