package tracker

// Record is one slot's output for a frame, in input bar coordinates.
type Record struct {
	Slot   int     `json:"slot"`
	Action Action  `json:"action"`
	X      float64 `json:"x"`
}

// Records returns the non-idle slots of s with positions scaled by ratio.
// A released slot still carries the position it was withdrawn from.
func (s State) Records(ratio float64) []Record {
	var records []Record
	for i, action := range s.Actions {
		if action == Idle || !s.Slots[i].Occupied {
			continue
		}
		records = append(records, Record{
			Slot:   i,
			Action: action,
			X:      float64(s.Slots[i].Pos) * ratio,
		})
	}
	return records
}
