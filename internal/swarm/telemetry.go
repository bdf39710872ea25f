package swarm

import (
	"fmt"
	"strings"
)

// Record is the per-agent telemetry published every frame.
type Record struct {
	ID       int
	Position Vec3 // rounded to two decimals
	Active   bool // false while the agent is retiring
}

// String formats the record the way the drone HUD shows it:
//
//	ID 007  X:+12.00 Y:+5.00 Z:-4.25
func (r Record) String() string {
	return fmt.Sprintf("ID %03d  X:%s Y:%s Z:%s",
		r.ID, signed(r.Position[0]), signed(r.Position[1]), signed(r.Position[2]))
}

// signed prints v with two decimals and an explicit '+' for positive values.
func signed(v float64) string {
	if v == 0 {
		v = 0 // fold -0
	}
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Snapshot is the ordered telemetry for every live agent at one frame.
type Snapshot struct {
	Frame   int
	Records []Record
}

// Project builds a snapshot from positions and activity flags. Only indices
// present in both slices are emitted.
func Project(frame int, positions []Vec3, active []bool) Snapshot {
	n := min(len(positions), len(active))
	snap := Snapshot{Frame: frame, Records: make([]Record, n)}
	for i := 0; i < n; i++ {
		snap.Records[i] = Record{ID: i, Position: round2(positions[i]), Active: active[i]}
	}
	return snap
}

// ActiveCount returns how many records are active.
func (s Snapshot) ActiveCount() int {
	n := 0
	for _, r := range s.Records {
		if r.Active {
			n++
		}
	}
	return n
}

// Lookup returns the record with the given id, if present.
func (s Snapshot) Lookup(id int) (Record, bool) {
	if id < 0 || id >= len(s.Records) {
		return Record{}, false
	}
	return s.Records[id], true
}

// Format renders the snapshot as a tab-separated table with a header row.
func (s Snapshot) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frame\t%d\n", s.Frame)
	sb.WriteString("id\tx\ty\tz\tactive\n")
	for _, r := range s.Records {
		fmt.Fprintf(&sb, "%d\t%.2f\t%.2f\t%.2f\t%t\n",
			r.ID, r.Position[0], r.Position[1], r.Position[2], r.Active)
	}
	return sb.String()
}
