package swarm

// DefaultCapacity is the number of agent slots allocated up front.
const DefaultCapacity = 1000

// Arena is fixed-capacity per-agent storage indexed by agent id.
//
// Slots [0, live) are in play: either active (part of the current request)
// or retiring toward OffscreenSentinel. A slot is seeded once it has been
// given a current position; unseeding a slot forgets it so that a later
// growth starts it off-screen again.
type Arena struct {
	current []Vec3
	target  []Vec3
	active  []bool
	seeded  []bool

	live      int
	highWater int // largest live length ever reached
}

// NewArena allocates capacity slots. Capacity below 1 falls back to DefaultCapacity.
func NewArena(capacity int) *Arena {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Arena{
		current: make([]Vec3, capacity),
		target:  make([]Vec3, capacity),
		active:  make([]bool, capacity),
		seeded:  make([]bool, capacity),
	}
}

// Cap is the fixed slot count.
func (a *Arena) Cap() int { return len(a.current) }

// Live is the number of slots currently in play.
func (a *Arena) Live() int { return a.live }

// HighWater is the largest live length the arena has held.
func (a *Arena) HighWater() int { return a.highWater }

// inRange reports whether i addresses a live slot.
func (a *Arena) inRange(i int) bool {
	return i >= 0 && i < a.live
}

// place sets the target and activity of slot i, seeding its current
// position at the sentinel when the slot has never been placed.
// It reports whether the slot was freshly seeded.
func (a *Arena) place(i int, target Vec3, active bool) bool {
	a.target[i] = target
	a.active[i] = active
	if a.seeded[i] {
		return false
	}
	a.current[i] = OffscreenSentinel
	a.seeded[i] = true
	return true
}

// truncate sets the live length, forgetting every slot beyond it.
// It returns how many previously live slots were dropped.
func (a *Arena) truncate(live int) int {
	dropped := 0
	for i := live; i < a.live; i++ {
		a.seeded[i] = false
		a.active[i] = false
		dropped++
	}
	a.live = live
	if live > a.highWater {
		a.highWater = live
	}
	return dropped
}
