package swarm

import (
	"fmt"
	"math"
)

// DefaultAlpha is the fraction of the remaining distance covered per frame.
const DefaultAlpha = 0.015

// SettleTolerance is the distance (world units) under which every active
// agent must be for the formation to count as settled.
const SettleTolerance = 0.5

// DefaultPovOffset is the camera anchor offset from the point-of-view agent:
// above and behind it.
var DefaultPovOffset = Vec3{0, 4, 12}

// Integrator owns the current position of every agent and eases each one
// toward its planned target once per frame.
//
// It is not safe for concurrent use. Apply and Tick are meant to be called
// from the single loop that renders frames.
type Integrator struct {
	planner   Planner
	arena     *Arena
	alpha     float64
	log       *EventLog
	povOffset Vec3

	req     Request
	applied bool
	settled bool
	frame   int

	pov       int
	marker    Vec3
	hasMarker bool
}

// IntegratorOption configures an Integrator at construction.
type IntegratorOption func(*Integrator)

// WithCapacity sets the fixed number of agent slots.
func WithCapacity(n int) IntegratorOption {
	return func(in *Integrator) {
		in.arena = NewArena(n)
	}
}

// WithAlpha sets the per-frame easing factor. Values outside (0, 1] are ignored.
func WithAlpha(alpha float64) IntegratorOption {
	return func(in *Integrator) {
		if alpha > 0 && alpha <= 1 {
			in.alpha = alpha
		}
	}
}

// WithEventLog records request and agent events into el.
func WithEventLog(el *EventLog) IntegratorOption {
	return func(in *Integrator) {
		in.log = el
	}
}

// WithPovOffset sets the camera anchor offset applied to the point-of-view agent.
func WithPovOffset(offset Vec3) IntegratorOption {
	return func(in *Integrator) {
		in.povOffset = offset
	}
}

// NewIntegrator creates an integrator with no agents. Call Apply to place them.
func NewIntegrator(planner Planner, opts ...IntegratorOption) *Integrator {
	in := &Integrator{
		planner:   planner,
		alpha:     DefaultAlpha,
		povOffset: DefaultPovOffset,
	}
	for _, o := range opts {
		o(in)
	}
	if in.arena == nil {
		in.arena = NewArena(DefaultCapacity)
	}
	return in
}

// Apply replans the formation for req.
//
// Agents below both the old and new count keep their current position.
// When the count shrinks, the agents above the new count are retired: they
// stay live and fly to OffscreenSentinel until the next Apply drops them.
// Agents that have never been placed start at OffscreenSentinel.
//
// An invalid kind is rejected and leaves the integrator untouched. A request
// equal to the current one is a no-op.
func (in *Integrator) Apply(req Request) error {
	req, err := req.Normalize(in.arena.Cap())
	if err != nil {
		in.log.Add(in.frame, "--", "request", "rejected", err.Error(), 0)
		return err
	}
	if in.applied && req == in.req {
		return nil
	}

	targets := in.planner.Plan(req.Count, req.Kind, req.GroupSize)
	prev := 0
	if in.applied {
		prev = in.req.Count
	}
	live := max(req.Count, prev)

	spawned, retired := 0, 0
	for i := 0; i < live; i++ {
		if i < req.Count {
			if in.arena.place(i, targets[i], true) {
				spawned++
				in.log.AddVerbose(in.frame, agentLabel(i), "agent", "spawned", "at offscreen", 0)
			}
			continue
		}
		in.arena.place(i, OffscreenSentinel, false)
		retired++
		in.log.AddVerbose(in.frame, agentLabel(i), "agent", "retired", "→ offscreen", 0)
	}
	dropped := in.arena.truncate(live)

	old := in.req
	in.req = req
	in.applied = true
	in.settled = false

	if prev == 0 {
		in.log.Add(in.frame, "--", "request", "applied", req.String(), float64(req.Count))
	} else {
		in.log.Add(in.frame, "--", "request", "applied",
			fmt.Sprintf("%s → %s", old, req), float64(req.Count))
	}
	if spawned > 0 {
		in.log.Add(in.frame, "--", "agent", "spawned", fmt.Sprintf("%d agents", spawned), float64(spawned))
	}
	if retired > 0 {
		in.log.Add(in.frame, "--", "agent", "retired", fmt.Sprintf("%d agents", retired), float64(retired))
	}
	if dropped > 0 {
		in.log.Add(in.frame, "--", "agent", "dropped", fmt.Sprintf("%d agents", dropped), float64(dropped))
	}
	return nil
}

// Step eases every current position toward its target by alpha and returns
// the new positions. Only indices present in both slices are advanced. The
// inputs are not modified.
func Step(current, target []Vec3, alpha float64) []Vec3 {
	n := min(len(current), len(target))
	out := make([]Vec3, n)
	for i := 0; i < n; i++ {
		out[i] = lerp(current[i], target[i], alpha)
	}
	return out
}

// Advance moves every live agent one step toward its target and returns the
// new positions. It does not advance the frame counter.
func (in *Integrator) Advance() []Vec3 {
	live := in.arena.live
	next := Step(in.arena.current[:live], in.arena.target[:live], in.alpha)
	copy(in.arena.current, next)
	return next
}

// Tick advances one frame and returns that frame's telemetry.
func (in *Integrator) Tick() Snapshot {
	in.Advance()
	in.frame++

	if in.log.Verbose() {
		for i := 0; i < in.arena.live; i++ {
			p := in.arena.current[i]
			in.log.AddVerbose(in.frame, agentLabel(i), "move", "position",
				fmt.Sprintf("(%.2f,%.2f,%.2f)", p[0], p[1], p[2]), 0)
		}
	}
	if in.applied && !in.settled {
		if _, worst := in.Convergence(); worst <= SettleTolerance {
			in.settled = true
			in.log.Add(in.frame, "--", "formation", "settled", in.req.Kind.String(), worst)
		}
	}
	return in.Telemetry()
}

// Telemetry returns the snapshot for the current frame without advancing.
func (in *Integrator) Telemetry() Snapshot {
	live := in.arena.live
	return Project(in.frame, in.arena.current[:live], in.arena.active[:live])
}

// Convergence returns the mean and largest distance between an active
// agent and its target. Both are zero with no active agents.
func (in *Integrator) Convergence() (mean, worst float64) {
	n := 0
	for i := 0; i < in.arena.live; i++ {
		if !in.arena.active[i] {
			continue
		}
		d := in.arena.target[i].Sub(in.arena.current[i]).Len()
		mean += d
		worst = math.Max(worst, d)
		n++
	}
	if n > 0 {
		mean /= float64(n)
	}
	return mean, worst
}

// Position returns the unrounded current position of agent i.
func (in *Integrator) Position(i int) (Vec3, bool) {
	if !in.arena.inRange(i) {
		return Vec3{}, false
	}
	return in.arena.current[i], true
}

// Target returns the planned position of agent i.
func (in *Integrator) Target(i int) (Vec3, bool) {
	if !in.arena.inRange(i) {
		return Vec3{}, false
	}
	return in.arena.target[i], true
}

// Active reports whether agent i is part of the current request.
func (in *Integrator) Active(i int) bool {
	return in.arena.inRange(i) && in.arena.active[i]
}

// Record returns the telemetry record of agent i.
func (in *Integrator) Record(i int) (Record, bool) {
	if !in.arena.inRange(i) {
		return Record{}, false
	}
	return Record{ID: i, Position: round2(in.arena.current[i]), Active: in.arena.active[i]}, true
}

// SetPointOfView selects the agent that anchors the external camera.
// Out-of-range indices are accepted and simply resolve to nothing.
func (in *Integrator) SetPointOfView(i int) {
	in.pov = i
}

// PointOfViewIndex returns the selected point-of-view index.
func (in *Integrator) PointOfViewIndex() int {
	return in.pov
}

// PointOfView returns the telemetry of the point-of-view agent, or false
// when the index is outside [0, count).
func (in *Integrator) PointOfView() (Record, bool) {
	if in.pov < 0 || in.pov >= in.req.Count {
		return Record{}, false
	}
	return in.Record(in.pov)
}

// CameraAnchor is where a following camera should sit: the point-of-view
// agent's current position plus the fixed offset.
func (in *Integrator) CameraAnchor() (Vec3, bool) {
	if in.pov < 0 || in.pov >= in.req.Count {
		return Vec3{}, false
	}
	p, ok := in.Position(in.pov)
	if !ok {
		return Vec3{}, false
	}
	return p.Add(in.povOffset), true
}

// SetMarker stores an externally picked point for display. It does not
// affect any formation.
func (in *Integrator) SetMarker(p Vec3) {
	in.marker = p
	in.hasMarker = true
	in.log.Add(in.frame, "--", "marker", "set", fmt.Sprintf("(%.2f,%.2f,%.2f)", p[0], p[1], p[2]), 0)
}

// ClearMarker removes the marker.
func (in *Integrator) ClearMarker() {
	in.hasMarker = false
}

// Marker returns the marker point, if one is set.
func (in *Integrator) Marker() (Vec3, bool) {
	return in.marker, in.hasMarker
}

// Request returns the last applied (normalized) request.
func (in *Integrator) Request() Request { return in.req }

// Planner returns the planner used for every replan.
func (in *Integrator) Planner() Planner { return in.planner }

// Frame is the number of ticks run so far.
func (in *Integrator) Frame() int { return in.frame }

// Live is the number of agents currently in play, retiring ones included.
func (in *Integrator) Live() int { return in.arena.Live() }

// HighWater is the largest number of agents ever in play.
func (in *Integrator) HighWater() int { return in.arena.HighWater() }

// Capacity is the fixed slot count.
func (in *Integrator) Capacity() int { return in.arena.Cap() }

// Settled reports whether every active agent has come within
// SettleTolerance of its target since the last replan.
func (in *Integrator) Settled() bool { return in.settled }

// Alpha is the per-frame easing factor.
func (in *Integrator) Alpha() float64 { return in.alpha }
