package swarm

// TestSwarm is a headless harness around an Integrator, used by tests and
// the headless report. It mirrors what a render loop does each frame:
// apply pending requests, then tick.
type TestSwarm struct {
	Integrator *Integrator
	Log        *EventLog

	capacity int
	alpha    float64
	planner  Planner
	last     Snapshot
}

// swarmOptionKind controls the pass in which an option is applied.
type swarmOptionKind int

const (
	swarmOptInfra   swarmOptionKind = iota // slots, easing, outline, verbose, applied first
	swarmOptRequest                        // initial request, applied after the integrator exists
)

// SwarmOption is a builder function applied to a TestSwarm during construction.
type SwarmOption struct {
	kind swarmOptionKind
	fn   func(*TestSwarm)
}

// WithSlots sets the arena capacity.
func WithSlots(n int) SwarmOption {
	return SwarmOption{swarmOptInfra, func(ts *TestSwarm) {
		ts.capacity = n
	}}
}

// WithEasing sets the per-frame easing factor.
func WithEasing(alpha float64) SwarmOption {
	return SwarmOption{swarmOptInfra, func(ts *TestSwarm) {
		ts.alpha = alpha
	}}
}

// WithOutline sets the outline followed by the path-sampled formation.
func WithOutline(o Outline) SwarmOption {
	return SwarmOption{swarmOptInfra, func(ts *TestSwarm) {
		ts.planner = NewPlanner(o)
	}}
}

// WithVerbose enables per-frame position logging.
func WithVerbose(v bool) SwarmOption {
	return SwarmOption{swarmOptInfra, func(ts *TestSwarm) {
		ts.Log = NewEventLog(v)
	}}
}

// WithRequest applies an initial formation request.
func WithRequest(count int, kind FormationKind, groupSize int) SwarmOption {
	return SwarmOption{swarmOptRequest, func(ts *TestSwarm) {
		// Harness callers pass valid kinds; a rejection is still logged.
		_ = ts.Reconfigure(count, kind, groupSize)
	}}
}

// NewTestSwarm constructs a TestSwarm from the given options in two passes:
//  1. Infrastructure (slots, easing, outline, verbose), then build the integrator
//  2. Initial request
func NewTestSwarm(opts ...SwarmOption) *TestSwarm {
	ts := &TestSwarm{
		Log:      NewEventLog(false),
		capacity: DefaultCapacity,
		alpha:    DefaultAlpha,
		planner:  DefaultPlanner(),
	}
	for _, o := range opts {
		if o.kind == swarmOptInfra {
			o.fn(ts)
		}
	}
	ts.Integrator = NewIntegrator(ts.planner,
		WithCapacity(ts.capacity),
		WithAlpha(ts.alpha),
		WithEventLog(ts.Log),
	)
	for _, o := range opts {
		if o.kind == swarmOptRequest {
			o.fn(ts)
		}
	}
	ts.last = ts.Integrator.Telemetry()
	return ts
}

// Reconfigure applies a new request, as a control change would between frames.
func (ts *TestSwarm) Reconfigure(count int, kind FormationKind, groupSize int) error {
	return ts.Integrator.Apply(Request{Count: count, Kind: kind, GroupSize: groupSize})
}

// RunTicks advances the swarm n frames.
func (ts *TestSwarm) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.last = ts.Integrator.Tick()
	}
}

// RunUntil advances up to maxTicks frames, stopping early if predicate
// returns true. Returns the frame at which the predicate was satisfied, or -1.
func (ts *TestSwarm) RunUntil(predicate func(*TestSwarm) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.last = ts.Integrator.Tick()
		if predicate(ts) {
			return ts.Integrator.Frame()
		}
	}
	return -1
}

// Last returns the telemetry of the most recent frame.
func (ts *TestSwarm) Last() Snapshot {
	return ts.last
}

// CurrentFrame returns the current frame number.
func (ts *TestSwarm) CurrentFrame() int {
	return ts.Integrator.Frame()
}
