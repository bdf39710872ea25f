package swarm

import "fmt"

// Request is one snapshot of the formation controls. Applying a Request
// that differs from the current one triggers a full replan.
type Request struct {
	Count     int
	Kind      FormationKind
	GroupSize int
}

// DefaultGroupSize is the delta squadron size used when none is given.
const DefaultGroupSize = 25

func (r Request) String() string {
	return fmt.Sprintf("%s n=%d group=%d", r.Kind, r.Count, r.GroupSize)
}

// Normalize clamps Count into [1, capacity] and GroupSize to at least 1.
// Unknown kinds are rejected; nothing is clamped in that case.
func (r Request) Normalize(capacity int) (Request, error) {
	if !r.Kind.Valid() {
		return r, fmt.Errorf("request %s: %w", r, ErrUnknownKind)
	}
	if r.Count < 1 {
		r.Count = 1
	}
	if capacity > 0 && r.Count > capacity {
		r.Count = capacity
	}
	if r.GroupSize < 1 {
		r.GroupSize = 1
	}
	return r, nil
}
