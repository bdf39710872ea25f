package swarm

import "errors"

var (
	// ErrUnknownKind is returned for formation names or kinds outside the known set.
	ErrUnknownKind = errors.New("unknown formation kind")
	// ErrMalformedPath is returned when an outline path description cannot be parsed.
	ErrMalformedPath = errors.New("malformed outline path")
)
