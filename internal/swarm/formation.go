package swarm

import (
	"fmt"
	"math"
	"strings"
)

// FormationKind identifies the layout algorithm used to place agents.
type FormationKind int

const (
	FormationGrid        FormationKind = iota // square-ish grid on the ground plane
	FormationCube                             // stacked square layers
	FormationCircle                           // concentric rings around the origin
	FormationDelta                            // chevron squadrons of groupSize
	FormationXLine                            // single file along X
	FormationYLine                            // vertical column
	FormationZLine                            // single file along Z
	FormationSphere                           // fibonacci-like shell
	FormationSpiral                           // rising helix
	FormationPathSampled                      // resampled outline path

	formationCount
)

// slotSpacing is the world-space gap between adjacent agents.
const slotSpacing = 8.0

// cruiseHeight is the default Y for flat formations.
const cruiseHeight = 5.0

var formationNames = [formationCount]string{
	FormationGrid:        "grid",
	FormationCube:        "cube",
	FormationCircle:      "circle",
	FormationDelta:       "delta",
	FormationXLine:       "x-line",
	FormationYLine:       "y-line",
	FormationZLine:       "z-line",
	FormationSphere:      "sphere",
	FormationSpiral:      "spiral",
	FormationPathSampled: "path-sampled",
}

func (k FormationKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("formation(%d)", int(k))
	}
	return formationNames[k]
}

// Valid reports whether k is one of the known formation kinds.
func (k FormationKind) Valid() bool {
	return k >= 0 && k < formationCount
}

// Next returns the kind after k, wrapping around.
func (k FormationKind) Next() FormationKind {
	return (k + 1) % formationCount
}

// AllFormations lists every kind in declaration order.
func AllFormations() []FormationKind {
	out := make([]FormationKind, 0, formationCount)
	for k := FormationKind(0); k < formationCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps a formation name ("grid", "x-line", ...) to its kind.
// "logo" and "path" are accepted as aliases for path-sampled.
func ParseKind(name string) (FormationKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "logo", "path", "outline":
		return FormationPathSampled, nil
	}
	for k, kn := range formationNames {
		if kn == n {
			return FormationKind(k), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownKind)
}

// Planner maps (count, kind, groupSize) to target positions. It holds only
// immutable layout inputs, so Plan is a pure function of its arguments.
type Planner struct {
	outline Outline
}

// NewPlanner returns a planner whose path-sampled formation follows outline.
func NewPlanner(outline Outline) Planner {
	return Planner{outline: outline}
}

// DefaultPlanner returns a planner using the built-in star outline.
func DefaultPlanner() Planner {
	return NewPlanner(DefaultOutline())
}

// Outline returns the outline used by the path-sampled formation.
func (p Planner) Outline() Outline {
	return p.outline
}

// Plan returns exactly count target positions, one per agent index.
// groupSize is only read by the delta formation and must be >= 1.
func (p Planner) Plan(count int, kind FormationKind, groupSize int) []Vec3 {
	if count <= 0 {
		return []Vec3{}
	}
	switch kind {
	case FormationGrid:
		return gridLayout(count)
	case FormationCube:
		return cubeLayout(count)
	case FormationCircle:
		return circleLayout(count)
	case FormationDelta:
		return deltaLayout(count, groupSize)
	case FormationXLine:
		return lineLayout(count, 0)
	case FormationYLine:
		return lineLayout(count, 1)
	case FormationZLine:
		return lineLayout(count, 2)
	case FormationSphere:
		return sphereLayout(count)
	case FormationSpiral:
		return spiralLayout(count)
	case FormationPathSampled:
		return p.outline.Sample(count)
	}
	// Unknown kinds are rejected at the request boundary; park everyone
	// on the ground at the origin rather than fault.
	out := make([]Vec3, count)
	for i := range out {
		out[i] = Vec3{0, cruiseHeight, 0}
	}
	return out
}

func gridLayout(count int) []Vec3 {
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := int(math.Ceil(float64(count) / float64(cols)))
	xOffset := float64(cols-1) * slotSpacing * 0.5
	zOffset := float64(rows-1) * slotSpacing * 0.5

	out := make([]Vec3, count)
	for i := range out {
		col := i % cols
		row := i / cols
		out[i] = Vec3{
			float64(col)*slotSpacing - xOffset,
			cruiseHeight,
			float64(row)*slotSpacing - zOffset,
		}
	}
	return out
}

func cubeLayout(count int) []Vec3 {
	layer := int(math.Ceil(math.Cbrt(float64(count))))
	offset := slotSpacing * float64(layer-1) * 0.5

	out := make([]Vec3, count)
	for i := range out {
		lx := i % layer
		ly := i / (layer * layer)
		lz := (i / layer) % layer
		out[i] = Vec3{
			float64(lx)*slotSpacing - offset,
			float64(ly) * slotSpacing,
			float64(lz)*slotSpacing - offset,
		}
	}
	return out
}

// ringCapacity is how many agents fit on ring r. Ring 0 is the single
// centre slot; ring r > 0 fits floor(circumference / spacing).
func ringCapacity(ring int) int {
	if ring == 0 {
		return 1
	}
	radius := float64(ring) * slotSpacing
	return int(math.Floor(2 * math.Pi * radius / slotSpacing))
}

func circleLayout(count int) []Vec3 {
	out := make([]Vec3, 0, count)
	for ring := 0; len(out) < count; ring++ {
		perRing := ringCapacity(ring)
		radius := float64(ring) * slotSpacing
		for j := 0; j < perRing && len(out) < count; j++ {
			if ring == 0 {
				out = append(out, Vec3{0, cruiseHeight, 0})
				continue
			}
			angle := float64(j) / float64(perRing) * 2 * math.Pi
			out = append(out, Vec3{
				math.Cos(angle) * radius,
				cruiseHeight,
				math.Sin(angle) * radius,
			})
		}
	}
	return out
}

func deltaLayout(count, groupSize int) []Vec3 {
	if groupSize < 1 {
		groupSize = 1
	}
	half := groupSize / 2

	out := make([]Vec3, count)
	for i := range out {
		groupIndex := i / groupSize
		inGroup := i % groupSize
		direction := 1.0
		if inGroup < half {
			direction = -1.0
		}
		dx := math.Abs(float64(inGroup - half))
		out[i] = Vec3{
			dx * slotSpacing * direction,
			cruiseHeight,
			-dx*slotSpacing - float64(groupIndex)*slotSpacing,
		}
	}
	return out
}

// lineLayout spreads agents along one axis (0=X, 1=Y, 2=Z).
func lineLayout(count, axis int) []Vec3 {
	out := make([]Vec3, count)
	for i := range out {
		v := Vec3{0, cruiseHeight, 0}
		v[axis] = (float64(i) - float64(count)/2) * slotSpacing
		out[i] = v
	}
	return out
}

func sphereLayout(count int) []Vec3 {
	r := slotSpacing * 3
	n := float64(count)

	out := make([]Vec3, count)
	for i := range out {
		phi := math.Acos(-1 + 2*float64(i)/n)
		theta := math.Sqrt(n*math.Pi) * phi
		out[i] = Vec3{
			r * math.Cos(theta) * math.Sin(phi),
			r * math.Sin(theta) * math.Sin(phi),
			r * math.Cos(phi),
		}
	}
	return out
}

const (
	spiralAngleStep    = 0.3
	spiralVerticalStep = 1.2
	spiralRadius       = 12.0
)

func spiralLayout(count int) []Vec3 {
	out := make([]Vec3, count)
	for i := range out {
		angle := float64(i) * spiralAngleStep
		out[i] = Vec3{
			math.Cos(angle) * spiralRadius,
			float64(i)*spiralVerticalStep + cruiseHeight,
			math.Sin(angle) * spiralRadius,
		}
	}
	return out
}
