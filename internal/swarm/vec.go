package swarm

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space position. X is east, Y is up, Z is south.
type Vec3 = mgl64.Vec3

// OffscreenSentinel is the parking spot for agents that are not yet placed
// or are being retired. Far enough away to be outside any formation.
var OffscreenSentinel = Vec3{200, -100, 200}

// lerp moves a toward b by fraction alpha.
func lerp(a, b Vec3, alpha float64) Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

// round2 rounds every component to two decimals.
func round2(v Vec3) Vec3 {
	return Vec3{
		math.Round(v[0]*100) / 100,
		math.Round(v[1]*100) / 100,
		math.Round(v[2]*100) / 100,
	}
}
