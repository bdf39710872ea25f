package viewer

import "github.com/Garsondee/Swarm-Sense/internal/swarm"

// mapView is a top-down orthographic map of the XZ plane. Screen x follows
// world X and screen y follows world Z; altitude is dropped.
type mapView struct {
	width, height int     // viewport size in pixels
	pxPerUnit     float64 // pixels per world unit at zoom 1
	zoom          float64
	camX, camZ    float64 // world point shown at the viewport centre
}

const (
	zoomMin = 0.25
	zoomMax = 6.0
)

func (v mapView) scale() float64 {
	return v.pxPerUnit * v.zoom
}

// toScreen maps a world position to viewport pixels.
func (v mapView) toScreen(p swarm.Vec3) (float32, float32) {
	s := v.scale()
	sx := float64(v.width)/2 + (p[0]-v.camX)*s
	sy := float64(v.height)/2 + (p[2]-v.camZ)*s
	return float32(sx), float32(sy)
}

// toWorld maps a viewport pixel back onto the ground plane (Y = 0).
func (v mapView) toWorld(sx, sy int) swarm.Vec3 {
	s := v.scale()
	return swarm.Vec3{
		v.camX + (float64(sx)-float64(v.width)/2)/s,
		0,
		v.camZ + (float64(sy)-float64(v.height)/2)/s,
	}
}

// visible reports whether a screen point lies within the viewport plus margin.
func (v mapView) visible(x, y, margin float32) bool {
	return x >= -margin && y >= -margin &&
		x <= float32(v.width)+margin && y <= float32(v.height)+margin
}

// zoomBy multiplies the zoom factor, clamped to [zoomMin, zoomMax].
func (v *mapView) zoomBy(f float64) {
	v.zoom *= f
	if v.zoom < zoomMin {
		v.zoom = zoomMin
	}
	if v.zoom > zoomMax {
		v.zoom = zoomMax
	}
}
