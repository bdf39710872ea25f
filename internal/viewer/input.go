package viewer

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyActions binds edge-triggered keys to control actions.
var keyActions = map[ebiten.Key]action{
	ebiten.KeyTab:          actNextFormation,
	ebiten.KeyBracketRight: actCountUp,
	ebiten.KeyBracketLeft:  actCountDown,
	ebiten.KeyPeriod:       actGroupUp,
	ebiten.KeyComma:        actGroupDown,
	ebiten.KeyE:            actPovNext,
	ebiten.KeyQ:            actPovPrev,
	ebiten.KeyC:            actCopyTelemetry,
	ebiten.KeyF5:           actSavePrefs,
	ebiten.KeyH:            actToggleHUD,
	ebiten.KeyF:            actToggleFollow,
	ebiten.KeyX:            actClearMarker,
}

// handleInput processes control keypresses (edge-triggered), camera
// movement (held) and mouse clicks.
func (v *Viewer) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	for k, a := range keyActions {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		if currentKeys[k] && !v.prevKeys[k] {
			v.perform(a)
		}
	}

	// Camera pan: WASD or arrow keys. Panning drops follow mode.
	panSpeed := 2.0 / v.view.zoom
	dx, dz := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dz -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dz += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += panSpeed
	}
	if dx != 0 || dz != 0 {
		v.follow = false
		v.view.camX += dx
		v.view.camZ += dz
	}

	// Zoom: mouse wheel or =/- keys.
	if _, wy := ebiten.Wheel(); wy != 0 {
		v.view.zoomBy(math.Pow(1.12, wy))
	}
	currentKeys[ebiten.KeyEqual] = ebiten.IsKeyPressed(ebiten.KeyEqual)
	if currentKeys[ebiten.KeyEqual] && !v.prevKeys[ebiten.KeyEqual] {
		v.view.zoomBy(1.25)
	}
	currentKeys[ebiten.KeyMinus] = ebiten.IsKeyPressed(ebiten.KeyMinus)
	if currentKeys[ebiten.KeyMinus] && !v.prevKeys[ebiten.KeyMinus] {
		v.view.zoomBy(1 / 1.25)
	}

	// Left click drops the marker; right click clears it.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		v.placeMarker(mx, my)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		v.perform(actClearMarker)
	}

	v.prevKeys = currentKeys
}
