package viewer

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Swarm-Sense/internal/swarm"
)

var (
	colBackground = color.RGBA{R: 12, G: 14, B: 18, A: 255}
	colGridMinor  = color.RGBA{R: 28, G: 32, B: 38, A: 255}
	colGridAxis   = color.RGBA{R: 52, G: 60, B: 70, A: 255}
	colAgent      = color.RGBA{R: 90, G: 200, B: 255, A: 255}
	colRetiring   = color.RGBA{R: 90, G: 100, B: 110, A: 160}
	colTarget     = color.RGBA{R: 70, G: 110, B: 140, A: 120}
	colPov        = color.RGBA{R: 255, G: 210, B: 60, A: 255}
	colMarker     = color.RGBA{R: 235, G: 60, B: 60, A: 255}
	colHudPanel   = color.RGBA{R: 0, G: 0, B: 0, A: 170}
	colHudText    = color.RGBA{R: 220, G: 230, B: 240, A: 255}
	colStatus     = color.RGBA{R: 255, G: 210, B: 60, A: 255}
)

// gridStep is the world spacing of the ground grid lines.
const gridStep = 16.0

const helpLine = "Tab formation  [ ] count  , . group  Q/E pov  F follow  " +
	"click marker  X clear  C copy  F5 save  H hud  WASD pan  +/- zoom"

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	v.drawGround(screen)
	v.drawTargets(screen)
	v.drawAgents(screen)
	v.drawMarker(screen)

	if v.showHUD {
		v.drawHUD(screen)
	}
	ebitenutil.DebugPrintAt(screen, helpLine, 8, screenHeight-18)
}

func (v *Viewer) drawGround(screen *ebiten.Image) {
	tl := v.view.toWorld(0, 0)
	br := v.view.toWorld(screenWidth, screenHeight)
	for x := math.Floor(tl[0]/gridStep) * gridStep; x <= br[0]; x += gridStep {
		sx, _ := v.view.toScreen(swarm.Vec3{x, 0, 0})
		c := colGridMinor
		if x == 0 {
			c = colGridAxis
		}
		vector.StrokeLine(screen, sx, 0, sx, screenHeight, 1, c, false)
	}
	for z := math.Floor(tl[2]/gridStep) * gridStep; z <= br[2]; z += gridStep {
		_, sy := v.view.toScreen(swarm.Vec3{0, 0, z})
		c := colGridMinor
		if z == 0 {
			c = colGridAxis
		}
		vector.StrokeLine(screen, 0, sy, screenWidth, sy, 1, c, false)
	}
}

// drawTargets marks each active agent's slot with a small hollow ring.
func (v *Viewer) drawTargets(screen *ebiten.Image) {
	for i := 0; i < v.in.Live(); i++ {
		if !v.in.Active(i) {
			continue
		}
		t, _ := v.in.Target(i)
		x, y := v.view.toScreen(t)
		if !v.view.visible(x, y, 4) {
			continue
		}
		vector.StrokeCircle(screen, x, y, 2.5, 1, colTarget, true)
	}
}

// agentRadius grows with altitude so stacked layers stay readable top-down.
func (v *Viewer) agentRadius(altitude float64) float32 {
	r := 1.2 + math.Max(altitude, 0)*0.04
	return float32(r * math.Sqrt(v.view.zoom) * 2)
}

func (v *Viewer) drawAgents(screen *ebiten.Image) {
	pov := v.in.PointOfViewIndex()
	for _, rec := range v.last.Records {
		x, y := v.view.toScreen(rec.Position)
		r := v.agentRadius(rec.Position[1])
		if !v.view.visible(x, y, r) {
			continue
		}
		c := colAgent
		if !rec.Active {
			c = colRetiring
		}
		vector.FillCircle(screen, x, y, r, c, true)
		if rec.ID == pov {
			vector.StrokeCircle(screen, x, y, r+3, 1.5, colPov, true)
		}
	}

	// POV camera anchor, joined to its agent.
	if anchor, ok := v.in.CameraAnchor(); ok {
		p, _ := v.in.Position(pov)
		ax, ay := v.view.toScreen(anchor)
		px, py := v.view.toScreen(p)
		vector.StrokeLine(screen, px, py, ax, ay, 1, colPov, true)
		vector.StrokeRect(screen, ax-3, ay-3, 6, 6, 1, colPov, false)
	}
}

func (v *Viewer) drawMarker(screen *ebiten.Image) {
	m, ok := v.in.Marker()
	if !ok {
		return
	}
	x, y := v.view.toScreen(m)
	vector.FillCircle(screen, x, y, 5, colMarker, true)
	vector.StrokeLine(screen, x-9, y, x+9, y, 1, colMarker, true)
	vector.StrokeLine(screen, x, y-9, x, y+9, 1, colMarker, true)
}

// hudLines returns the HUD text for the current frame.
func (v *Viewer) hudLines() []string {
	req := v.in.Request()
	mean, worst := v.in.Convergence()
	state := "moving"
	if v.in.Settled() {
		state = "settled"
	}
	lines := []string{
		fmt.Sprintf("frame %d  %s", v.in.Frame(), req),
		fmt.Sprintf("live %d  active %d  high-water %d / %d",
			v.in.Live(), v.last.ActiveCount(), v.in.HighWater(), v.in.Capacity()),
		fmt.Sprintf("%s  mean %.2f  worst %.2f", state, mean, worst),
	}
	if rec, ok := v.in.PointOfView(); ok {
		lines = append(lines, "POV "+rec.String())
	} else {
		lines = append(lines, fmt.Sprintf("POV %03d  (inactive)", v.in.PointOfViewIndex()))
	}
	if m, ok := v.in.Marker(); ok {
		lines = append(lines, fmt.Sprintf("marker X:%.1f Z:%.1f", m[0], m[2]))
	}
	if v.follow {
		lines = append(lines, "follow on")
	}
	return lines
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	const lineH = 16
	lines := v.hudLines()
	if v.statusTimer > 0 && v.status != "" {
		lines = append(lines, "")
	}
	h := float32(len(lines)*lineH + 12)
	vector.FillRect(screen, 8, 8, 380, h, colHudPanel, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(16, 14)
	op.ColorScale.ScaleWithColor(colHudText)
	op.LineSpacing = lineH
	text.Draw(screen, strings.Join(lines, "\n"), v.face, op)

	if v.statusTimer > 0 && v.status != "" {
		sop := &text.DrawOptions{}
		sop.GeoM.Translate(16, float64(14+(len(lines)-1)*lineH))
		sop.ColorScale.ScaleWithColor(colStatus)
		text.Draw(screen, v.status, v.face, sop)
	}
}
