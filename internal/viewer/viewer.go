package viewer

import (
	"fmt"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Swarm-Sense/internal/swarm"
)

const (
	screenWidth  = 1280
	screenHeight = 800

	// UI ranges for the formation controls.
	maxCount     = 500
	countStep    = 10
	minGroupSize = 5
	maxGroupSize = 100
	groupStep    = 5

	// statusFrames is how long a status message stays on screen (~2s).
	statusFrames = 120
)

// Viewer is the ebiten game that drives the swarm. Each Update is one frame
// tick of the integrator; Draw only reads the latest telemetry.
type Viewer struct {
	in    *swarm.Integrator
	prefs *PrefsStore
	view  mapView
	last  swarm.Snapshot

	showHUD bool
	follow  bool // keep the camera centred on the point-of-view agent

	prevKeys map[ebiten.Key]bool

	status      string
	statusTimer int

	face           *text.GoXFace
	writeClipboard func(string) error
}

// New wraps an integrator that already has a request applied. Prefs read
// from disk replace that request; a store holding only defaults leaves it.
func New(in *swarm.Integrator, prefs *PrefsStore) *Viewer {
	v := &Viewer{
		in:    in,
		prefs: prefs,
		view: mapView{
			width:     screenWidth,
			height:    screenHeight,
			pxPerUnit: 4,
			zoom:      1,
		},
		showHUD:        true,
		prevKeys:       make(map[ebiten.Key]bool),
		face:           text.NewGoXFace(basicfont.Face7x13),
		writeClipboard: clipboard.WriteAll,
	}
	if prefs != nil && prefs.Loaded() {
		v.applyPrefs(prefs.Prefs())
	}
	v.last = in.Telemetry()
	return v
}

func (v *Viewer) applyPrefs(p Prefs) {
	if kind, err := swarm.ParseKind(p.Kind); err == nil && p.Count > 0 {
		req := swarm.Request{Count: p.Count, Kind: kind, GroupSize: p.GroupSize}
		if err := v.in.Apply(req); err != nil {
			log.Printf("[viewer] saved request rejected: %v", err)
		}
	}
	if p.Zoom > 0 {
		v.view.zoom = 1
		v.view.zoomBy(p.Zoom)
	}
	v.showHUD = p.ShowHUD
	v.follow = p.Follow
}

func (v *Viewer) currentPrefs() Prefs {
	req := v.in.Request()
	return Prefs{
		Count:     req.Count,
		Kind:      req.Kind.String(),
		GroupSize: req.GroupSize,
		Zoom:      v.view.zoom,
		ShowHUD:   v.showHUD,
		Follow:    v.follow,
	}
}

// Update handles input, then advances the swarm one frame.
func (v *Viewer) Update() error {
	v.handleInput()
	v.advance()
	return nil
}

// advance ticks the integrator and moves the camera when following.
func (v *Viewer) advance() {
	v.last = v.in.Tick()
	if v.follow {
		if p, ok := v.in.Position(v.in.PointOfViewIndex()); ok && v.in.Active(v.in.PointOfViewIndex()) {
			v.view.camX, v.view.camZ = p[0], p[2]
		}
	}
	if v.statusTimer > 0 {
		v.statusTimer--
	}
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// action is one discrete control input.
type action int

const (
	actNextFormation action = iota
	actCountUp
	actCountDown
	actGroupUp
	actGroupDown
	actPovNext
	actPovPrev
	actCopyTelemetry
	actSavePrefs
	actToggleHUD
	actToggleFollow
	actClearMarker
)

// perform applies one control action.
func (v *Viewer) perform(a action) {
	req := v.in.Request()
	switch a {
	case actNextFormation:
		req.Kind = req.Kind.Next()
	case actCountUp:
		req.Count = min(req.Count+countStep, maxCount)
	case actCountDown:
		req.Count = max(req.Count-countStep, 1)
	case actGroupUp:
		req.GroupSize = min(req.GroupSize+groupStep, maxGroupSize)
	case actGroupDown:
		req.GroupSize = max(req.GroupSize-groupStep, minGroupSize)
	case actPovNext:
		v.in.SetPointOfView(v.in.PointOfViewIndex() + 1)
		return
	case actPovPrev:
		v.in.SetPointOfView(max(v.in.PointOfViewIndex()-1, 0))
		return
	case actCopyTelemetry:
		v.copyTelemetry()
		return
	case actSavePrefs:
		v.savePrefs()
		return
	case actToggleHUD:
		v.showHUD = !v.showHUD
		return
	case actToggleFollow:
		v.follow = !v.follow
		return
	case actClearMarker:
		v.in.ClearMarker()
		return
	}
	if err := v.in.Apply(req); err != nil {
		v.setStatus(err.Error())
		return
	}
	v.setStatus(req.String())
}

// placeMarker drops the marker where the user clicked.
func (v *Viewer) placeMarker(sx, sy int) {
	p := v.view.toWorld(sx, sy)
	v.in.SetMarker(p)
	v.setStatus(fmt.Sprintf("marker (%.1f, %.1f)", p[0], p[2]))
}

func (v *Viewer) copyTelemetry() {
	if err := v.writeClipboard(v.last.Format()); err != nil {
		log.Printf("[viewer] clipboard: %v", err)
		v.setStatus("clipboard unavailable")
		return
	}
	v.setStatus(fmt.Sprintf("copied %d records", len(v.last.Records)))
}

func (v *Viewer) savePrefs() {
	if v.prefs == nil {
		return
	}
	v.prefs.SetPrefs(v.currentPrefs())
	if err := v.prefs.Save(); err != nil {
		log.Printf("[viewer] %v", err)
		v.setStatus("prefs not saved")
		return
	}
	v.setStatus("prefs saved")
}

func (v *Viewer) setStatus(msg string) {
	v.status = msg
	v.statusTimer = statusFrames
}
