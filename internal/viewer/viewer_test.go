package viewer

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/Garsondee/Swarm-Sense/internal/swarm"
)

func newTestViewer(t *testing.T, count int, kind swarm.FormationKind) *Viewer {
	t.Helper()
	in := swarm.NewIntegrator(swarm.DefaultPlanner())
	if err := in.Apply(swarm.Request{Count: count, Kind: kind, GroupSize: 25}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	return New(in, nil)
}

// testPrefsStore opens a gdata-backed store under a throwaway HOME.
func testPrefsStore(t *testing.T) *PrefsStore {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	m, err := gdata.Open(gdata.Config{AppName: fmt.Sprintf("swarm_sense_test_%d", time.Now().UnixNano())})
	if err != nil {
		t.Skipf("cannot open gdata manager: %v", err)
	}
	return NewPrefsStore(m)
}

func TestMapView_RoundTrip(t *testing.T) {
	v := mapView{width: 800, height: 600, pxPerUnit: 4, zoom: 1.5, camX: 10, camZ: -20}

	x, y := v.toScreen(swarm.Vec3{10, 99, -20})
	if x != 400 || y != 300 {
		t.Fatalf("camera point should map to viewport centre, got (%v, %v)", x, y)
	}

	w := v.toWorld(100, 50)
	sx, sy := v.toScreen(w)
	if math.Abs(float64(sx)-100) > 1e-3 || math.Abs(float64(sy)-50) > 1e-3 {
		t.Fatalf("round trip drifted: (%v, %v)", sx, sy)
	}
	if w[1] != 0 {
		t.Fatalf("picked point should lie on the ground, got Y=%v", w[1])
	}
}

func TestMapView_ZoomClamped(t *testing.T) {
	v := mapView{zoom: 1}
	for i := 0; i < 50; i++ {
		v.zoomBy(1.25)
	}
	if v.zoom != zoomMax {
		t.Fatalf("zoom should clamp at %v, got %v", zoomMax, v.zoom)
	}
	for i := 0; i < 50; i++ {
		v.zoomBy(0.5)
	}
	if v.zoom != zoomMin {
		t.Fatalf("zoom should clamp at %v, got %v", zoomMin, v.zoom)
	}
}

func TestMapView_Visible(t *testing.T) {
	v := mapView{width: 100, height: 100}
	if !v.visible(50, 50, 0) || !v.visible(-3, 50, 4) {
		t.Fatal("points inside the margin should be visible")
	}
	if v.visible(-10, 50, 4) || v.visible(50, 120, 4) {
		t.Fatal("points outside the margin should not be visible")
	}
}

func TestPerform_CountStepsAreClamped(t *testing.T) {
	v := newTestViewer(t, 495, swarm.FormationGrid)
	v.perform(actCountUp)
	if got := v.in.Request().Count; got != maxCount {
		t.Fatalf("count up should clamp at %d, got %d", maxCount, got)
	}

	v = newTestViewer(t, 4, swarm.FormationGrid)
	v.perform(actCountDown)
	if got := v.in.Request().Count; got != 1 {
		t.Fatalf("count down should clamp at 1, got %d", got)
	}
	if v.in.Live() != 4 {
		t.Fatalf("shrink keeps retiring agents live until replaced, live=%d", v.in.Live())
	}
	if v.in.Active(1) {
		t.Fatal("agent 1 should be retiring after shrinking to one")
	}
}

func TestPerform_GroupSizeClamped(t *testing.T) {
	v := newTestViewer(t, 50, swarm.FormationDelta)
	for i := 0; i < 10; i++ {
		v.perform(actGroupDown)
	}
	if got := v.in.Request().GroupSize; got != minGroupSize {
		t.Fatalf("group size should clamp at %d, got %d", minGroupSize, got)
	}
	for i := 0; i < 30; i++ {
		v.perform(actGroupUp)
	}
	if got := v.in.Request().GroupSize; got != maxGroupSize {
		t.Fatalf("group size should clamp at %d, got %d", maxGroupSize, got)
	}
}

func TestPerform_NextFormationCycles(t *testing.T) {
	v := newTestViewer(t, 20, swarm.FormationGrid)
	seen := map[swarm.FormationKind]bool{}
	for range swarm.AllFormations() {
		seen[v.in.Request().Kind] = true
		v.perform(actNextFormation)
	}
	if len(seen) != len(swarm.AllFormations()) {
		t.Fatalf("Tab should visit every formation, saw %d", len(seen))
	}
	if v.in.Request().Kind != swarm.FormationGrid {
		t.Fatalf("cycle should wrap back to grid, got %s", v.in.Request().Kind)
	}
	if !strings.Contains(v.status, "grid") {
		t.Fatalf("status should describe the new request, got %q", v.status)
	}
}

func TestPerform_PointOfView(t *testing.T) {
	v := newTestViewer(t, 10, swarm.FormationGrid)
	v.perform(actPovPrev)
	if v.in.PointOfViewIndex() != 0 {
		t.Fatalf("POV should not go below zero, got %d", v.in.PointOfViewIndex())
	}
	v.perform(actPovNext)
	v.perform(actPovNext)
	if v.in.PointOfViewIndex() != 2 {
		t.Fatalf("expected POV 2, got %d", v.in.PointOfViewIndex())
	}
}

func TestPlaceMarker_UsesGroundPoint(t *testing.T) {
	v := newTestViewer(t, 10, swarm.FormationGrid)
	v.placeMarker(screenWidth/2, screenHeight/2)
	m, ok := v.in.Marker()
	if !ok {
		t.Fatal("marker should be set")
	}
	if m != (swarm.Vec3{}) {
		t.Fatalf("centre click should mark the world origin, got %v", m)
	}
	v.perform(actClearMarker)
	if _, ok := v.in.Marker(); ok {
		t.Fatal("marker should be cleared")
	}
}

func TestCopyTelemetry(t *testing.T) {
	v := newTestViewer(t, 3, swarm.FormationGrid)
	var got string
	v.writeClipboard = func(s string) error { got = s; return nil }
	v.last = v.in.Tick()
	v.perform(actCopyTelemetry)
	if !strings.HasPrefix(got, "frame\t1\n") {
		t.Fatalf("clipboard should receive the TSV snapshot, got %q", got)
	}
	if strings.Count(got, "\n") != 5 {
		t.Fatalf("expected header lines plus 3 records, got %q", got)
	}
	if v.status != "copied 3 records" {
		t.Fatalf("unexpected status %q", v.status)
	}

	v.writeClipboard = func(string) error { return errors.New("no display") }
	v.perform(actCopyTelemetry)
	if v.status != "clipboard unavailable" {
		t.Fatalf("clipboard failure should be reported, got %q", v.status)
	}
}

func TestAdvance_TicksAndFollows(t *testing.T) {
	v := newTestViewer(t, 5, swarm.FormationXLine)
	v.in.SetPointOfView(4)
	v.follow = true
	v.setStatus("hello")
	for i := 0; i < 3; i++ {
		v.advance()
	}
	if v.last.Frame != 3 || len(v.last.Records) != 5 {
		t.Fatalf("unexpected snapshot: frame=%d records=%d", v.last.Frame, len(v.last.Records))
	}
	p, _ := v.in.Position(4)
	if v.view.camX != p[0] || v.view.camZ != p[2] {
		t.Fatalf("camera should follow agent 4 at %v, got (%v, %v)", p, v.view.camX, v.view.camZ)
	}
	if v.statusTimer != statusFrames-3 {
		t.Fatalf("status timer should count down, got %d", v.statusTimer)
	}

	v.follow = false
	v.view.camX, v.view.camZ = 0, 0
	v.advance()
	if v.view.camX != 0 || v.view.camZ != 0 {
		t.Fatal("camera should stay put without follow")
	}
}

func TestHudLines(t *testing.T) {
	v := newTestViewer(t, 8, swarm.FormationSpiral)
	v.in.SetPointOfView(2)
	v.in.SetMarker(swarm.Vec3{1, 0, 2})
	lines := v.hudLines()
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"spiral n=8", "live 8", "POV ID 002", "marker X:1.0 Z:2.0"} {
		if !strings.Contains(joined, want) {
			t.Errorf("HUD missing %q:\n%s", want, joined)
		}
	}

	v.in.SetPointOfView(40)
	if !strings.Contains(strings.Join(v.hudLines(), "\n"), "(inactive)") {
		t.Error("HUD should flag an inactive POV")
	}
}

func TestPrefsStore_MemoryOnly(t *testing.T) {
	ps := NewPrefsStore(nil)
	if ps.Persistent() {
		t.Fatal("store without manager should not be persistent")
	}
	if ps.Prefs() != DefaultPrefs() {
		t.Fatalf("expected defaults, got %+v", ps.Prefs())
	}
	p := ps.Prefs()
	p.Count = 7
	ps.SetPrefs(p)
	if err := ps.Save(); err != nil {
		t.Fatalf("in-memory save should not fail: %v", err)
	}
	if ps.Prefs().Count != 7 {
		t.Fatal("SetPrefs should update the in-memory copy")
	}
}

func TestPrefsStore_SaveAndReload(t *testing.T) {
	ps := testPrefsStore(t)
	want := Prefs{Count: 42, Kind: "sphere", GroupSize: 10, Zoom: 2, ShowHUD: false, Follow: true}
	ps.SetPrefs(want)
	if err := ps.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	ps.SetPrefs(DefaultPrefs())
	if err := ps.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if ps.Prefs() != want {
		t.Fatalf("reloaded prefs mismatch: got %+v, want %+v", ps.Prefs(), want)
	}
}

func TestNew_AppliesSavedPrefs(t *testing.T) {
	ps := testPrefsStore(t)
	ps.SetPrefs(Prefs{Count: 12, Kind: "cube", GroupSize: 5, Zoom: 100, ShowHUD: false, Follow: true})
	if err := ps.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	reopened := NewPrefsStore(ps.gdataManager)
	if !reopened.Loaded() {
		t.Fatal("saved prefs should be reported as loaded")
	}

	in := swarm.NewIntegrator(swarm.DefaultPlanner())
	v := New(in, reopened)
	req := in.Request()
	if req.Count != 12 || req.Kind != swarm.FormationCube {
		t.Fatalf("saved request not applied: %+v", req)
	}
	if v.view.zoom != zoomMax {
		t.Fatalf("saved zoom should be clamped, got %v", v.view.zoom)
	}
	if v.showHUD || !v.follow {
		t.Fatal("saved HUD and follow flags should be restored")
	}

	v.perform(actCountUp)
	v.perform(actSavePrefs)
	if reopened.Prefs().Count != 22 || reopened.Prefs().Kind != "cube" {
		t.Fatalf("save should capture the live request, got %+v", reopened.Prefs())
	}
}

func TestNew_FreshPrefsKeepConfiguredRequest(t *testing.T) {
	ps := testPrefsStore(t)
	if ps.Loaded() {
		t.Fatal("a fresh data directory has no saved prefs")
	}

	in := swarm.NewIntegrator(swarm.DefaultPlanner())
	configured := swarm.Request{Count: 37, Kind: swarm.FormationSphere, GroupSize: 9}
	if err := in.Apply(configured); err != nil {
		t.Fatalf("apply: %v", err)
	}
	v := New(in, ps)
	if got := in.Request(); got != configured {
		t.Fatalf("default prefs replaced the configured request: got %s, want %s", got, configured)
	}
	if v.view.zoom != 1 || !v.showHUD || v.follow {
		t.Fatalf("view should keep its built-in settings: zoom=%v hud=%v follow=%v", v.view.zoom, v.showHUD, v.follow)
	}
}

func TestNew_InMemoryPrefsKeepConfiguredRequest(t *testing.T) {
	ps := NewPrefsStore(nil)
	ps.SetPrefs(Prefs{Count: 12, Kind: "cube", GroupSize: 5, Zoom: 2})

	in := swarm.NewIntegrator(swarm.DefaultPlanner())
	configured := swarm.Request{Count: 37, Kind: swarm.FormationSphere, GroupSize: 9}
	if err := in.Apply(configured); err != nil {
		t.Fatalf("apply: %v", err)
	}
	New(in, ps)
	if got := in.Request(); got != configured {
		t.Fatalf("prefs never read from disk should not apply: got %s", got)
	}
}
