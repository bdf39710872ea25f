package swarm

import (
	"errors"
	"math"
	"testing"
)

func approxVec(a, b Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps && math.Abs(a[1]-b[1]) <= eps && math.Abs(a[2]-b[2]) <= eps
}

func TestPlan_CountForEveryKind(t *testing.T) {
	p := DefaultPlanner()
	for _, kind := range AllFormations() {
		for _, count := range []int{0, 1, 2, 7, 50, 241, 300} {
			got := p.Plan(count, kind, DefaultGroupSize)
			if len(got) != count {
				t.Fatalf("%s(%d): expected %d positions, got %d", kind, count, count, len(got))
			}
		}
	}
}

func TestPlan_Deterministic(t *testing.T) {
	p := DefaultPlanner()
	for _, kind := range AllFormations() {
		a := p.Plan(77, kind, 9)
		b := p.Plan(77, kind, 9)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: index %d differs between calls: %v vs %v", kind, i, a[i], b[i])
			}
		}
	}
}

func TestPlan_NegativeCountIsEmpty(t *testing.T) {
	if got := DefaultPlanner().Plan(-3, FormationGrid, 1); len(got) != 0 {
		t.Fatalf("expected empty plan for negative count, got %d", len(got))
	}
}

func TestGrid_NineIsCenteredSquare(t *testing.T) {
	got := gridLayout(9)
	if got[4] != (Vec3{0, 5, 0}) {
		t.Fatalf("centre agent should be at (0,5,0), got %v", got[4])
	}
	if got[0] != (Vec3{-8, 5, -8}) {
		t.Fatalf("corner agent 0 should be at (-8,5,-8), got %v", got[0])
	}
	if got[8] != (Vec3{8, 5, 8}) {
		t.Fatalf("corner agent 8 should be at (8,5,8), got %v", got[8])
	}
}

func TestGrid_PartialLastRow(t *testing.T) {
	// 5 agents: cols=3 rows=2, so agents 3 and 4 sit in the second row.
	got := gridLayout(5)
	if got[3][2] != got[4][2] || got[3][2] <= got[0][2] {
		t.Fatalf("agents 3,4 should share a row behind row 0: %v %v %v", got[0], got[3], got[4])
	}
}

func TestCube_EightIsTwoLayers(t *testing.T) {
	got := cubeLayout(8)
	if got[0] != (Vec3{-4, 0, -4}) {
		t.Fatalf("agent 0: expected (-4,0,-4), got %v", got[0])
	}
	if got[7] != (Vec3{4, 8, 4}) {
		t.Fatalf("agent 7: expected (4,8,4), got %v", got[7])
	}
}

func TestCircle_SingleAgentAtOrigin(t *testing.T) {
	got := circleLayout(1)
	if len(got) != 1 || got[0] != (Vec3{0, 5, 0}) {
		t.Fatalf("circle(1) should be one agent at (0,5,0), got %v", got)
	}
}

func TestCircle_SevenFillsFirstRing(t *testing.T) {
	if c := ringCapacity(1); c != 6 {
		t.Fatalf("ring 1 should hold 6 agents, got %d", c)
	}
	got := circleLayout(7)
	if got[0] != (Vec3{0, 5, 0}) {
		t.Fatalf("ring 0 agent should be at origin, got %v", got[0])
	}
	for i := 1; i < 7; i++ {
		r := math.Hypot(got[i][0], got[i][2])
		if math.Abs(r-8) > 1e-9 || got[i][1] != 5 {
			t.Fatalf("agent %d should be on radius 8 at y=5, got r=%.4f pos=%v", i, r, got[i])
		}
	}
}

func TestCircle_SecondRingStartsAfterSixteenth(t *testing.T) {
	// ring0=1, ring1=6, ring2=12: agent 7 is the first agent on ring 2.
	got := circleLayout(20)
	if r := math.Hypot(got[7][0], got[7][2]); math.Abs(r-16) > 1e-9 {
		t.Fatalf("agent 7 should be on radius 16, got %.4f", r)
	}
	if r := math.Hypot(got[19][0], got[19][2]); math.Abs(r-24) > 1e-9 {
		t.Fatalf("agent 19 should be on radius 24, got %.4f", r)
	}
}

func TestDelta_Chevron(t *testing.T) {
	got := deltaLayout(6, 5)
	cases := []struct {
		i    int
		want Vec3
	}{
		{0, Vec3{-16, 5, -16}},
		{1, Vec3{-8, 5, -8}},
		{2, Vec3{0, 5, 0}},
		{4, Vec3{16, 5, -16}},
		{5, Vec3{-16, 5, -24}}, // second squadron, one spacing further back
	}
	for _, c := range cases {
		if got[c.i] != c.want {
			t.Fatalf("delta agent %d: expected %v, got %v", c.i, c.want, got[c.i])
		}
	}
}

func TestDelta_GroupSizeBelowOneIsClamped(t *testing.T) {
	got := deltaLayout(3, 0)
	for i, p := range got {
		if p[0] != 0 {
			t.Fatalf("group of one: agent %d should be on the centre line, got %v", i, p)
		}
	}
}

func TestLines_VaryOneAxis(t *testing.T) {
	x := lineLayout(4, 0)
	if x[0] != (Vec3{-16, 5, 0}) || x[3] != (Vec3{8, 5, 0}) {
		t.Fatalf("x-line endpoints wrong: %v %v", x[0], x[3])
	}
	y := lineLayout(4, 1)
	if y[0] != (Vec3{0, -16, 0}) || y[2] != (Vec3{0, 0, 0}) {
		t.Fatalf("y-line should vary Y only: %v %v", y[0], y[2])
	}
	z := lineLayout(3, 2)
	if z[0] != (Vec3{0, 5, -12}) {
		t.Fatalf("z-line agent 0: expected (0,5,-12), got %v", z[0])
	}
}

func TestSphere_AllOnShell(t *testing.T) {
	got := sphereLayout(50)
	for i, p := range got {
		if r := p.Len(); math.Abs(r-24) > 1e-9 {
			t.Fatalf("sphere agent %d should be at radius 24, got %.6f", i, r)
		}
	}
	if got[0][2] != -24 {
		t.Fatalf("sphere agent 0 should sit at the -Z pole, got %v", got[0])
	}
}

func TestSpiral_RisesSteadily(t *testing.T) {
	got := spiralLayout(10)
	if !approxVec(got[0], Vec3{12, 5, 0}, 1e-12) {
		t.Fatalf("spiral agent 0: expected (12,5,0), got %v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if dy := got[i][1] - got[i-1][1]; math.Abs(dy-1.2) > 1e-9 {
			t.Fatalf("spiral step %d: expected dy=1.2, got %.4f", i, dy)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllFormations() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got, err := ParseKind(" Logo "); err != nil || got != FormationPathSampled {
		t.Fatalf("logo alias: got %v, %v", got, err)
	}
	if _, err := ParseKind("hexagon"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestFormationKind_NextWraps(t *testing.T) {
	if FormationPathSampled.Next() != FormationGrid {
		t.Fatalf("Next should wrap to grid, got %s", FormationPathSampled.Next())
	}
	if FormationKind(42).Valid() {
		t.Fatalf("kind 42 should be invalid")
	}
}
