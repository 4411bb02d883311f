package tool

import (
	"math"
	"testing"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
)

func approxPoint(t *testing.T, got, want geom.Point, eps float32) {
	t.Helper()
	if abs32(got.X-want.X) > eps || abs32(got.Y-want.Y) > eps {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSelectionToolMoveAppliesTranslation(t *testing.T) {
	id := item.ID(1)
	initial := map[item.ID]geom.Affine2D{id: geom.Offset(geom.Pt(10, 10))}
	st := &SelectionTool{}
	st.BeginMove(geom.Pt(0, 0), initial)
	deltas := st.LiveUpdate(geom.Pt(5, 5))
	got := deltas[id].Transform(geom.Pt(0, 0))
	approxPoint(t, got, geom.Pt(15, 15), 1e-4)
}

func TestSelectionToolRotateAboutCenter(t *testing.T) {
	id := item.ID(1)
	initial := map[item.ID]geom.Affine2D{id: geom.Affine2D{}}
	st := &SelectionTool{}
	center := geom.Pt(0, 0)
	st.BeginRotate(center, geom.Pt(1, 0), initial)
	deltas := st.LiveUpdate(geom.Pt(0, 1)) // 90 degrees counter-clockwise from start
	got := deltas[id].Transform(geom.Pt(1, 0))
	approxPoint(t, got, geom.Pt(0, 1), 1e-3)
}

func TestResizeFactorsCollapsesDegenerateAxis(t *testing.T) {
	handle := geom.Pt(10, 5)
	fixed := geom.Pt(10, 0) // same X as handle: dx denominator is zero
	sx, sy := resizeFactors(geom.Pt(20, 10), handle, fixed)
	if sx != 1 {
		t.Fatalf("expected sx to collapse to 1, got %v", sx)
	}
	if sy != 2 {
		t.Fatalf("expected sy = 2, got %v", sy)
	}
}

func TestSelectRectPolygonCanonicalizesDrag(t *testing.T) {
	st := &SelectionTool{}
	st.BeginSelectRect(geom.Pt(10, 10))
	st.LiveUpdate(geom.Pt(0, 0)) // dragged up-left, should still canonicalize
	poly := st.SelectRectPolygon()
	if len(poly) != 4 {
		t.Fatalf("expected 4 points, got %d", len(poly))
	}
	if poly[0] != (geom.Point{X: 0, Y: 0}) {
		t.Fatalf("expected canonicalized min corner at origin, got %v", poly[0])
	}
}

func TestContainsSceneShapeRequiresEveryVertexInside(t *testing.T) {
	square := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	inside := []geom.Point{{X: 2, Y: 2}, {X: 8, Y: 8}}
	if !ContainsSceneShape(square, inside) {
		t.Fatal("expected shape fully inside polygon to be contained")
	}
	partlyOutside := []geom.Point{{X: 2, Y: 2}, {X: 20, Y: 20}}
	if ContainsSceneShape(square, partlyOutside) {
		t.Fatal("expected shape with a vertex outside the polygon to be rejected")
	}
}

func TestAngleToMatchesAtan2(t *testing.T) {
	got := angleTo(geom.Pt(0, 0), geom.Pt(0, 1))
	want := float32(math.Pi / 2)
	if abs32(got-want) > 1e-4 {
		t.Fatalf("angleTo = %v, want %v", got, want)
	}
}
