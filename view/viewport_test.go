package view

import (
	"testing"

	"github.com/slidepresenter/engine/geom"
)

func TestFitChoosesLimitingAxis(t *testing.T) {
	v := Fit(geom.Pt(1000, 500), geom.Pt(800, 600))
	if v.Resolution != 0.8 {
		t.Fatalf("expected the width axis to limit resolution to 0.8, got %v", v.Resolution)
	}
}

func TestFitChoosesHeightWhenItIsTighter(t *testing.T) {
	v := Fit(geom.Pt(500, 1000), geom.Pt(800, 600))
	if v.Resolution != 0.6 {
		t.Fatalf("expected the height axis to limit resolution to 0.6, got %v", v.Resolution)
	}
}

func TestResizeRefits(t *testing.T) {
	v := Fit(geom.Pt(1000, 500), geom.Pt(800, 600))
	v.Resize(geom.Pt(400, 400))
	if v.Resolution != 0.4 {
		t.Fatalf("expected refit to 0.4, got %v", v.Resolution)
	}
}

func TestSetPageSizeRefits(t *testing.T) {
	v := Fit(geom.Pt(1000, 500), geom.Pt(800, 600))
	v.SetPageSize(geom.Pt(200, 200))
	if v.Resolution != 3 {
		t.Fatalf("expected the new narrower page to allow resolution 3, got %v", v.Resolution)
	}
}

func TestToPixelsScalesByResolution(t *testing.T) {
	v := Viewport{Resolution: 2}
	p := v.ToPixels(geom.Pt(10, 20))
	if p.X != 20 || p.Y != 40 {
		t.Fatalf("expected (20,40), got %v", p)
	}
}
