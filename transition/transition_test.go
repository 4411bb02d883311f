package transition

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/slidepresenter/engine/geom"
)

func slideRect() geom.Rectangle {
	return geom.Rectangle{Min: geom.Pt(0, 0), Max: geom.Pt(1000, 800)}
}

func TestSkipForSubMillisecondDuration(t *testing.T) {
	a := NewAnimator(Record{Type: Fade, Duration: time.Microsecond * 500}, slideRect())
	if !a.Skip() {
		t.Fatal("expected a sub-millisecond transition to be skipped")
	}
	a2 := NewAnimator(Record{Type: Fade, Duration: 10 * time.Millisecond}, slideRect())
	if a2.Skip() {
		t.Fatal("expected a 10ms transition to not be skipped")
	}
}

func TestAdvanceReachesDoneAtDuration(t *testing.T) {
	a := NewAnimator(Record{Type: Fade, Duration: 100 * time.Millisecond}, slideRect())
	f := a.Advance(50 * time.Millisecond)
	if f.Done {
		t.Fatal("expected not done halfway through")
	}
	f = a.Advance(50 * time.Millisecond)
	if !f.Done {
		t.Fatal("expected done once elapsed reaches duration")
	}
	if f.NewOpacity != 1 {
		t.Fatalf("expected new page fully opaque at the end of a fade, got %v", f.NewOpacity)
	}
}

func TestAdvanceClampsPastDuration(t *testing.T) {
	a := NewAnimator(Record{Type: Dissolve, Duration: 10 * time.Millisecond}, slideRect())
	f := a.Advance(time.Second)
	if !f.Done || f.OldOpacity != 0 {
		t.Fatalf("expected clamped-to-end frame, got %+v", f)
	}
}

func TestSplitInwardGrowsHoleToFullRect(t *testing.T) {
	a := NewAnimator(Record{Type: Split, Duration: time.Second, Inward: true, Orientation: Vertical}, slideRect())
	start := a.frameAt(0)
	if start.Mask.Kind != MaskInverseRect {
		t.Fatalf("expected an inverse-rect hole mask, got %v", start.Mask.Kind)
	}
	if start.Mask.Rect.Dx() != 0 {
		t.Fatalf("expected a zero-width hole at t=0, got %v", start.Mask.Rect)
	}
	end := a.frameAt(1)
	if end.Mask.Rect.Dx() != a.SlideRect.Dx() {
		t.Fatalf("expected the hole to reach the full width at t=1, got %v", end.Mask.Rect)
	}
}

func TestSplitOutwardShrinksRemainingRect(t *testing.T) {
	a := NewAnimator(Record{Type: Split, Duration: time.Second, Inward: false, Orientation: Horizontal}, slideRect())
	start := a.frameAt(0)
	if start.Mask.Kind != MaskRect || start.Mask.Rect.Dy() != a.SlideRect.Dy() {
		t.Fatalf("expected the full rect remaining at t=0, got %+v", start.Mask)
	}
	end := a.frameAt(1)
	if end.Mask.Rect.Dy() != 0 {
		t.Fatalf("expected a zero-height centerline at t=1, got %v", end.Mask.Rect)
	}
}

func TestBlindsShrinkToZero(t *testing.T) {
	a := NewAnimator(Record{Type: Blinds, Duration: time.Second, BlindsCount: 8, Orientation: Vertical}, slideRect())
	start := a.frameAt(0)
	if start.Mask.BlindsRemaining != 1 || start.Mask.BlindsN != 8 {
		t.Fatalf("expected full blinds at t=0, got %+v", start.Mask)
	}
	end := a.frameAt(1)
	if end.Mask.BlindsRemaining != 0 {
		t.Fatalf("expected zero remaining at t=1, got %v", end.Mask.BlindsRemaining)
	}
}

func TestBlindsDefaultsToSixWhenUnset(t *testing.T) {
	a := NewAnimator(Record{Type: Blinds, Duration: time.Second}, slideRect())
	f := a.frameAt(0)
	if f.Mask.BlindsN != 6 {
		t.Fatalf("expected default blind count 6, got %d", f.Mask.BlindsN)
	}
}

func TestWipeCollapsesTowardRequestedEdge(t *testing.T) {
	a := NewAnimator(Record{Type: Wipe, Duration: time.Second, Angle: 0}, slideRect())
	end := a.frameAt(1)
	if end.Mask.Rect.Min.X != a.SlideRect.Max.X {
		t.Fatalf("expected the mask to collapse onto the right edge, got %v", end.Mask.Rect)
	}
}

func TestGlitterProgressCountsDownToZero(t *testing.T) {
	a := NewAnimator(Record{Type: Glitter, Duration: time.Second}, slideRect())
	start := a.frameAt(0)
	if start.Mask.GlitterProgress != GlitterTiles {
		t.Fatalf("expected progress to start at %d, got %d", GlitterTiles, start.Mask.GlitterProgress)
	}
	end := a.frameAt(1)
	if end.Mask.GlitterProgress != 0 {
		t.Fatalf("expected progress to reach 0, got %d", end.Mask.GlitterProgress)
	}
}

func TestRevealedTilesGrowsMonotonically(t *testing.T) {
	early := RevealedTiles(GlitterTiles - 10)
	late := RevealedTiles(GlitterTiles - 50)
	if len(early) != 10 || len(late) != 50 {
		t.Fatalf("expected 10 then 50 revealed tiles, got %d then %d", len(early), len(late))
	}
	seen := map[int]bool{}
	for _, i := range early {
		seen[i] = true
	}
	for _, i := range late[:10] {
		if !seen[i] {
			t.Fatal("expected the first 10 revealed tiles to stay the same as progress advances")
		}
	}
}

func TestDissolveOpacityFallsToZero(t *testing.T) {
	a := NewAnimator(Record{Type: Dissolve, Duration: time.Second}, slideRect())
	if a.frameAt(0).OldOpacity != 1 {
		t.Fatal("expected full opacity at t=0")
	}
	if a.frameAt(1).OldOpacity != 0 {
		t.Fatal("expected zero opacity at t=1")
	}
}

func TestFadeEndsFullyOnNewPage(t *testing.T) {
	a := NewAnimator(Record{Type: Fade, Duration: time.Second}, slideRect())
	f := a.frameAt(1)
	if f.OldOpacity != 0 || f.NewOpacity != 1 {
		t.Fatalf("expected full crossfade to new by t=1, got %+v", f)
	}
}

func TestPushMovesOldAndNewByAFullPage(t *testing.T) {
	a := NewAnimator(Record{Type: Push, Duration: time.Second, Angle: 0}, slideRect())
	end := a.frameAt(1)
	if end.OldOffset.X != a.SlideRect.Dx() {
		t.Fatalf("expected old page to exit by the full width, got %v", end.OldOffset)
	}
	if end.NewOffset.X != 0 {
		t.Fatalf("expected new page to settle at zero offset, got %v", end.NewOffset)
	}
}

func TestCoverSlidesNewInFromEdge(t *testing.T) {
	a := NewAnimator(Record{Type: Cover, Duration: time.Second, Angle: 0}, slideRect())
	start := a.frameAt(0)
	if start.NewOffset.X != -a.SlideRect.Dx() {
		t.Fatalf("expected new page to start fully off-screen, got %v", start.NewOffset)
	}
	end := a.frameAt(1)
	if end.NewOffset.X != 0 {
		t.Fatalf("expected new page to settle in place, got %v", end.NewOffset)
	}
}

func TestUncoverSlidesOldAway(t *testing.T) {
	a := NewAnimator(Record{Type: Uncover, Duration: time.Second, Angle: 90}, slideRect())
	end := a.frameAt(1)
	if end.OldOffset.Y != a.SlideRect.Dy() {
		t.Fatalf("expected old page to fully exit downward, got %v", end.OldOffset)
	}
}

func TestFlyDiffReproducesNewFromOldAtComputedAlpha(t *testing.T) {
	old := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	old.Set(0, 0, color.NRGBA{R: 100, G: 50, B: 200, A: 255})
	newImg := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	newImg.Set(0, 0, color.NRGBA{R: 180, G: 50, B: 10, A: 255})

	diff := FlyDiff(old, newImg)
	a := float64(diff.NRGBAAt(0, 0).A) / 255
	if a <= 0 {
		t.Fatal("expected a nonzero alpha since the pixel changed")
	}
	for i, ch := range []struct{ o, n, d byte }{
		{100, 180, diff.NRGBAAt(0, 0).R},
		{50, 50, diff.NRGBAAt(0, 0).G},
		{200, 10, diff.NRGBAAt(0, 0).B},
	} {
		got := (1-a)*float64(ch.o)/255 + a*float64(ch.d)/255
		want := float64(ch.n) / 255
		if diffAbs(got, want) > 0.02 {
			t.Fatalf("channel %d: compositing diff over old at alpha %v gave %v, want %v", i, a, got, want)
		}
	}
}

func TestFlyDiffIsTransparentWhereUnchanged(t *testing.T) {
	old := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	old.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	newImg := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	newImg.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	diff := FlyDiff(old, newImg)
	if diff.NRGBAAt(0, 0).A != 0 {
		t.Fatalf("expected zero alpha for an unchanged pixel, got %d", diff.NRGBAAt(0, 0).A)
	}
}

func diffAbs(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
