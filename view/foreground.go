package view

import (
	"image/color"
	"math"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/scene"
	"github.com/slidepresenter/engine/style"
	"github.com/slidepresenter/engine/tool"
)

// ForegroundPainter is the narrow surface §4.7's foreground-paint
// step draws through; implemented by the external rendering
// collaborator, never by this package.
type ForegroundPainter interface {
	// FillEvenOdd fills outer minus hole using even-odd winding — the
	// torch's "viewport minus a circular hole" shape.
	FillEvenOdd(outer, hole []geom.Point, c color.RGBA)
	// FillCircle fills a circle, blended with mode (SourceOver or
	// Darken per the pointer's two-pass paint).
	FillCircle(center geom.Point, radius float32, c color.RGBA, mode style.Composition)
	StrokeCircle(center geom.Point, radius float32, s style.Stroke)
	StrokePath(points []geom.Point, closed bool, s style.Stroke)
	// RenderSceneInto paints the scene rect src into the screen rect
	// dst, for the magnifier's enlarged inset.
	RenderSceneInto(dst geom.Rectangle, src geom.Rectangle)
}

const circleSegments = 32

func circlePoints(center geom.Point, radius float32) []geom.Point {
	pts := make([]geom.Point, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = geom.Pt(center.X+radius*float32(math.Cos(a)), center.Y+radius*float32(math.Sin(a)))
	}
	return pts
}

// PaintForeground draws every active pointing-tool/selection visual
// for one viewport, per §4.7's table.
func (v *SlideView) PaintForeground(p ForegroundPainter) {
	for _, t := range v.Scene.Tools.Pointing {
		paintPointingTool(p, t, v.Viewport)
	}
	paintSelectionVisual(p, &v.Scene.Overlay, v.Scene.Tools.Selection)
}

func paintPointingTool(p ForegroundPainter, t *tool.PointingTool, vp Viewport) {
	switch t.Kind {
	case tool.KindTorch:
		outer := []geom.Point{vp.SceneRect().Min, geom.Pt(vp.SceneRect().Max.X, vp.SceneRect().Min.Y), vp.SceneRect().Max, geom.Pt(vp.SceneRect().Min.X, vp.SceneRect().Max.Y)}
		for _, pos := range t.Positions {
			p.FillEvenOdd(outer, circlePoints(pos, t.Radius), t.Color)
		}
	case tool.KindPointer:
		for _, pos := range t.Positions {
			p.FillCircle(pos, t.Radius*1.4, t.Color, style.Darken)
			p.FillCircle(pos, t.Radius, t.Color, style.SourceOver)
		}
	case tool.KindMagnifier:
		for _, pos := range t.Positions {
			size := t.Radius * 2 * t.Scale
			r := geom.Rectangle{Min: geom.Pt(pos.X-size/2, pos.Y-size/2), Max: geom.Pt(pos.X+size/2, pos.Y+size/2)}
			src := geom.Rectangle{Min: geom.Pt(pos.X-t.Radius, pos.Y-t.Radius), Max: geom.Pt(pos.X+t.Radius, pos.Y+t.Radius)}
			p.RenderSceneInto(r, src)
			p.StrokeCircle(pos, size/2, style.Stroke{Color: t.Color, Width: 1})
		}
	case tool.KindEraser:
		for _, pos := range t.Positions {
			p.StrokeCircle(pos, t.Radius, style.Stroke{Color: t.Color, Width: t.Scale})
		}
	}
}

func paintSelectionVisual(p ForegroundPainter, o *scene.Overlay, tools []*tool.SelectionTool) {
	if !o.Visible() {
		return
	}
	pen := style.Stroke{Color: color.RGBA{B: 255, A: 200}, Width: 1}
	r := o.Rect
	p.StrokePath([]geom.Point{r.Min, geom.Pt(r.Max.X, r.Min.Y), r.Max, geom.Pt(r.Min.X, r.Max.Y)}, true, pen)
	for _, h := range []scene.Handle{
		scene.HandleTopLeft, scene.HandleTop, scene.HandleTopRight, scene.HandleRight,
		scene.HandleBottomRight, scene.HandleBottom, scene.HandleBottomLeft, scene.HandleLeft,
	} {
		p.FillCircle(o.HandlePoint(h), scene.HandleSize, color.RGBA{R: 255, G: 255, B: 255, A: 255}, style.SourceOver)
		p.StrokeCircle(o.HandlePoint(h), scene.HandleSize, pen)
	}
	for _, st := range tools {
		if len(st.Polygon) > 2 {
			p.StrokePath(st.Polygon, true, pen)
		}
	}
}
