// Package view hosts the per-viewport state §4.7 describes: the
// scale/resolution fit, the pointing-tool foreground paint, the
// magnifier's enlarged-render plumbing, and media slider hosting. It
// never draws a pixel itself — every paint routine computes geometry
// and style as data and hands it to an injected ForegroundPainter,
// the same external-rendering-collaborator boundary item.Painter
// draws at for scene items.
package view

import "github.com/slidepresenter/engine/geom"

// Viewport fits a page of PageSize points onto a ViewSize-pixel
// surface at one uniform Resolution (pixels per point), refitting to
// the page aspect on every resize.
type Viewport struct {
	PageSize   geom.Point
	ViewSize   geom.Point
	Resolution float32
}

// Fit computes the viewport that fits pageSize into viewSize without
// distortion.
func Fit(pageSize, viewSize geom.Point) Viewport {
	v := Viewport{PageSize: pageSize, ViewSize: viewSize}
	v.refit()
	return v
}

// Resize refits the viewport to a new pixel size, per §4.7's "On
// resize it refits and re-requests the page at the new resolution" —
// the re-request itself is the caller's job (SlideView.Resize) since
// it needs the cache and the scene together.
func (v *Viewport) Resize(viewSize geom.Point) {
	v.ViewSize = viewSize
	v.refit()
}

// SetPageSize refits the viewport after a page change to a
// differently sized page.
func (v *Viewport) SetPageSize(pageSize geom.Point) {
	v.PageSize = pageSize
	v.refit()
}

func (v *Viewport) refit() {
	if v.PageSize.X <= 0 || v.PageSize.Y <= 0 || v.ViewSize.X <= 0 || v.ViewSize.Y <= 0 {
		v.Resolution = 1
		return
	}
	rx := v.ViewSize.X / v.PageSize.X
	ry := v.ViewSize.Y / v.PageSize.Y
	if rx < ry {
		v.Resolution = rx
	} else {
		v.Resolution = ry
	}
}

// SceneRect is the page rect in scene coordinates (points).
func (v Viewport) SceneRect() geom.Rectangle {
	return geom.Rectangle{Max: v.PageSize}
}

// ToPixels maps a scene-space point to view pixels at the current
// resolution.
func (v Viewport) ToPixels(p geom.Point) geom.Point {
	return geom.Pt(p.X*v.Resolution, p.Y*v.Resolution)
}
