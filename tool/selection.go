package tool

import (
	"math"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
)

// Variant distinguishes how SelectRect/SelectPolygon behave when no
// selection exists yet, per §3's "basic/rect/freehand" Selection
// sub-variant.
type Variant uint8

const (
	VariantBasic Variant = iota
	VariantRect
	VariantFreehand
)

// Op is the selection tool's current operation, per §3.
type Op uint8

const (
	OpNone Op = iota
	OpSelectRect
	OpSelectPolygon
	OpMove
	OpRotate
	OpResize
)

// SelectionTool implements §4.1's selection operations. Rather than
// the original's strip-translation/apply/restore-translation
// sequence (fragile per the corresponding design note), it captures
// each selected item's scene transform once at operation start and
// recomputes `initial.Mul(opInScene)` on every live_update, composing
// the operation directly in scene space.
type SelectionTool struct {
	Devices Device
	Variant Variant
	Op      Op

	// Initial holds every captured item's scene transform as of the
	// operation's Start event.
	Initial map[item.ID]geom.Affine2D

	// Move
	Start, Current geom.Point

	// Rotate
	Center     geom.Point
	StartAngle float32

	// Resize
	Handle, Fixed geom.Point

	// SelectRect / SelectPolygon
	Polygon []geom.Point
}

// BeginMove starts a Move op at start, capturing initial as the scene
// transform of every item in the selection.
func (t *SelectionTool) BeginMove(start geom.Point, initial map[item.ID]geom.Affine2D) {
	t.Op = OpMove
	t.Start = start
	t.Current = start
	t.Initial = initial
}

// BeginRotate starts a Rotate op about center; startAngle is the
// angle from center to the event position at Start, matching §4.1's
// `angle = atan2(pos-center) - start_angle` convention.
func (t *SelectionTool) BeginRotate(center geom.Point, startPos geom.Point, initial map[item.ID]geom.Affine2D) {
	t.Op = OpRotate
	t.Center = center
	t.StartAngle = angleTo(center, startPos)
	t.Initial = initial
}

// BeginResize starts a Resize op dragging handle while fixed stays
// put.
func (t *SelectionTool) BeginResize(handle, fixed geom.Point, initial map[item.ID]geom.Affine2D) {
	t.Op = OpResize
	t.Handle = handle
	t.Fixed = fixed
	t.Initial = initial
}

// BeginSelectRect/BeginSelectPolygon start the two drag-based
// selection ops (no items captured yet — selection is computed on
// Stop).
func (t *SelectionTool) BeginSelectRect(start geom.Point) {
	t.Op = OpSelectRect
	t.Start, t.Current = start, start
}

func (t *SelectionTool) BeginSelectPolygon(start geom.Point) {
	t.Op = OpSelectPolygon
	t.Polygon = []geom.Point{start}
}

func angleTo(center, p geom.Point) float32 {
	return float32(math.Atan2(float64(p.Y-center.Y), float64(p.X-center.X)))
}

// LiveUpdate advances the current operation to pos, returning the new
// per-item scene transform for Move/Rotate/Resize. It returns nil for
// the two selection-region ops, which mutate t.Current/t.Polygon
// instead for the overlay to redraw from.
func (t *SelectionTool) LiveUpdate(pos geom.Point) map[item.ID]geom.Affine2D {
	switch t.Op {
	case OpMove:
		t.Current = pos
		delta := geom.Offset(pos.Sub(t.Start))
		return t.applyInScene(delta)
	case OpRotate:
		angle := angleTo(t.Center, pos) - t.StartAngle
		rot := geom.Rotate(t.Center, angle)
		return t.applyInScene(rot)
	case OpResize:
		sx, sy := resizeFactors(pos, t.Handle, t.Fixed)
		scale := geom.Scale(t.Fixed, geom.Pt(sx, sy))
		return t.applyInScene(scale)
	case OpSelectRect:
		t.Current = pos
	case OpSelectPolygon:
		t.Polygon = append(t.Polygon, pos)
	}
	return nil
}

// applyInScene composes opInScene after every captured item's initial
// scene transform, per the design note's `new = initial ∘ op`
// ordering (t.Mul(s) applies t first, then s).
func (t *SelectionTool) applyInScene(opInScene geom.Affine2D) map[item.ID]geom.Affine2D {
	out := make(map[item.ID]geom.Affine2D, len(t.Initial))
	for id, initial := range t.Initial {
		out[id] = initial.Mul(opInScene)
	}
	return out
}

// resizeFactors computes the per-axis scale factor of dragging handle
// to pos while fixed stays put, collapsing an axis to 1 if its
// denominator is zero, per §4.1.
func resizeFactors(pos, handle, fixed geom.Point) (sx, sy float32) {
	sx, sy = 1, 1
	if dx := handle.X - fixed.X; dx != 0 {
		sx = (pos.X - fixed.X) / dx
	}
	if dy := handle.Y - fixed.Y; dy != 0 {
		sy = (pos.Y - fixed.Y) / dy
	}
	return sx, sy
}

// SelectRectPolygon returns the normalized rectangle the SelectRect
// drag currently spans, as a 4-point polygon.
func (t *SelectionTool) SelectRectPolygon() []geom.Point {
	r := geom.Rectangle{Min: t.Start, Max: t.Current}.Canon()
	return []geom.Point{
		{X: r.Min.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y}, {X: r.Min.X, Y: r.Max.Y},
	}
}

// Mask returns the tool's device binding.
func (t *SelectionTool) Mask() Device { return t.Devices }

// Reset clears the operation state after Stop.
func (t *SelectionTool) Reset() {
	t.Op = OpNone
	t.Initial = nil
	t.Polygon = nil
}

// ContainsSceneShape reports whether every vertex of shape (already
// mapped to scene coordinates) lies inside polygon, per §4.5's
// SelectPolygon test.
func ContainsSceneShape(polygon, shape []geom.Point) bool {
	if len(shape) == 0 {
		return false
	}
	for _, p := range shape {
		if !pointInPolygon(polygon, p) {
			return false
		}
	}
	return true
}

func pointInPolygon(poly []geom.Point, p geom.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
