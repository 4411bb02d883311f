package item

import (
	"math"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/style"
)

// Corner is a 2-bit mask of which corner of a rect/ellipse shape item
// was clicked first; it flips whenever a live-dragged width or height
// crosses zero so the shape always normalizes to a canonical rect
// without losing track of which handle the user is dragging.
type Corner uint8

const (
	CornerLeft Corner = 1 << iota
	CornerTop
)

// RectGraphicsItem is an in-progress or finalized rectangle shape
// tool stroke.
type RectGraphicsItem struct {
	base
	rect   geom.Rectangle
	corner Corner
	tool   style.Stroke
}

func NewRectGraphicsItem(id ID, start geom.Point, tool style.Stroke) *RectGraphicsItem {
	return &RectGraphicsItem{base: base{id: id, selectable: true}, rect: geom.Rectangle{Min: start, Max: start}, tool: tool}
}

func (r *RectGraphicsItem) Kind() Kind { return KindRect }

// SetSecondPoint updates the live rectangle as the pointer moves,
// flipping the origin-corner bitmask whenever width or height goes
// negative and renormalizing.
func (r *RectGraphicsItem) SetSecondPoint(p geom.Point) {
	if r.corner&CornerLeft != 0 {
		r.rect.Min.X = p.X
	} else {
		r.rect.Max.X = p.X
	}
	if r.corner&CornerTop != 0 {
		r.rect.Min.Y = p.Y
	} else {
		r.rect.Max.Y = p.Y
	}
	w, h := r.rect.Dx(), r.rect.Dy()
	if w < 0 {
		r.corner ^= CornerLeft
	}
	if h < 0 {
		r.corner ^= CornerTop
	}
	r.rect = r.rect.Canon()
}

func (r *RectGraphicsItem) originCorner() Corner { return r.corner }

func (r *RectGraphicsItem) BoundingRect() geom.Rectangle {
	return r.rect.Inset(-r.tool.Width / 2)
}
func (r *RectGraphicsItem) Shape() []geom.Point {
	m := r.rect
	return []geom.Point{{X: m.Min.X, Y: m.Min.Y}, {X: m.Max.X, Y: m.Min.Y}, {X: m.Max.X, Y: m.Max.Y}, {X: m.Min.X, Y: m.Max.Y}}
}
func (r *RectGraphicsItem) Paint(p Painter) { p.Stroke(r.Shape(), true, r.tool) }
func (r *RectGraphicsItem) Copy() Item      { cp := *r; return &cp }

// ToPath converts the finalized rectangle into a BasicGraphicsPath
// sampled at width/10+2 points along each horizontal side and
// height/10+2 along each vertical side, closed on the first corner,
// per §4.2.
func (r *RectGraphicsItem) ToPath(id ID) *BasicGraphicsPath {
	nx := int(r.rect.Dx()/10) + 2
	ny := int(r.rect.Dy()/10) + 2
	path := NewBasicGraphicsPath(id, r.tool)
	corners := r.Shape()
	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[(i+1)%4]
		steps := nx
		if i%2 == 1 {
			steps = ny
		}
		for s := 0; s < steps; s++ {
			t := float32(s) / float32(steps)
			path.coords = append(path.coords, lerp(a, b, t))
		}
	}
	path.coords = append(path.coords, corners[0])
	path.transform = r.transform
	path.z = r.z
	path.Finalize()
	return path
}

func lerp(a, b geom.Point, t float32) geom.Point {
	return geom.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
}

// EllipseGraphicsItem is an in-progress or finalized ellipse shape
// tool stroke, bounded by the same normalized-rect + origin-corner
// model as RectGraphicsItem.
type EllipseGraphicsItem struct {
	RectGraphicsItem
}

func NewEllipseGraphicsItem(id ID, start geom.Point, tool style.Stroke) *EllipseGraphicsItem {
	return &EllipseGraphicsItem{RectGraphicsItem: *NewRectGraphicsItem(id, start, tool)}
}

func (e *EllipseGraphicsItem) Kind() Kind { return KindEllipse }

func (e *EllipseGraphicsItem) Shape() []geom.Point {
	n := 48
	c := e.rect.Center()
	rx, ry := e.rect.Dx()/2, e.rect.Dy()/2
	pts := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Pt(c.X+rx*float32(math.Cos(a)), c.Y+ry*float32(math.Sin(a)))
	}
	return pts
}

func (e *EllipseGraphicsItem) Paint(p Painter) { p.Stroke(e.Shape(), true, e.tool) }
func (e *EllipseGraphicsItem) Copy() Item      { cp := *e; return &cp }

// ToPath samples (width+height)/3 + 10 points around the ellipse,
// per §4.2.
func (e *EllipseGraphicsItem) ToPath(id ID) *BasicGraphicsPath {
	n := int((e.rect.Dx()+e.rect.Dy())/3) + 10
	if n < 8 {
		n = 8
	}
	c := e.rect.Center()
	rx, ry := e.rect.Dx()/2, e.rect.Dy()/2
	path := NewBasicGraphicsPath(id, e.tool)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i%n) / float64(n)
		path.coords = append(path.coords, geom.Pt(c.X+rx*float32(math.Cos(a)), c.Y+ry*float32(math.Sin(a))))
	}
	path.transform = e.transform
	path.z = e.z
	path.Finalize()
	return path
}

// LineGraphicsItem is a straight line shape tool stroke from Start to
// End in local coordinates.
type LineGraphicsItem struct {
	base
	Start, End geom.Point
	tool       style.Stroke
}

func NewLineGraphicsItem(id ID, start geom.Point, tool style.Stroke) *LineGraphicsItem {
	return &LineGraphicsItem{base: base{id: id, selectable: true}, Start: start, End: start, tool: tool}
}

func (l *LineGraphicsItem) Kind() Kind                 { return KindLine }
func (l *LineGraphicsItem) SetSecondPoint(p geom.Point) { l.End = p }
func (l *LineGraphicsItem) BoundingRect() geom.Rectangle {
	b := geom.Rectangle{Min: l.Start, Max: l.Start}.Union(geom.Rectangle{Min: l.End, Max: l.End})
	return b.Inset(-l.tool.Width / 2)
}
func (l *LineGraphicsItem) Shape() []geom.Point { return []geom.Point{l.Start, l.End} }
func (l *LineGraphicsItem) Paint(p Painter)     { p.Stroke(l.Shape(), false, l.tool) }
func (l *LineGraphicsItem) Copy() Item          { cp := *l; return &cp }

// ToPath converts the line directly to a 2-point BasicGraphicsPath.
func (l *LineGraphicsItem) ToPath(id ID) *BasicGraphicsPath {
	path := NewBasicGraphicsPath(id, l.tool)
	path.coords = []geom.Point{l.Start, l.End}
	path.transform = l.transform
	path.z = l.z
	path.Finalize()
	return path
}

// ArrowGraphicsItem is a line shape with an arrowhead computed from
// its length, per §4.2's length-dependent scale formula.
type ArrowGraphicsItem struct {
	LineGraphicsItem
}

func NewArrowGraphicsItem(id ID, start geom.Point, tool style.Stroke) *ArrowGraphicsItem {
	return &ArrowGraphicsItem{LineGraphicsItem: *NewLineGraphicsItem(id, start, tool)}
}

func (a *ArrowGraphicsItem) Kind() Kind { return KindArrow }

// Tips returns the two arrowhead tip points, offset perpendicular to
// the line by a length-dependent scale:
// scale = 8/max(40,L) + 32/max(320,L).
func (a *ArrowGraphicsItem) Tips() (tip1, tip2 geom.Point) {
	d := a.End.Sub(a.Start)
	l := d.Len()
	if l == 0 {
		return a.End, a.End
	}
	scale := 8/maxf(40, l) + 32/maxf(320, l)
	back := a.Start.Add(d.Mul(1 - scale))
	n := geom.Pt(-d.Y/l, d.X/l).Mul(scale * l / 4)
	return back.Add(n), back.Sub(n)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func (a *ArrowGraphicsItem) Paint(p Painter) {
	p.Stroke(a.Shape(), false, a.tool)
	t1, t2 := a.Tips()
	p.Stroke([]geom.Point{t1, a.End, t2}, false, a.tool)
}

func (a *ArrowGraphicsItem) Copy() Item { cp := *a; return &cp }

// ExportPaths converts the arrow to its main line path and, iff
// Start != End, a two-segment arrowhead path; per invariant 10 a
// degenerate arrow (Start == End) exports zero paths.
func (a *ArrowGraphicsItem) ExportPaths(newID func() ID) []*BasicGraphicsPath {
	if a.Start == a.End {
		return nil
	}
	l := a.End.Sub(a.Start).Len()
	mainN := int(l/10) + 2
	main := NewBasicGraphicsPath(newID(), a.tool)
	for i := 0; i <= mainN; i++ {
		main.coords = append(main.coords, lerp(a.Start, a.End, float32(i)/float32(mainN)))
	}
	main.transform = a.transform
	main.z = a.z
	main.Finalize()

	t1, t2 := a.Tips()
	tipN := int(l/40) + 2
	tip := NewBasicGraphicsPath(newID(), a.tool)
	for i := 0; i <= tipN; i++ {
		tip.coords = append(tip.coords, lerp(t1, a.End, float32(i)/float32(tipN)))
	}
	for i := 0; i <= tipN; i++ {
		tip.coords = append(tip.coords, lerp(a.End, t2, float32(i)/float32(tipN)))
	}
	tip.transform = a.transform
	tip.z = a.z
	tip.Finalize()
	return []*BasicGraphicsPath{main, tip}
}
