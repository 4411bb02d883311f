// Package item implements the graphics item hierarchy of §4.2: a closed
// set of drawable, transformable, hit-testable primitives that a
// PathContainer owns and a SlideScene composites. Downcasts to a
// concrete type only happen where semantic information is required
// (changing a draw tool is a no-op on anything but a path; changing a
// text color is a no-op on anything but a text item), following the
// "closed tagged enum with a minimal shared interface" design note.
package item

import (
	"image"
	"image/color"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/style"
)

// ID identifies an item inside a single PathContainer's arena. It is
// stable for the life of the item, independent of the pointer/handle
// that happens to refer to it, so history steps can reference items by
// value without aliasing hazards.
type ID uint64

// Kind tags the concrete type behind an Item.
type Kind uint8

const (
	KindBasicPath Kind = iota
	KindFullPath
	KindRect
	KindEllipse
	KindLine
	KindArrow
	KindText
	KindPicture
	KindPixmap
	KindGroup
)

// Painter is the abstract paint sink every item renders itself into.
// The concrete GUI toolkit's painter is an external collaborator
// (§1); this interface is the narrow surface this module needs from
// it.
type Painter interface {
	Stroke(points []geom.Point, closed bool, s style.Stroke)
	Fill(points []geom.Point, c color.RGBA)
	Image(img image.Image, dst geom.Rectangle)
	Text(t *TextRun)
}

// Item is the minimal interface every graphics item implements:
// bounding rect, hit-test shape, paint, scene transform, z-order and
// selectability. Everything else is accessed through a type switch on
// Kind where the operation only makes sense for one concrete type.
type Item interface {
	ID() ID
	Kind() Kind
	// BoundingRect returns the item's bounding rectangle in its own
	// local (pre-transform) coordinate space.
	BoundingRect() geom.Rectangle
	// Shape returns the hit-test polygon/polyline in local
	// coordinates; empty only if the item itself is logically empty.
	Shape() []geom.Point
	Transform() geom.Affine2D
	SetTransform(geom.Affine2D)
	Z() float64
	SetZ(float64)
	Selectable() bool
	Paint(p Painter)
	Copy() Item
}

// SceneShape maps shape (hit-test polygon) to scene coordinates via
// the item's transform.
func SceneShape(it Item) []geom.Point {
	t := it.Transform()
	local := it.Shape()
	out := make([]geom.Point, len(local))
	for i, p := range local {
		out[i] = t.Transform(p)
	}
	return out
}

// SceneBoundingRect returns the item's bounding rect mapped into
// scene coordinates.
func SceneBoundingRect(it Item) geom.Rectangle {
	return it.Transform().TransformRect(it.BoundingRect())
}

// base holds the fields common to every concrete item and is embedded
// by each one instead of repeated.
type base struct {
	id         ID
	transform  geom.Affine2D
	z          float64
	selectable bool
}

func (b *base) ID() ID                        { return b.id }
func (b *base) Transform() geom.Affine2D      { return b.transform }
func (b *base) SetTransform(t geom.Affine2D)  { b.transform = t }
func (b *base) Z() float64                    { return b.z }
func (b *base) SetZ(z float64)                { b.z = z }
func (b *base) Selectable() bool              { return b.selectable }
func (b *base) SetSelectable(selectable bool) { b.selectable = selectable }

// TextRun is the minimal editable text payload of a TextGraphicsItem.
type TextRun struct {
	Text  string
	Font  Font
	Color color.RGBA
}

// Font is a minimal font descriptor; real glyph shaping is delegated
// to the external text-layout collaborator the Non-goals exclude
// ("text layout beyond basic runs").
type Font struct {
	Family string
	PointSize float32
	Bold, Italic bool
}
