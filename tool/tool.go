// Package tool implements the tagged-union tool model of §4.1: draw,
// pointing, selection and text tools, each carrying a device bitmask
// that the scene's event dispatcher (the `scene` package) consults to
// pick the tool an input event is routed to.
package tool

import (
	"image/color"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
)

// Device is a bitmask identifying the physical input an event came
// from, matching §3's "Device bitmask" data model.
type Device uint16

const (
	DeviceMouseLeft Device = 1 << iota
	DeviceMouseRight
	DeviceMouseMiddle
	DeviceTabletPen
	DeviceTabletEraser
	DeviceTabletCursor
	DeviceTabletHover
	DeviceTouch
	DeviceNoButton
)

// Has reports whether d intersects mask; tool-device lookup is linear
// over a small slice of tools, matching §3's "lookup is linear over a
// small vector".
func (d Device) Has(mask Device) bool { return d&mask != 0 }

// Binding is satisfied by every tool category; the scene package's
// device lookup walks a mixed slice of these rather than four
// separate typed loops.
type Binding interface {
	Mask() Device
}

// Kind is the basic tool kind named in §3's Tool discriminated
// variant.
type Kind uint8

const (
	KindPen Kind = iota
	KindFixedWidthPen
	KindHighlighter
	KindEraser
	KindPointer
	KindTorch
	KindMagnifier
	KindTextInput
	KindSelection
	KindDrag
	KindNoTool
)

// Shape tags which geometry a draw tool's in-progress stroke is
// interpreted as, per §3.
type Shape uint8

const (
	ShapeFreehand Shape = iota
	ShapeRect
	ShapeEllipse
	ShapeLine
	ShapeArrow
	ShapeRecognize
)

// DrawTool is a pen, fixed-width pen, or highlighter: it carries a
// stroke descriptor and the shape its in-progress drag is
// interpreted as.
type DrawTool struct {
	Kind    Kind
	Devices Device
	Stroke  style.Stroke
	Shape   Shape
}

// IsPressureCapable reports whether this draw tool should build a
// variable-width path for a freehand/recognize stroke, per §4.5's
// "Pen with a pressure-capable device" rule.
func (t DrawTool) IsPressureCapable(d Device) bool {
	return t.Kind == KindPen && d.Has(DeviceTabletPen|DeviceTouch)
}

// Mask returns the tool's device binding, implementing the scene
// package's device-lookup Binding interface without colliding with
// the exported Devices field name.
func (t DrawTool) Mask() Device { return t.Devices }

// PointingTool is a pointer, torch, magnifier, or pointing-mode
// eraser: it tracks a (possibly multi-touch) list of current
// positions rather than building a persistent item.
type PointingTool struct {
	Kind      Kind
	Devices   Device
	Color     color.RGBA
	Radius    float32
	// Scale is either the magnifier zoom factor or the eraser outline
	// width, per original_source's pointingtool.h distinction recorded
	// in SPEC_FULL.md §C.2 — magnifier and eraser never both read this
	// field at once since they are different Kinds.
	Scale     float32
	Positions []geom.Point
}

// SetPosition records (or appends) a position for slot i, growing
// Positions as needed for multi-touch.
func (p *PointingTool) SetPosition(i int, pt geom.Point) {
	for len(p.Positions) <= i {
		p.Positions = append(p.Positions, geom.Point{})
	}
	p.Positions[i] = pt
}

// ClearPositions empties the position list, per §4.5's "Stop clears
// positions except for hover-capable devices".
func (p *PointingTool) ClearPositions() { p.Positions = p.Positions[:0] }

// Mask returns the tool's device binding.
func (p *PointingTool) Mask() Device { return p.Devices }

// TextTool carries the font and color a newly created text item
// starts with.
type TextTool struct {
	Kind    Kind
	Devices Device
	Font    item.Font
	Color   color.RGBA
}

// Mask returns the tool's device binding.
func (t TextTool) Mask() Device { return t.Devices }
