package transition

import "github.com/slidepresenter/engine/geom"

// MaskKind is the sum type Design Notes §9 calls for in place of
// mutating a single pixmap item's mask property: the compositor
// switches on Kind and clips the outgoing snapshot accordingly.
type MaskKind uint8

const (
	MaskNone MaskKind = iota
	// MaskRect: only the area inside Rect still shows the snapshot.
	MaskRect
	// MaskInverseRect: only the area outside Rect still shows the
	// snapshot; Rect is a growing hole revealing the new page.
	MaskInverseRect
	MaskBlinds
	MaskGlitter
)

// Mask is the clip the compositor applies to the outgoing page
// snapshot for one animation frame.
type Mask struct {
	Kind MaskKind

	// Rect applies to MaskRect/MaskInverseRect.
	Rect geom.Rectangle

	// BlindsN/BlindsAxis/BlindsRemaining apply to MaskBlinds: the
	// slide rect is tiled into BlindsN strips along BlindsAxis, and
	// each strip keeps only its leading BlindsRemaining fraction
	// (1 = fully opaque, 0 = fully open).
	BlindsN         int
	BlindsAxis      Axis
	BlindsRemaining float32

	// GlitterProgress applies to MaskGlitter: it counts down from
	// GlitterTiles to 0 as tiles are revealed, see RevealedTiles.
	GlitterProgress int
}
