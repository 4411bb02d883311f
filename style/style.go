// Package style holds the small value types shared by draw tools and
// graphics items: stroke caps/joins, composition mode, and the pen/brush
// pair a path or shape paints with. Keeping them in their own package
// avoids an import cycle between tool (which configures them) and item
// (which paints with them).
package style

import "image/color"

// Cap describes the head or tail of a stroked path.
type Cap uint8

const (
	FlatCap Cap = iota
	RoundCap
	SquareCap
)

// Join describes how stroked path segments are collated.
type Join uint8

const (
	MiterJoin Join = iota
	RoundJoin
	BevelJoin
)

// Composition selects how a stroke is blended onto the page below it.
type Composition uint8

const (
	// SourceOver is normal opaque-over-transparent painting.
	SourceOver Composition = iota
	// Darken is used by the highlighter so overlapping highlighter
	// strokes never darken past the single-stroke color.
	Darken
)

// Pattern is the dash pattern of a stroke outline.
type Pattern uint8

const (
	SolidLine Pattern = iota
	DashLine
	DotLine
	DashDotLine
)

// Brush is an optional fill applied to a shape's interior.
type Brush struct {
	Color color.RGBA
	Valid bool
}

// Stroke is the full paint description carried by a draw tool and
// stamped onto every path or shape item it creates. Undo/redo of a
// "change tool" history step swaps this value wholesale on the
// affected path.
type Stroke struct {
	Color       color.RGBA
	Width       float32
	Pattern     Pattern
	Cap         Cap
	Join        Join
	Fill        Brush
	Composition Composition
}

// XorRGBA returns c with its RGBA components XORed by diff; used to invert a text-property-change history step without
// storing the two absolute colors.
func XorRGBA(c color.RGBA, diff color.RGBA) color.RGBA {
	return color.RGBA{
		R: c.R ^ diff.R,
		G: c.G ^ diff.G,
		B: c.B ^ diff.B,
		A: c.A ^ diff.A,
	}
}
