// Package transition computes the pure animation data behind slide
// transitions: masks, opacities and offsets advancing over elapsed
// time. It never touches pixels or a paint sink — rendering the
// result is the external rendering collaborator's job, the same
// boundary item.Painter draws at.
package transition

import (
	"time"

	"github.com/slidepresenter/engine/geom"
)

// Type names the twelve transition effects, plus None for no effect.
type Type uint8

const (
	None Type = iota
	Split
	Blinds
	Box
	Wipe
	Dissolve
	Glitter
	Fly
	FlyRectangle
	Push
	Cover
	Uncover
	Fade
)

// Axis is the split/blind orientation.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// Record is the per-page transition configuration the PDF backend
// reports for the outgoing page.
type Record struct {
	Type        Type
	Duration    time.Duration
	Angle       float32 // degrees, one of 0/90/180/270 for the directional effects
	Scale       float32
	Inward      bool
	Orientation Axis
	BlindsCount int               // 0 means "use the type's default (6)"
	Properties  map[string]string // backend-specific extras not modeled explicitly
}

func (r Record) blindsCount() int {
	if r.BlindsCount == 6 || r.BlindsCount == 8 {
		return r.BlindsCount
	}
	return 6
}

// Frame is the transition state for one point in time. Mask applies
// to the outgoing snapshot item; the offsets apply to the old/new
// page items when the effect moves them instead of masking.
type Frame struct {
	Mask Mask

	OldOpacity float32
	NewOpacity float32

	OldOffset geom.Point
	NewOffset geom.Point

	// DiffOffset positions the Fly/FlyRectangle difference pixmap;
	// ShowDiff reports whether it should be painted at all this frame.
	DiffOffset geom.Point
	ShowDiff   bool

	// ShowNew reports whether the new page's own content (as opposed
	// to the outgoing snapshot) should be the visible base layer.
	ShowNew bool

	Done bool
}

// Animator advances a Record by elapsed time and produces the Frame
// the view layer composites for the current instant.
type Animator struct {
	Record    Record
	SlideRect geom.Rectangle
	elapsed   time.Duration
}

func NewAnimator(rec Record, slideRect geom.Rectangle) *Animator {
	return &Animator{Record: rec, SlideRect: slideRect}
}

// Skip reports whether the record's duration is too short to animate
// at all — such a transition becomes an immediate navigation instead
// of a degenerate one-frame animation.
func (a *Animator) Skip() bool {
	return a.Record.Duration <= time.Millisecond
}

// Advance moves the animation forward by dt and returns the frame at
// the new elapsed time, clamped to [0, Duration].
func (a *Animator) Advance(dt time.Duration) Frame {
	a.elapsed += dt
	if a.elapsed < 0 {
		a.elapsed = 0
	}
	t := 1.0
	if a.Record.Duration > 0 {
		t = float64(a.elapsed) / float64(a.Record.Duration)
	}
	done := t >= 1
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	frame := a.frameAt(t)
	frame.Done = done
	return frame
}

// Reset rewinds the animation to its start, for re-entrant navigation
// during rapid page flipping.
func (a *Animator) Reset() {
	a.elapsed = 0
}

func (a *Animator) frameAt(t float64) Frame {
	switch a.Record.Type {
	case Split:
		return a.splitFrame(t)
	case Blinds:
		return a.blindsFrame(t)
	case Box:
		return a.boxFrame(t)
	case Wipe:
		return a.wipeFrame(t)
	case Dissolve:
		return a.dissolveFrame(t)
	case Glitter:
		return a.glitterFrame(t)
	case Fly, FlyRectangle:
		return a.flyFrame(t)
	case Push:
		return a.pushFrame(t)
	case Cover:
		return a.coverFrame(t)
	case Uncover:
		return a.uncoverFrame(t)
	case Fade:
		return a.fadeFrame(t)
	default:
		return Frame{ShowNew: true, NewOpacity: 1}
	}
}

func directionVector(angleDeg float32) geom.Point {
	switch normalizeAngle(angleDeg) {
	case 0:
		return geom.Pt(1, 0)
	case 90:
		return geom.Pt(0, 1)
	case 180:
		return geom.Pt(-1, 0)
	default: // 270
		return geom.Pt(0, -1)
	}
}

func normalizeAngle(angleDeg float32) int {
	a := int(angleDeg) % 360
	if a < 0 {
		a += 360
	}
	// snap to the nearest cardinal direction the directional effects use
	switch {
	case a < 45 || a >= 315:
		return 0
	case a < 135:
		return 90
	case a < 225:
		return 180
	default:
		return 270
	}
}

func travelDistance(rect geom.Rectangle, dir geom.Point) float32 {
	if dir.X != 0 {
		return rect.Dx()
	}
	return rect.Dy()
}

func centeredRect(full geom.Rectangle, fracW, fracH float32) geom.Rectangle {
	c := full.Center()
	hw := full.Dx() / 2 * fracW
	hh := full.Dy() / 2 * fracH
	return geom.Rectangle{Min: geom.Pt(c.X-hw, c.Y-hh), Max: geom.Pt(c.X+hw, c.Y+hh)}
}

func lerp32(a, b float32, t float64) float32 {
	return a + float32(t)*(b-a)
}
