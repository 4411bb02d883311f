package scene

import (
	"github.com/slidepresenter/engine/container"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/tool"
)

// Flags is the per-viewport scene-flags bitmask of §3/GLOSSARY.
type Flags uint16

const (
	ShowDrawings Flags = 1 << iota
	ShowSearchResults
	ShowTransitions
	CacheVideos
	LoadMedia
	AutoplayVideo
	MuteSlide
)

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// MediaItem is the narrow surface the scene needs from a page's
// attached media items (the full lifecycle lives in the `media`
// package); it lets "no tool click" toggle playback without the
// scene importing media directly.
type MediaItem interface {
	SceneRect() geom.Rectangle
	TogglePlayPause()
}

// LinkTarget is the narrow surface the scene needs from the PDF
// backend's link_at result, per §6.
type LinkTarget interface {
	Follow()
}

// Backend is the subset of §6's PDF backend the scene consults
// directly (page navigation/search use a wider surface owned by the
// `pdfbackend` package; the scene only needs link lookup here).
type Backend interface {
	LinkAt(page int, pos geom.Point) (LinkTarget, bool)
}

// HandleSize is the hit-test radius for selection overlay handles
// (selection_rect_handle_size in config), defaulting to a sane value
// until the config package installs the real setting.
var HandleSize float32 = 6

// Overlay is the selection bounding-box overlay of §3/§4.5: the union
// bounding rect of every selected item's scene shape, plus scale
// handles, a rotation handle, and a delete handle.
type Overlay struct {
	Items []item.ID
	Rect  geom.Rectangle
}

// Visible reports whether the overlay currently has a selection.
func (o *Overlay) Visible() bool { return len(o.Items) > 0 }

// Rebuild recomputes the overlay's bounding rect from the current
// scene-space shape of every selected item, per §4.5's "Rebuilt on
// selectionChanged by uniting each selected item's
// mapToScene(shape).controlPointRect()".
func (o *Overlay) Rebuild(get func(item.ID) (item.Item, bool)) {
	o.Rect = geom.Rectangle{}
	first := true
	for _, id := range o.Items {
		it, ok := get(id)
		if !ok {
			continue
		}
		r := controlPointRect(item.SceneShape(it))
		if first {
			o.Rect = r
			first = false
			continue
		}
		o.Rect = o.Rect.Union(r)
	}
}

func controlPointRect(pts []geom.Point) geom.Rectangle {
	if len(pts) == 0 {
		return geom.Rectangle{}
	}
	r := geom.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Union(geom.Rectangle{Min: p, Max: p})
	}
	return r
}

// Handle names the eight scale handles plus rotation and delete.
type Handle uint8

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
	HandleDelete
)

// points returns the scene position of every named handle.
func (o *Overlay) points() map[Handle]geom.Point {
	r := o.Rect
	mid := r.Center()
	out := map[Handle]geom.Point{
		HandleTopLeft:     r.Min,
		HandleTop:         geom.Pt(mid.X, r.Min.Y),
		HandleTopRight:    geom.Pt(r.Max.X, r.Min.Y),
		HandleRight:       geom.Pt(r.Max.X, mid.Y),
		HandleBottomRight: r.Max,
		HandleBottom:      geom.Pt(mid.X, r.Max.Y),
		HandleBottomLeft:  geom.Pt(r.Min.X, r.Max.Y),
		HandleLeft:        geom.Pt(r.Min.X, mid.Y),
	}
	out[HandleRotate] = geom.Pt(mid.X, r.Min.Y-4*HandleSize)
	out[HandleDelete] = geom.Pt(r.Max.X+2*HandleSize, r.Min.Y)
	return out
}

// HitTest returns the handle (if any) within HandleSize of pos, or
// HandleNone if pos falls in the selection interior, or
// (HandleNone, false) if pos misses the overlay entirely.
func (o *Overlay) HitTest(pos geom.Point) (Handle, bool) {
	if !o.Visible() {
		return HandleNone, false
	}
	for h, p := range o.points() {
		if p.Sub(pos).Len() <= HandleSize {
			return h, true
		}
	}
	if o.Rect.ContainsPoint(pos) {
		return HandleNone, true
	}
	return HandleNone, false
}

// Opposite returns the handle diagonally opposite h, the fixed point
// a Resize op anchors to.
func (o *Overlay) Opposite(h Handle) geom.Point {
	pts := o.points()
	switch h {
	case HandleTopLeft:
		return pts[HandleBottomRight]
	case HandleTop:
		return pts[HandleBottom]
	case HandleTopRight:
		return pts[HandleBottomLeft]
	case HandleRight:
		return pts[HandleLeft]
	case HandleBottomRight:
		return pts[HandleTopLeft]
	case HandleBottom:
		return pts[HandleTop]
	case HandleBottomLeft:
		return pts[HandleTopRight]
	case HandleLeft:
		return pts[HandleRight]
	}
	return o.Rect.Center()
}

// HandlePoint returns h's current scene position.
func (o *Overlay) HandlePoint(h Handle) geom.Point { return o.points()[h] }

// inFlight is the live-drawing state a draw tool keeps between Start
// and Stop, per §3's "currently-drawn item and its transient item
// group".
type inFlight struct {
	tool  *tool.DrawTool
	item  item.Item
	group *item.Group
}

// ToolSet is every tool bound to this scene, looked up linearly by
// device per §3's "lookup is linear over a small vector".
type ToolSet struct {
	Draw      []*tool.DrawTool
	Pointing  []*tool.PointingTool
	Selection []*tool.SelectionTool
	Text      []*tool.TextTool
}

// SlideScene is the per-live-page state of §3.
type SlideScene struct {
	Page  int
	Flags Flags

	Container *container.PathContainer
	Backend   Backend

	Background *item.PixmapGraphicsItem
	Transition *item.PixmapGraphicsItem

	Overlay Overlay

	Tools         ToolSet
	active        *inFlight
	activeEraser  bool
	tempSelection *tool.SelectionTool

	Media []MediaItem

	focused   *focusedText
	magnifier MagnifierRequester

	// OnUnsavedDrawings is called when an eraser micro-step actually
	// deleted something, per §4.5's "unsaved-drawings" signal.
	OnUnsavedDrawings func()

	newItemID func() item.ID
}

// SetMagnifierRequester wires the view that will service magnifier
// enlarged-render requests.
func (s *SlideScene) SetMagnifierRequester(m MagnifierRequester) { s.magnifier = m }

// NewSlideScene creates a scene bound to c, using c.NewItemID for
// every item the scene itself creates (text items, picture/pixmap
// paste targets).
func NewSlideScene(c *container.PathContainer) *SlideScene {
	return &SlideScene{Container: c, newItemID: c.NewItemID, Flags: ShowDrawings | ShowTransitions | LoadMedia}
}

// bindings returns every bound tool as a tool.Binding, draw tools
// first, matching the priority order §4.5's "no tool bound, or a draw
// tool bound" temporary-selection rule relies on.
func (t ToolSet) bindings() []tool.Binding {
	out := make([]tool.Binding, 0, len(t.Draw)+len(t.Pointing)+len(t.Selection)+len(t.Text))
	for _, b := range t.Draw {
		out = append(out, b)
	}
	for _, b := range t.Pointing {
		out = append(out, b)
	}
	for _, b := range t.Selection {
		out = append(out, b)
	}
	for _, b := range t.Text {
		out = append(out, b)
	}
	return out
}

// lookupTool finds the single tool bound to device d across every
// category, returning it as a tool.Binding whose dynamic type is one
// of *tool.DrawTool, *tool.PointingTool, *tool.SelectionTool, or
// *tool.TextTool — the "closed tagged enum, downcast where semantics
// require it" design note applied to dispatch itself. Lookup stays
// linear over a small slice per §3.
func (s *SlideScene) lookupTool(d tool.Device) tool.Binding {
	for _, b := range s.Tools.bindings() {
		if b.Mask().Has(d) {
			return b
		}
	}
	return nil
}

// ClearFocus drops the selection overlay and any in-progress text
// editing focus; every tool handler that starts a new gesture calls
// this first, per §4.5.
func (s *SlideScene) ClearFocus() {
	s.Overlay.Items = nil
	s.Overlay.Rect = geom.Rectangle{}
	s.focused = nil
}
