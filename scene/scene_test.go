package scene

import (
	"testing"

	"github.com/slidepresenter/engine/container"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
	"github.com/slidepresenter/engine/tool"
)

func newTestScene() (*SlideScene, *container.PathContainer) {
	c := container.New()
	return NewSlideScene(c), c
}

func TestOverlayRebuildUnitesSelectionBounds(t *testing.T) {
	s, c := newTestScene()
	a := item.NewRectGraphicsItem(c.NewItemID(), geom.Pt(0, 0), style.Stroke{Width: 1})
	a.SetSecondPoint(geom.Pt(10, 10))
	b := item.NewRectGraphicsItem(c.NewItemID(), geom.Pt(20, 20), style.Stroke{Width: 1})
	b.SetSecondPoint(geom.Pt(30, 30))
	if err := c.AppendForeground(a); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendForeground(b); err != nil {
		t.Fatal(err)
	}
	s.Overlay.Items = []item.ID{a.ID(), b.ID()}
	s.Overlay.Rebuild(c.Get)
	want := geom.Rectangle{Min: geom.Pt(0, 0), Max: geom.Pt(30, 30)}
	if s.Overlay.Rect != want {
		t.Fatalf("overlay rect = %v, want %v", s.Overlay.Rect, want)
	}
}

func TestOverlayHitTestHandlesAndInterior(t *testing.T) {
	o := &Overlay{Items: []item.ID{1}, Rect: geom.Rectangle{Min: geom.Pt(0, 0), Max: geom.Pt(100, 100)}}
	if h, ok := o.HitTest(geom.Pt(0, 0)); !ok || h != HandleTopLeft {
		t.Fatalf("expected HandleTopLeft at corner, got %v, %v", h, ok)
	}
	if h, ok := o.HitTest(geom.Pt(50, 50)); !ok || h != HandleNone {
		t.Fatalf("expected interior hit with HandleNone, got %v, %v", h, ok)
	}
	if _, ok := o.HitTest(geom.Pt(500, 500)); ok {
		t.Fatal("expected miss far outside the overlay")
	}
}

func TestOverlayNotVisibleWithoutSelection(t *testing.T) {
	o := &Overlay{}
	if o.Visible() {
		t.Fatal("expected empty overlay to be not visible")
	}
	if _, ok := o.HitTest(geom.Pt(0, 0)); ok {
		t.Fatal("expected HitTest to miss when overlay has no selection")
	}
}

func TestLookupToolPrefersFirstMatchingCategory(t *testing.T) {
	s, _ := newTestScene()
	draw := &tool.DrawTool{Devices: tool.DeviceTabletPen}
	pointing := &tool.PointingTool{Devices: tool.DeviceTabletPen}
	s.Tools.Draw = []*tool.DrawTool{draw}
	s.Tools.Pointing = []*tool.PointingTool{pointing}
	got := s.lookupTool(tool.DeviceTabletPen)
	if got != tool.Binding(draw) {
		t.Fatalf("expected draw tool to win lookup, got %#v", got)
	}
}

func TestLookupToolReturnsNilWhenUnbound(t *testing.T) {
	s, _ := newTestScene()
	if s.lookupTool(tool.DeviceMouseLeft) != nil {
		t.Fatal("expected nil lookup with no tools bound")
	}
}

func TestDispatchDrawCreatesPathOnStop(t *testing.T) {
	s, c := newTestScene()
	draw := &tool.DrawTool{Kind: tool.KindPen, Devices: tool.DeviceMouseLeft, Stroke: style.Stroke{Width: 2}}
	s.Tools.Draw = []*tool.DrawTool{draw}

	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseStart, Position: geom.Pt(0, 0)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseUpdate, Position: geom.Pt(10, 10)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseStop, Position: geom.Pt(10, 10)}); err != nil {
		t.Fatal(err)
	}
	if len(c.VisibleItems()) != 1 {
		t.Fatalf("expected one finalized path item, got %d", len(c.VisibleItems()))
	}
}

func TestDispatchDrawCancelUndoesTheStep(t *testing.T) {
	s, c := newTestScene()
	draw := &tool.DrawTool{Kind: tool.KindPen, Devices: tool.DeviceMouseLeft, Stroke: style.Stroke{Width: 2}}
	s.Tools.Draw = []*tool.DrawTool{draw}

	s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseStart, Position: geom.Pt(0, 0)})
	s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseUpdate, Position: geom.Pt(10, 10)})
	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseCancel, Position: geom.Pt(10, 10)}); err != nil {
		t.Fatal(err)
	}
	if len(c.VisibleItems()) != 0 {
		t.Fatalf("expected cancel to leave no visible items, got %d", len(c.VisibleItems()))
	}
}

type fakeMedia struct {
	rect    geom.Rectangle
	toggled bool
}

func (f *fakeMedia) SceneRect() geom.Rectangle { return f.rect }
func (f *fakeMedia) TogglePlayPause()          { f.toggled = true }

func TestDispatchNoToolTogglesMediaUnderClick(t *testing.T) {
	s, _ := newTestScene()
	m := &fakeMedia{rect: geom.Rectangle{Min: geom.Pt(0, 0), Max: geom.Pt(50, 50)}}
	s.Media = []MediaItem{m}
	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseStart, Position: geom.Pt(10, 10)}); err != nil {
		t.Fatal(err)
	}
	if !m.toggled {
		t.Fatal("expected media under the click to toggle play/pause")
	}
}

type fakeLink struct{ followed bool }

func (l *fakeLink) Follow() { l.followed = true }

type fakeBackend struct{ link *fakeLink }

func (b *fakeBackend) LinkAt(page int, pos geom.Point) (LinkTarget, bool) {
	if b.link == nil {
		return nil, false
	}
	return b.link, true
}

func TestDispatchNoToolFollowsLinkWhenNoMediaHit(t *testing.T) {
	s, _ := newTestScene()
	link := &fakeLink{}
	s.Backend = &fakeBackend{link: link}
	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseStart, Position: geom.Pt(10, 10)}); err != nil {
		t.Fatal(err)
	}
	if !link.followed {
		t.Fatal("expected link under the click to be followed")
	}
}

func TestClearFocusDropsSelectionAndTextFocus(t *testing.T) {
	s, _ := newTestScene()
	s.Overlay.Items = []item.ID{1, 2}
	s.Overlay.Rect = geom.Rectangle{Max: geom.Pt(10, 10)}
	s.focused = &focusedText{id: 3}
	s.ClearFocus()
	if s.Overlay.Visible() {
		t.Fatal("expected overlay cleared")
	}
	if s.focused != nil {
		t.Fatal("expected text focus cleared")
	}
}
