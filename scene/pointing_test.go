package scene

import (
	"testing"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
	"github.com/slidepresenter/engine/tool"
)

func TestDispatchEraserSplitsPathAndSignalsUnsavedDrawings(t *testing.T) {
	s, c := newTestScene()
	p := item.NewBasicGraphicsPath(c.NewItemID(), style.Stroke{Width: 1})
	for _, pt := range []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 4}, {X: 6, Y: 6}, {X: 8, Y: 8}, {X: 10, Y: 10}} {
		p.AddPoint(pt)
	}
	p.Finalize()
	if err := c.AppendForeground(p); err != nil {
		t.Fatal(err)
	}

	unsaved := false
	s.OnUnsavedDrawings = func() { unsaved = true }

	eraser := &tool.PointingTool{Kind: tool.KindEraser, Devices: tool.DeviceTabletEraser, Radius: 0.5}
	s.Tools.Pointing = []*tool.PointingTool{eraser}

	if err := s.Dispatch(InputEvent{Device: tool.DeviceTabletEraser, Phase: PhaseStart, Position: geom.Pt(4, 4)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(InputEvent{Device: tool.DeviceTabletEraser, Phase: PhaseUpdate, Position: geom.Pt(4, 4)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(InputEvent{Device: tool.DeviceTabletEraser, Phase: PhaseStop, Position: geom.Pt(4, 4)}); err != nil {
		t.Fatal(err)
	}
	if !unsaved {
		t.Fatal("expected OnUnsavedDrawings to fire after an erase that touched the path")
	}
	if len(c.VisibleItems()) == 0 {
		t.Fatal("expected surviving sub-paths after a partial erase")
	}
}

func TestDispatchEraserCancelRestoresOriginal(t *testing.T) {
	s, c := newTestScene()
	p := item.NewBasicGraphicsPath(c.NewItemID(), style.Stroke{Width: 1})
	for _, pt := range []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 4}, {X: 6, Y: 6}} {
		p.AddPoint(pt)
	}
	p.Finalize()
	if err := c.AppendForeground(p); err != nil {
		t.Fatal(err)
	}
	before := len(c.VisibleItems())

	eraser := &tool.PointingTool{Kind: tool.KindEraser, Devices: tool.DeviceTabletEraser, Radius: 0.5}
	s.Tools.Pointing = []*tool.PointingTool{eraser}

	s.Dispatch(InputEvent{Device: tool.DeviceTabletEraser, Phase: PhaseStart, Position: geom.Pt(2, 2)})
	s.Dispatch(InputEvent{Device: tool.DeviceTabletEraser, Phase: PhaseUpdate, Position: geom.Pt(2, 2)})
	if err := s.Dispatch(InputEvent{Device: tool.DeviceTabletEraser, Phase: PhaseCancel, Position: geom.Pt(2, 2)}); err != nil {
		t.Fatal(err)
	}
	if len(c.VisibleItems()) != before {
		t.Fatalf("expected cancel to restore original item count %d, got %d", before, len(c.VisibleItems()))
	}
}
