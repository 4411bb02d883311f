package scene

import (
	"image/color"
	"testing"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/tool"
)

func TestDispatchTextCreatesItemAtClickPosition(t *testing.T) {
	s, c := newTestScene()
	textTool := &tool.TextTool{Devices: tool.DeviceMouseLeft, Font: item.Font{PointSize: 12}, Color: color.RGBA{R: 255, A: 255}}
	s.Tools.Text = []*tool.TextTool{textTool}

	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseStart, Position: geom.Pt(10, 10)}); err != nil {
		t.Fatal(err)
	}
	if s.focused == nil {
		t.Fatal("expected a text item to be focused after creation")
	}
	if len(c.VisibleItems()) != 1 {
		t.Fatalf("expected one text item created, got %d", len(c.VisibleItems()))
	}
}

func TestDispatchTextFocusesExistingItemInsteadOfCreating(t *testing.T) {
	s, c := newTestScene()
	existing := item.NewTextGraphicsItem(c.NewItemID(), item.Font{PointSize: 12}, color.RGBA{A: 255})
	existing.SetText("hello")
	existing.SetTransform(geom.Offset(geom.Pt(0, 0)))
	if err := c.AppendForeground(existing); err != nil {
		t.Fatal(err)
	}

	textTool := &tool.TextTool{Devices: tool.DeviceMouseLeft}
	s.Tools.Text = []*tool.TextTool{textTool}
	if err := s.Dispatch(InputEvent{Device: tool.DeviceMouseLeft, Phase: PhaseStart, Position: geom.Pt(1, 1)}); err != nil {
		t.Fatal(err)
	}
	if s.focused == nil || s.focused.id != existing.ID() {
		t.Fatalf("expected existing text item to be focused, got %+v", s.focused)
	}
	if len(c.VisibleItems()) != 1 {
		t.Fatalf("expected no new item created, got %d visible", len(c.VisibleItems()))
	}
}

func TestCommitFocusedTextRemovesEmptyPlaceholder(t *testing.T) {
	s, c := newTestScene()
	it := item.NewTextGraphicsItem(c.NewItemID(), item.Font{PointSize: 12}, color.RGBA{A: 255})
	if err := c.AppendForeground(it); err != nil {
		t.Fatal(err)
	}
	s.focused = &focusedText{id: it.ID()}

	if err := s.CommitFocusedText(""); err != nil {
		t.Fatal(err)
	}
	if len(c.VisibleItems()) != 0 {
		t.Fatalf("expected empty commit to remove the placeholder, got %d visible", len(c.VisibleItems()))
	}
}

func TestCommitFocusedTextKeepsNonEmptyText(t *testing.T) {
	s, c := newTestScene()
	it := item.NewTextGraphicsItem(c.NewItemID(), item.Font{PointSize: 12}, color.RGBA{A: 255})
	if err := c.AppendForeground(it); err != nil {
		t.Fatal(err)
	}
	s.focused = &focusedText{id: it.ID()}

	if err := s.CommitFocusedText("hello world"); err != nil {
		t.Fatal(err)
	}
	if len(c.VisibleItems()) != 1 {
		t.Fatalf("expected committed item to survive, got %d visible", len(c.VisibleItems()))
	}
	if s.focused != nil {
		t.Fatal("expected focus cleared after commit")
	}
}
