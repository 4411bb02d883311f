package container

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
)

func newPath(c *PathContainer, pts ...geom.Point) *item.BasicGraphicsPath {
	p := item.NewBasicGraphicsPath(c.NewItemID(), style.Stroke{Width: 2})
	for _, pt := range pts {
		p.AddPoint(pt)
	}
	p.Finalize()
	return p
}

func TestAppendForegroundVisibleAndZOrder(t *testing.T) {
	c := New()
	p1 := newPath(c, geom.Pt(0, 0), geom.Pt(1, 1))
	p2 := newPath(c, geom.Pt(5, 5), geom.Pt(6, 6))
	if err := c.AppendForeground(p1); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendForeground(p2); err != nil {
		t.Fatal(err)
	}
	if !c.Visible(p1.ID()) || !c.Visible(p2.ID()) {
		t.Fatal("both items should be visible")
	}
	order := c.ZOrder()
	if len(order) != 2 || order[0] != p1.ID() || order[1] != p2.ID() {
		t.Fatalf("unexpected z-order: %v", order)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	c := New()
	p := newPath(c, geom.Pt(0, 0), geom.Pt(1, 1))
	if err := c.AppendForeground(p); err != nil {
		t.Fatal(err)
	}
	if !c.Undo() {
		t.Fatal("undo should succeed")
	}
	if c.Visible(p.ID()) {
		t.Fatal("item should be hidden after undo")
	}
	if !c.Redo() {
		t.Fatal("redo should succeed")
	}
	if !c.Visible(p.ID()) {
		t.Fatal("item should be visible after redo")
	}
	c.Undo()
	c.Redo()
	if c.InHistory() != 0 {
		t.Fatalf("cursor should return to 0, got %d", c.InHistory())
	}
}

func TestTruncateHistoryOnNewMutationAfterUndo(t *testing.T) {
	c := New()
	p1 := newPath(c, geom.Pt(0, 0), geom.Pt(1, 1))
	p2 := newPath(c, geom.Pt(2, 2), geom.Pt(3, 3))
	c.AppendForeground(p1)
	c.AppendForeground(p2)
	c.Undo()
	p3 := newPath(c, geom.Pt(4, 4), geom.Pt(5, 5))
	if err := c.AppendForeground(p3); err != nil {
		t.Fatal(err)
	}
	if c.Redo() {
		t.Fatal("redo history should have been truncated")
	}
	if _, ok := c.Get(p2.ID()); ok {
		t.Fatal("truncated step's item should have been released")
	}
	if !c.Visible(p1.ID()) || !c.Visible(p3.ID()) {
		t.Fatal("p1 and p3 should remain visible")
	}
}

func TestRemoveItemsThenUndo(t *testing.T) {
	c := New()
	p := newPath(c, geom.Pt(0, 0), geom.Pt(1, 1))
	c.AppendForeground(p)
	if err := c.RemoveItems([]item.ID{p.ID()}); err != nil {
		t.Fatal(err)
	}
	if c.Visible(p.ID()) {
		t.Fatal("item should be hidden after removal")
	}
	c.Undo()
	if !c.Visible(p.ID()) {
		t.Fatal("item should be visible again after undoing removal")
	}
}

func TestEraserMicroStepSplitsAndFlattens(t *testing.T) {
	c := New()
	p := newPath(c, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0), geom.Pt(30, 0),
		geom.Pt(40, 0), geom.Pt(50, 0), geom.Pt(60, 0))
	c.AppendForeground(p)

	if err := c.StartMicroStep(); err != nil {
		t.Fatal(err)
	}
	if err := c.EraserMicroStep(geom.Pt(30, 0), 1); err != nil {
		t.Fatal(err)
	}
	if c.Visible(p.ID()) {
		t.Fatal("original path should be hidden mid-gesture")
	}
	deleted, err := c.ApplyMicroStep()
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Fatal("apply should report a deletion occurred")
	}
	if c.InHistory() != 0 {
		t.Fatalf("cursor should return to 0 after apply, got %d", c.InHistory())
	}
	if c.Visible(p.ID()) {
		t.Fatal("original path must stay erased after apply")
	}
	var visibleCount int
	for _, it := range c.VisibleItems() {
		if it.Kind() == item.KindGroup {
			t.Fatal("no transient group should remain visible after apply")
		}
		visibleCount++
	}
	if visibleCount == 0 {
		t.Fatal("splitting a long path with a narrow eraser should leave surviving sub-paths")
	}
}

func TestEraserMicroStepOutsideGestureIsRejected(t *testing.T) {
	c := New()
	if err := c.EraserMicroStep(geom.Pt(0, 0), 1); err == nil {
		t.Fatal("expected error calling EraserMicroStep without StartMicroStep")
	}
	if c.InHistory() != 0 {
		t.Fatalf("cursor should self-repair to 0, got %d", c.InHistory())
	}
}

func TestCancelMicroStepRestoresOriginal(t *testing.T) {
	c := New()
	p := newPath(c, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0))
	c.AppendForeground(p)

	c.StartMicroStep()
	c.EraserMicroStep(geom.Pt(10, 0), 1)
	if err := c.CancelMicroStep(); err != nil {
		t.Fatal(err)
	}
	if !c.Visible(p.ID()) {
		t.Fatal("canceling should restore the original path")
	}
}

func TestRefCountReleasedWhenHistoryCleared(t *testing.T) {
	c := New()
	p := newPath(c, geom.Pt(0, 0), geom.Pt(1, 1))
	c.AppendForeground(p)
	c.RemoveItems([]item.ID{p.ID()})
	c.ClearHistory(0)
	if _, ok := c.Get(p.ID()); ok {
		t.Fatal("item should have been released once no step references it")
	}
}

func TestBringToForegroundNoOpWhenAlreadyTop(t *testing.T) {
	c := New()
	p1 := newPath(c, geom.Pt(0, 0), geom.Pt(1, 1))
	p2 := newPath(c, geom.Pt(2, 2), geom.Pt(3, 3))
	c.AppendForeground(p1)
	c.AppendForeground(p2)
	moved, err := c.BringToForeground([]item.ID{p2.ID()})
	if err != nil {
		t.Fatal(err)
	}
	if moved {
		t.Fatal("item already on top should not move")
	}
}

func TestRegistryOverlayCollapsing(t *testing.T) {
	resolve := func(page int) int {
		if page == 3 {
			return 2
		}
		return page
	}
	reg := NewRegistry(OverlayShared, resolve)
	base, existed := reg.Get(2, PartFull)
	if existed {
		t.Fatal("first access should not report existed")
	}
	overlay, existed := reg.Get(3, PartFull)
	if !existed {
		t.Fatal("overlay page should resolve to the already-created base container")
	}
	if base != overlay {
		t.Fatal("overlay and base page should share the same container under OverlayShared")
	}
}

func TestRegistrySeparateModeDoesNotCollapse(t *testing.T) {
	reg := NewRegistry(OverlaySeparate, func(page int) int { return 2 })
	base, _ := reg.Get(2, PartFull)
	other, existed := reg.Get(3, PartFull)
	if existed {
		t.Fatal("separate mode should not merge page 3 into page 2")
	}
	if base == other {
		t.Fatal("separate mode must give page 3 its own container")
	}
}

func TestRegistryPagePartsAreIndependent(t *testing.T) {
	reg := NewRegistry(OverlaySeparate, nil)
	left, _ := reg.Get(1, PartLeft)
	right, _ := reg.Get(1, PartRight)
	if left == right {
		t.Fatal("left and right page-parts of the same page must be distinct containers")
	}
}

func TestStepSnapshotDiff(t *testing.T) {
	c := New()
	p := newPath(c, geom.Pt(0, 0), geom.Pt(1, 1))
	c.AppendForeground(p)
	before := c.ZOrder()
	p2 := newPath(c, geom.Pt(2, 2), geom.Pt(3, 3))
	c.AppendForeground(p2)
	after := c.ZOrder()
	if diff := cmp.Diff(before, after[:1], cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("unexpected prefix diff (-before +after[:1]):\n%s", diff)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 items in z-order, got %d", len(after))
	}
}
