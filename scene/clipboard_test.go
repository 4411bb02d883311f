package scene

import (
	"testing"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
)

func TestCopyProducesNativeBlobSortedByZ(t *testing.T) {
	s, c := newTestScene()
	first := item.NewBasicGraphicsPath(c.NewItemID(), style.Stroke{Width: 1})
	first.AddPoint(geom.Pt(0, 0))
	first.AddPoint(geom.Pt(1, 1))
	first.Finalize()

	second := item.NewBasicGraphicsPath(c.NewItemID(), style.Stroke{Width: 2})
	second.AddPoint(geom.Pt(2, 2))
	second.AddPoint(geom.Pt(3, 3))
	second.Finalize()

	if err := c.AppendForeground(first); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendForeground(second); err != nil {
		t.Fatal(err)
	}
	// second was appended later so it starts on top; push it behind
	// first so the copy's z-sort has to do real work.
	if err := c.BringToBackground([]item.ID{second.ID()}); err != nil {
		t.Fatal(err)
	}
	back, front := second, first
	s.Overlay.Items = []item.ID{back.ID(), front.ID()}

	cb, err := s.Copy(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cb.Native) == 0 {
		t.Fatal("expected a non-empty native blob")
	}

	nextID := item.ID(100)
	decoded, err := decodeNative(cb.Native, func() item.ID { nextID++; return nextID })
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 decoded items, got %d", len(decoded))
	}
	if decoded[0].Z() >= decoded[1].Z() {
		t.Fatalf("expected items ordered by ascending z, got z=%v then z=%v", decoded[0].Z(), decoded[1].Z())
	}
}

func TestCopyEmptySelectionReturnsEmptyClipboard(t *testing.T) {
	s, _ := newTestScene()
	cb, err := s.Copy(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cb.Native) != 0 {
		t.Fatal("expected empty clipboard for empty selection")
	}
}

func TestPasteNativeAddsItemsAndSelectsThem(t *testing.T) {
	s, c := newTestScene()
	p := item.NewBasicGraphicsPath(c.NewItemID(), style.Stroke{Width: 1})
	p.AddPoint(geom.Pt(0, 0))
	p.AddPoint(geom.Pt(5, 5))
	p.Finalize()
	if err := c.AppendForeground(p); err != nil {
		t.Fatal(err)
	}
	s.Overlay.Items = []item.ID{p.ID()}
	cb, err := s.Copy(nil)
	if err != nil {
		t.Fatal(err)
	}

	slideRect := geom.Rectangle{Min: geom.Pt(0, 0), Max: geom.Pt(1000, 1000)}
	if err := s.Paste(cb, slideRect, nil); err != nil {
		t.Fatal(err)
	}
	if len(c.VisibleItems()) != 2 {
		t.Fatalf("expected original plus pasted item, got %d visible", len(c.VisibleItems()))
	}
	if len(s.Overlay.Items) != 1 {
		t.Fatalf("expected pasted item selected, got %d selected", len(s.Overlay.Items))
	}
}

func TestPasteShiftsSelectionIntoSlideRect(t *testing.T) {
	s, c := newTestScene()
	p := item.NewBasicGraphicsPath(c.NewItemID(), style.Stroke{Width: 1})
	p.AddPoint(geom.Pt(-50, -50))
	p.AddPoint(geom.Pt(-40, -40))
	p.Finalize()
	if err := c.AppendForeground(p); err != nil {
		t.Fatal(err)
	}
	s.Overlay.Items = []item.ID{p.ID()}
	cb, err := s.Copy(nil)
	if err != nil {
		t.Fatal(err)
	}

	slideRect := geom.Rectangle{Min: geom.Pt(0, 0), Max: geom.Pt(1000, 1000)}
	if err := s.Paste(cb, slideRect, nil); err != nil {
		t.Fatal(err)
	}
	pastedID := s.Overlay.Items[0]
	pasted, ok := c.Get(pastedID)
	if !ok {
		t.Fatal("expected pasted item to exist")
	}
	bounds := item.SceneBoundingRect(pasted)
	if bounds.Min.X < 0 || bounds.Min.Y < 0 {
		t.Fatalf("expected pasted item shifted into the slide rect, got bounds %v", bounds)
	}
}
