package xmlsave

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/slidepresenter/engine/container"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
)

func newIDFunc() func() item.ID {
	var n uint64
	return func() item.ID {
		n++
		return item.ID(n)
	}
}

func TestRRGGBBAARoundTrip(t *testing.T) {
	c := color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}
	s := formatRRGGBBAA(c)
	if s != "#11223344" {
		t.Fatalf("formatRRGGBBAA = %q", s)
	}
	got, err := parseRRGGBBAA(s)
	if err != nil || got != c {
		t.Fatalf("parseRRGGBBAA(%q) = %v, %v, want %v", s, got, err, c)
	}
}

func TestSwapRoundTrip(t *testing.T) {
	rrggbbaa := "#11223344"
	aarrggbb, ok := swapRRGGBBAAtoAARRGGBB(rrggbbaa)
	if !ok || aarrggbb != "#44112233" {
		t.Fatalf("swapRRGGBBAAtoAARRGGBB = %q, %v", aarrggbb, ok)
	}
	back, ok := swapAARRGGBBtoRRGGBBAA(aarrggbb)
	if !ok || back != rrggbbaa {
		t.Fatalf("round trip = %q, want %q", back, rrggbbaa)
	}
}

func TestParseXournalColorMatchesOriginalAlgorithm(t *testing.T) {
	// Xournal on-disk order is RRGGBBAA; original's loadXournal converts
	// it to AARRGGBB for QColor. Both orderings must resolve to the same
	// channel values.
	c, err := parseXournalColor("#aabbccdd")
	if err != nil {
		t.Fatalf("parseXournalColor: %v", err)
	}
	want := color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xdd}
	if c != want {
		t.Fatalf("parseXournalColor = %v, want %v", c, want)
	}
}

func TestFormatXournalColorInvertsParse(t *testing.T) {
	c := color.RGBA{R: 0x01, G: 0x02, B: 0x03, A: 0x04}
	s := formatXournalColor(c)
	got, err := parseXournalColor(s)
	if err != nil || got != c {
		t.Fatalf("round trip through formatXournalColor/parseXournalColor = %v, %v, want %v", got, err, c)
	}
}

func buildContainerWithStrokeAndText(reg *container.Registry, newID func() item.ID) {
	c, _ := reg.Get(0, container.PartFull)
	path := item.NewBasicGraphicsPath(newID(), style.Stroke{Color: color.RGBA{R: 255, A: 255}, Width: 2})
	path.AddPoint(geom.Pt(0, 0))
	path.AddPoint(geom.Pt(10, 10))
	path.Finalize()
	txt := item.NewTextGraphicsItem(newID(), item.Font{Family: "sans", PointSize: 12}, color.RGBA{B: 255, A: 255})
	txt.SetText("hello")
	c.AddPathsForeground([]item.Item{path, txt})
}

func TestWriteReadRegistryRoundTripsZOrder(t *testing.T) {
	newID := newIDFunc()
	reg := container.NewRegistry(container.OverlaySeparate, nil)
	buildContainerWithStrokeAndText(reg, newID)

	var buf bytes.Buffer
	if err := WriteRegistry(&buf, reg); err != nil {
		t.Fatalf("WriteRegistry: %v", err)
	}

	reg2 := container.NewRegistry(container.OverlaySeparate, nil)
	newID2 := newIDFunc()
	if err := ReadRegistry(strings.NewReader(buf.String()), reg2, newID2); err != nil {
		t.Fatalf("ReadRegistry: %v", err)
	}
	c2, existed := reg2.Get(0, container.PartFull)
	if !existed {
		t.Fatalf("expected page 0 to be populated")
	}
	items := c2.VisibleItems()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Kind() != item.KindBasicPath {
		t.Errorf("item 0 kind = %v, want KindBasicPath (z-order preserved)", items[0].Kind())
	}
	if items[1].Kind() != item.KindText {
		t.Errorf("item 1 kind = %v, want KindText (z-order preserved)", items[1].Kind())
	}
}

func TestWriteReadRegistryPreservesVariableWidthPath(t *testing.T) {
	newID := newIDFunc()
	reg := container.NewRegistry(container.OverlaySeparate, nil)
	c, _ := reg.Get(2, container.PartFull)
	full := item.NewFullGraphicsPath(newID(), style.Stroke{Color: color.RGBA{G: 255, A: 255}, Width: 3})
	full.AddPointPressure(geom.Pt(0, 0), 1)
	full.AddPointPressure(geom.Pt(5, 5), 0.5)
	full.AddPointPressure(geom.Pt(10, 0), 1)
	full.Finalize()
	c.AddPathsForeground([]item.Item{full})

	var buf bytes.Buffer
	if err := WriteRegistry(&buf, reg); err != nil {
		t.Fatalf("WriteRegistry: %v", err)
	}

	reg2 := container.NewRegistry(container.OverlaySeparate, nil)
	if err := ReadRegistry(strings.NewReader(buf.String()), reg2, newIDFunc()); err != nil {
		t.Fatalf("ReadRegistry: %v", err)
	}
	c2, _ := reg2.Get(2, container.PartFull)
	items := c2.VisibleItems()
	if len(items) != 1 || items[0].Kind() != item.KindFullPath {
		t.Fatalf("expected one FullGraphicsPath, got %v", items)
	}
}

func TestLoadXournalParsesBackgroundPagenoAndStroke(t *testing.T) {
	xmlData := `<xournal creator="Xournal++">
  <page width="612" height="792">
    <background type="pdf" pageno="2ll"/>
    <layer>
      <stroke tool="pen" color="#ff0000ff" width="1.5">0 0 10 10 20 0</stroke>
      <stroke tool="eraser" color="#ff0000ff" width="1.5">0 0 1 1</stroke>
    </layer>
  </page>
</xournal>`
	pages, err := LoadXournal(strings.NewReader(xmlData), newIDFunc())
	if err != nil {
		t.Fatalf("LoadXournal: %v", err)
	}
	items, ok := pages[1]
	if !ok {
		t.Fatalf("expected page index 1 (pageno 2 - 1), got pages %v", pages)
	}
	if len(items) != 1 {
		t.Fatalf("expected the eraser stroke to be skipped, got %d items", len(items))
	}
}
