package tool

import (
	"testing"

	"github.com/slidepresenter/engine/geom"
)

func TestDeviceHas(t *testing.T) {
	d := DeviceTabletPen | DeviceTouch
	if !d.Has(DeviceTabletPen) {
		t.Fatal("expected DeviceTabletPen bit set")
	}
	if d.Has(DeviceMouseLeft) {
		t.Fatal("did not expect DeviceMouseLeft bit set")
	}
}

func TestDrawToolIsPressureCapable(t *testing.T) {
	pen := DrawTool{Kind: KindPen, Devices: DeviceTabletPen}
	if !pen.IsPressureCapable(DeviceTabletPen) {
		t.Fatal("pen on tablet pen device should be pressure capable")
	}
	if pen.IsPressureCapable(DeviceMouseLeft) {
		t.Fatal("pen on mouse device should not be pressure capable")
	}
	highlighter := DrawTool{Kind: KindHighlighter, Devices: DeviceTabletPen}
	if highlighter.IsPressureCapable(DeviceTabletPen) {
		t.Fatal("highlighter should never be pressure capable")
	}
}

func TestBindingMaskAcrossToolTypes(t *testing.T) {
	var bindings []Binding
	bindings = append(bindings,
		&DrawTool{Devices: DeviceMouseLeft},
		&PointingTool{Devices: DeviceTabletPen},
		&SelectionTool{Devices: DeviceTouch},
		&TextTool{Devices: DeviceMouseRight},
	)
	want := []Device{DeviceMouseLeft, DeviceTabletPen, DeviceTouch, DeviceMouseRight}
	for i, b := range bindings {
		if b.Mask() != want[i] {
			t.Fatalf("binding %d: got mask %v, want %v", i, b.Mask(), want[i])
		}
	}
}

func TestPointingToolSetPositionGrows(t *testing.T) {
	p := &PointingTool{}
	p.SetPosition(2, geom.Pt(3, 4))
	if len(p.Positions) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(p.Positions))
	}
	if p.Positions[2] != geom.Pt(3, 4) {
		t.Fatalf("slot 2 = %v, want (3,4)", p.Positions[2])
	}
	p.ClearPositions()
	if len(p.Positions) != 0 {
		t.Fatal("expected positions cleared")
	}
}
