package config

import (
	"strings"
	"testing"

	"github.com/slidepresenter/engine/container"
	"github.com/slidepresenter/engine/tool"
)

func TestDefaultMatchesOriginalConstants(t *testing.T) {
	c := Default()
	if c.Thresholds.LineSensitivity != 0.005 {
		t.Errorf("LineSensitivity = %v, want 0.005", c.Thresholds.LineSensitivity)
	}
	if c.OverlayMode != container.OverlayShared {
		t.Errorf("OverlayMode = %v, want OverlayShared (Cumulative default)", c.OverlayMode)
	}
	if c.PathMinSelectableWidth != 3 {
		t.Errorf("PathMinSelectableWidth = %v, want 3", c.PathMinSelectableWidth)
	}
}

func TestDecodeOverridesOnlyPresentKeys(t *testing.T) {
	yamlDoc := `
drawing:
  mode: separate
  line_sensitivity: 0.02
  finalize_drawn_paths: true
rendering:
  page_part_threshold: 3.5
cache:
  max_cache_pages: 40
`
	c, err := decode(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.OverlayMode != container.OverlaySeparate {
		t.Errorf("OverlayMode = %v, want OverlaySeparate", c.OverlayMode)
	}
	if c.Thresholds.LineSensitivity != 0.02 {
		t.Errorf("LineSensitivity = %v, want 0.02", c.Thresholds.LineSensitivity)
	}
	if !c.FinalizeDrawnPaths {
		t.Errorf("FinalizeDrawnPaths = false, want true")
	}
	if c.PagePartThreshold != 3.5 {
		t.Errorf("PagePartThreshold = %v, want 3.5", c.PagePartThreshold)
	}
	if c.MaxCachePages != 40 {
		t.Errorf("MaxCachePages = %v, want 40", c.MaxCachePages)
	}
	// Untouched defaults survive.
	if c.Thresholds.SnapAngle != 0.06 {
		t.Errorf("SnapAngle = %v, want default 0.06", c.Thresholds.SnapAngle)
	}
}

func TestDecodeIgnoresOutOfRangeThreshold(t *testing.T) {
	yamlDoc := `
drawing:
  line_sensitivity: 5
`
	c, err := decode(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Thresholds.LineSensitivity != 0.005 {
		t.Errorf("LineSensitivity = %v, want unchanged default 0.005", c.Thresholds.LineSensitivity)
	}
}

func TestParseDebugFlagRecognizesOriginalCategories(t *testing.T) {
	cases := map[string]DebugFlag{
		"drawing":  DebugDrawing,
		"debug media": DebugMedia,
		"verbose":  DebugVerbose,
		"bogus":    0,
	}
	for in, want := range cases {
		if got := ParseDebugFlag(in); got != want {
			t.Errorf("ParseDebugFlag(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDebugFlagHasRequiresAllBits(t *testing.T) {
	f := DebugDrawing | DebugVerbose
	if !f.Has(DebugDrawing | DebugVerbose) {
		t.Errorf("expected Has to report both bits set")
	}
	if f.Has(DebugMedia) {
		t.Errorf("expected Has to reject an unset bit")
	}
}

func TestParseActionsDropsUnknownNames(t *testing.T) {
	got := parseActions([]string{"Next", "bogus-action", "undo"})
	if len(got) != 2 || got[0] != "next" || got[1] != "undo" {
		t.Fatalf("parseActions = %v", got)
	}
}

func TestBuildToolPen(t *testing.T) {
	b, ok := BuildTool(ToolDefinition{Tool: "pen", Color: "#ff0000ff", Width: 2, Device: "tablet pen"})
	if !ok {
		t.Fatalf("BuildTool returned ok=false")
	}
	dt, ok := b.(tool.DrawTool)
	if !ok {
		t.Fatalf("BuildTool(pen) = %T, want tool.DrawTool", b)
	}
	if dt.Stroke.Width != 2 || dt.Devices != tool.DeviceTabletPen {
		t.Errorf("BuildTool(pen) = %+v", dt)
	}
}

func TestBuildToolRejectsUnknownKind(t *testing.T) {
	if _, ok := BuildTool(ToolDefinition{Tool: "teleporter"}); ok {
		t.Fatalf("expected BuildTool to reject an unrecognized tool name")
	}
}

func TestBuildToolRejectsNonPositiveWidth(t *testing.T) {
	if _, ok := BuildTool(ToolDefinition{Tool: "pen", Width: -1}); ok {
		t.Fatalf("expected BuildTool to reject a non-positive pen width")
	}
}

func TestParseHexColorSupportsEightAndSixDigitForms(t *testing.T) {
	c, ok := parseHexColor("#11223344")
	if !ok || c.R != 0x11 || c.A != 0x44 {
		t.Fatalf("parseHexColor(8-digit) = %v, %v", c, ok)
	}
	c, ok = parseHexColor("#112233")
	if !ok || c.A != 255 {
		t.Fatalf("parseHexColor(6-digit) = %v, %v", c, ok)
	}
}
