package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
	"github.com/slidepresenter/engine/tool"
)

// Action names one key or gesture binding's effect (advance slide,
// toggle overview, ...). The engine's action set lives outside this
// package's scope (no GUI/controller package exists here; §1 treats
// the controller as an external collaborator), so Action is kept as a
// plain validated string rather than a typed enum with no consumer.
type Action string

var knownActions = map[string]Action{
	"next":              "next",
	"previous":          "previous",
	"first":             "first",
	"last":              "last",
	"update":            "update",
	"reload":            "reload",
	"undo":              "undo",
	"redo":              "redo",
	"clear annotations": "clear_annotations",
	"fullscreen":        "fullscreen",
	"quit":              "quit",
}

// parseActions maps the settings-file string list under a key or
// gesture entry to Actions, dropping (and silently ignoring) any name
// not in knownActions, mirroring parseActionsTools's
// "string_to_action_map.value(..., InvalidAction)" unknown-action
// warning-and-skip behavior (logged via config callers, not here,
// since this package does no I/O of its own besides YAML decode).
func parseActions(names []string) []Action {
	var out []Action
	for _, n := range names {
		if a, ok := knownActions[strings.ToLower(strings.TrimSpace(n))]; ok {
			out = append(out, a)
		}
	}
	return out
}

// rawToolEntry is one YAML list entry under a device's "tools" key:
// either a plain tool definition, or a bare action name (a device can
// be bound to run an action instead of selecting a tool, per
// parseActionsTools's mixed string/object array).
type rawToolEntry struct {
	Action string `yaml:"action"`
	ToolDefinition `yaml:",inline"`
}

// ToolDefinition is the YAML shape of one tool, mirroring createTool's
// QJsonObject fields (tool kind, color, width, style, fill, font,
// size, scale).
type ToolDefinition struct {
	Tool   string  `yaml:"tool"`
	Color  string  `yaml:"color"`
	Width  float32 `yaml:"width"`
	Style  string  `yaml:"style"`
	Fill   string  `yaml:"fill"`
	Font   string  `yaml:"font"`
	Size   float32 `yaml:"size"`
	Scale  float32 `yaml:"scale"`
	Device string  `yaml:"device"`
}

var stringToToolKind = map[string]tool.Kind{
	"pen":             tool.KindPen,
	"fixedwidthpen":   tool.KindFixedWidthPen,
	"highlighter":     tool.KindHighlighter,
	"eraser":          tool.KindEraser,
	"pointer":         tool.KindPointer,
	"torch":           tool.KindTorch,
	"magnifier":       tool.KindMagnifier,
	"text":            tool.KindTextInput,
}

var stringToPenStyle = map[string]style.Pattern{
	"solidline": style.SolidLine,
	"dashline":  style.DashLine,
	"dotline":   style.DotLine,
	"dashdotline": style.DashDotLine,
}

var stringToDevice = map[string]tool.Device{
	"mouse left button":   tool.DeviceMouseLeft,
	"mouse right button":  tool.DeviceMouseRight,
	"mouse middle button": tool.DeviceMouseMiddle,
	"tablet pen":          tool.DeviceTabletPen,
	"tablet eraser":       tool.DeviceTabletEraser,
	"tablet cursor":       tool.DeviceTabletCursor,
	"tablet hover":        tool.DeviceTabletHover,
	"touch":               tool.DeviceTouch,
}

// applyTools decodes raw.Tools into c.Tools, skipping (not erroring
// on) any entry whose tool kind is unrecognized or whose numeric
// fields are out of range, matching createTool's "return NULL" /
// "tool = new Tool(...)" fallback-and-continue behavior rather than
// failing the whole load over one bad entry.
func applyTools(c *Config, raw *rawConfig) error {
	for device, entries := range raw.Tools {
		for _, e := range entries {
			if e.Action != "" {
				c.KeyBindings[device] = append(c.KeyBindings[device], Action(e.Action))
				continue
			}
			def := e.ToolDefinition
			def.Device = device
			if _, ok := BuildTool(def); !ok {
				continue
			}
			c.Tools = append(c.Tools, def)
		}
	}
	return nil
}

// parseColor parses a "#RRGGBBAA" or "#RRGGBB" hex color the way the
// rest of this engine's tool colors are represented; createTool's
// QColor constructor additionally accepts CSS names ("black",
// "yellow", ...), of which this port carries only black, white, red
// and yellow — any other name falls back to black.
func parseColor(s string) color.RGBA {
	if c, ok := parseHexColor(s); ok {
		return c
	}
	if c, named := cssColorNames[strings.ToLower(s)]; named {
		return c
	}
	return color.RGBA{A: 255}
}

var cssColorNames = map[string]color.RGBA{
	"black":  {A: 255},
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"red":    {R: 255, A: 255},
	"yellow": {R: 255, G: 255, A: 255},
}

func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) == 9 && s[0] == '#' {
		var r, g, b, a uint8
		if _, err := fmt.Sscanf(s[1:3], "%02x", &r); err != nil {
			return color.RGBA{}, false
		}
		if _, err := fmt.Sscanf(s[3:5], "%02x", &g); err != nil {
			return color.RGBA{}, false
		}
		if _, err := fmt.Sscanf(s[5:7], "%02x", &b); err != nil {
			return color.RGBA{}, false
		}
		if _, err := fmt.Sscanf(s[7:9], "%02x", &a); err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r, G: g, B: b, A: a}, true
	}
	if len(s) == 7 && s[0] == '#' {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s[1:3], "%02x", &r); err != nil {
			return color.RGBA{}, false
		}
		if _, err := fmt.Sscanf(s[3:5], "%02x", &g); err != nil {
			return color.RGBA{}, false
		}
		if _, err := fmt.Sscanf(s[5:7], "%02x", &b); err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, true
	}
	return color.RGBA{}, false
}

// BuildTool constructs the runtime tool.Binding a ToolDefinition
// describes, the Go equivalent of createTool. An unrecognized tool
// name, or a non-positive size/width where the original treats that
// as invalid, returns (nil, false) rather than an error, since
// createTool itself just skips the entry (returns NULL) instead of
// failing the whole settings load.
func BuildTool(def ToolDefinition) (tool.Binding, bool) {
	kind, ok := stringToToolKind[strings.ToLower(def.Tool)]
	if !ok {
		return nil, false
	}
	dev := stringToDevice[strings.ToLower(def.Device)]
	switch kind {
	case tool.KindPen, tool.KindFixedWidthPen, tool.KindHighlighter:
		width := def.Width
		if width == 0 {
			width = 2
		}
		if width <= 0 {
			return nil, false
		}
		comp := style.SourceOver
		if kind == tool.KindHighlighter {
			comp = style.Darken
		}
		var fill style.Brush
		if def.Fill != "" {
			fill = style.Brush{Color: parseColor(def.Fill), Valid: true}
		}
		return tool.DrawTool{
			Kind:    kind,
			Devices: dev,
			Stroke: style.Stroke{
				Color:       parseColor(def.Color),
				Width:       width,
				Pattern:     stringToPenStyle[strings.ToLower(def.Style)],
				Cap:         style.RoundCap,
				Join:        style.RoundJoin,
				Fill:        fill,
				Composition: comp,
			},
		}, true
	case tool.KindEraser, tool.KindPointer, tool.KindTorch, tool.KindMagnifier:
		size := def.Size
		if size == 0 {
			size = 10
		}
		if size <= 0 {
			return nil, false
		}
		scale := def.Scale
		if kind == tool.KindMagnifier {
			if scale == 0 {
				scale = 2
			}
			switch {
			case scale < 0.1:
				scale = 0.1
			case scale > 10:
				scale = 5
			}
		}
		return &tool.PointingTool{
			Kind:    kind,
			Devices: dev,
			Color:   parseColor(def.Color),
			Radius:  size,
			Scale:   scale,
		}, true
	case tool.KindTextInput:
		return tool.TextTool{
			Kind:    kind,
			Devices: dev,
			Font:    item.Font{Family: def.Font, PointSize: pointSizeOrDefault(def.Size)},
			Color:   parseColor(def.Color),
		}, true
	}
	return nil, false
}

func pointSizeOrDefault(size float32) float32 {
	if size <= 0 {
		return 12
	}
	return size
}
