// Package config implements the read-only settings store of §6: a
// single YAML document covering paths, debug flags, recognizer
// thresholds, history lengths, overlay mode, cache limits, selection
// geometry, tool defaults per input device, and key/gesture bindings.
// It is grounded throughout on original_source's src/preferences.cpp
// loadSettings, which reads the equivalent values from a QSettings INI
// file section by section; this port reads one YAML document instead,
// since the engine has no QSettings equivalent in the pack, but keeps
// the same groups, defaults and validation ranges.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/slidepresenter/engine/container"
	"github.com/slidepresenter/engine/recognize"
)

// Config is the fully-resolved, read-only settings store. Zero value
// is not meaningful; construct via Default() or Load.
type Config struct {
	// General
	GUIConfigFile string `yaml:"gui_config_file"`
	IconTheme     string `yaml:"icon_theme"`
	Debug         DebugFlag

	// Drawing / recognition, sourced into recognize.Thresholds.
	Thresholds                  recognize.Thresholds
	HistoryLengthVisibleSlides   int  `yaml:"history_length_visible_slides"`
	HistoryLengthHiddenSlides    int  `yaml:"history_length_hidden_slides"`
	OverlayMode                  container.OverlayMode
	FinalizeDrawnPaths           bool `yaml:"finalize_drawn_paths"`
	PathMinSelectableWidth       float32 `yaml:"path_min_selectable_width"`
	SelectionRectHandleSize      float32 `yaml:"selection_rect_handle_size"`

	// Rendering / cache
	PagePartThreshold float32 `yaml:"page_part_threshold"`
	RendererName      string  `yaml:"renderer"`
	MaxMemory         int64   `yaml:"max_memory"`
	MaxCachePages     int     `yaml:"max_cache_pages"`

	// Interaction
	Tools    []ToolDefinition            `yaml:"-"`
	KeyBindings    map[string][]Action        `yaml:"-"`
	GestureBindings map[string][]Action       `yaml:"-"`
}

// rawConfig mirrors the on-disk YAML layout, grouped the way
// preferences.cpp's loadSettings groups its QSettings sections
// ("drawing", "rendering", "tools", "keys", "gestures"); Config itself
// stays flat because every other package consumes its fields
// individually (recognize.Thresholds, container.OverlayMode, ...).
type rawConfig struct {
	General struct {
		GUIConfigFile string `yaml:"gui_config_file"`
		IconTheme     string `yaml:"icon_theme"`
		Debug         []string `yaml:"debug"`
	} `yaml:"general"`
	Drawing struct {
		HistoryLengthVisibleSlides int     `yaml:"history_length_visible_slides"`
		HistoryLengthHiddenSlides  int     `yaml:"history_length_hidden_slides"`
		Mode                       string  `yaml:"mode"`
		LineSensitivity            float32 `yaml:"line_sensitivity"`
		SnapAngle                  float32 `yaml:"snap_angle"`
		EllipseSensitivity         float32 `yaml:"ellipse_sensitivity"`
		EllipseToCircleSnap        float32 `yaml:"ellipse_to_circle_snapping"`
		RectAngleTolerance         float32 `yaml:"rect_angle_tolerance"`
		RectClosingTolerance       float32 `yaml:"rect_closing_tolerance"`
		FinalizeDrawnPaths         bool    `yaml:"finalize_drawn_paths"`
		PathMinSelectableWidth     float32 `yaml:"path_min_selectable_width"`
		SelectionRectHandleSize    float32 `yaml:"selection_rect_handle_size"`
	} `yaml:"drawing"`
	Rendering struct {
		PagePartThreshold float32 `yaml:"page_part_threshold"`
		Renderer          string  `yaml:"renderer"`
	} `yaml:"rendering"`
	Cache struct {
		MaxMemory     int64 `yaml:"max_memory"`
		MaxCachePages int   `yaml:"max_cache_pages"`
	} `yaml:"cache"`
	Tools    map[string][]rawToolEntry `yaml:"tools"`
	Keys     map[string][]string       `yaml:"keys"`
	Gestures map[string][]string       `yaml:"gestures"`
}

// Default returns the settings a fresh install has before any config
// file is read, matching the constants preferences.cpp falls back to
// when a QSettings key is absent (recognize.DefaultThresholds,
// history lengths, handle size, ...).
func Default() *Config {
	return &Config{
		GUIConfigFile:              "",
		Thresholds:                 recognize.DefaultThresholds(),
		HistoryLengthVisibleSlides: 20,
		HistoryLengthHiddenSlides:  5,
		OverlayMode:                container.OverlayShared,
		FinalizeDrawnPaths:         false,
		PathMinSelectableWidth:     3,
		SelectionRectHandleSize:    6,
		PagePartThreshold:          2.9,
		RendererName:               "mupdf",
		MaxMemory:                  200 << 20,
		MaxCachePages:              0,
		KeyBindings:                map[string][]Action{},
		GestureBindings:            map[string][]Action{},
	}
}

// Load reads and validates a YAML settings file, starting from
// Default() and overriding only the keys present in the document, the
// same "only override if valid and in range" policy loadSettings
// applies value by value.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: opening settings file")
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "config: reading settings file")
	}
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "config: parsing settings YAML")
	}
	c := Default()
	applyGeneral(c, &raw)
	applyDrawing(c, &raw)
	applyRendering(c, &raw)
	applyCache(c, &raw)
	if err := applyTools(c, &raw); err != nil {
		return nil, err
	}
	applyKeys(c, &raw)
	applyGestures(c, &raw)
	return c, nil
}

func applyGeneral(c *Config, raw *rawConfig) {
	if raw.General.GUIConfigFile != "" {
		c.GUIConfigFile = raw.General.GUIConfigFile
	}
	if raw.General.IconTheme != "" {
		c.IconTheme = raw.General.IconTheme
	}
	for _, flag := range raw.General.Debug {
		c.Debug |= ParseDebugFlag(flag)
	}
}

// inRange mirrors loadSettings's "if (ok && lo < num && num < hi)"
// guard for each recognizer threshold: zero (the YAML zero value for
// an absent key) never overrides the default.
func inRange(v, lo, hi float32) bool { return v > lo && v < hi }

func applyDrawing(c *Config, raw *rawConfig) {
	d := raw.Drawing
	if d.HistoryLengthVisibleSlides > 0 {
		c.HistoryLengthVisibleSlides = d.HistoryLengthVisibleSlides
	}
	if d.HistoryLengthHiddenSlides > 0 {
		c.HistoryLengthHiddenSlides = d.HistoryLengthHiddenSlides
	}
	switch d.Mode {
	case "separate":
		c.OverlayMode = container.OverlaySeparate
	case "cumulative", "shared":
		c.OverlayMode = container.OverlayShared
	}
	if inRange(d.LineSensitivity, 0, 0.1) {
		c.Thresholds.LineSensitivity = d.LineSensitivity
	}
	if inRange(d.SnapAngle, 0, 0.5) {
		c.Thresholds.SnapAngle = d.SnapAngle
	}
	if inRange(d.EllipseSensitivity, 0, 0.5) {
		c.Thresholds.EllipseSensitivity = d.EllipseSensitivity
	}
	if inRange(d.EllipseToCircleSnap, 0, 0.5) {
		c.Thresholds.EllipseToCircleSnap = d.EllipseToCircleSnap
	}
	if inRange(d.RectAngleTolerance, 0, 3) {
		c.Thresholds.RectAngleTolerance = d.RectAngleTolerance
	}
	if inRange(d.RectClosingTolerance, 0, 2) {
		c.Thresholds.RectClosingTolerance = d.RectClosingTolerance
	}
	c.FinalizeDrawnPaths = d.FinalizeDrawnPaths
	if d.PathMinSelectableWidth > 0 {
		c.PathMinSelectableWidth = d.PathMinSelectableWidth
	}
	if d.SelectionRectHandleSize > 0 {
		c.SelectionRectHandleSize = d.SelectionRectHandleSize
	}
}

func applyRendering(c *Config, raw *rawConfig) {
	if raw.Rendering.PagePartThreshold > 0 {
		c.PagePartThreshold = raw.Rendering.PagePartThreshold
	}
	if raw.Rendering.Renderer != "" {
		c.RendererName = raw.Rendering.Renderer
	}
}

func applyCache(c *Config, raw *rawConfig) {
	if raw.Cache.MaxMemory > 0 {
		c.MaxMemory = raw.Cache.MaxMemory
	}
	if raw.Cache.MaxCachePages != 0 {
		c.MaxCachePages = raw.Cache.MaxCachePages
	}
}

func applyKeys(c *Config, raw *rawConfig) {
	for seq, names := range raw.Keys {
		c.KeyBindings[seq] = parseActions(names)
	}
}

func applyGestures(c *Config, raw *rawConfig) {
	for gesture, names := range raw.Gestures {
		c.GestureBindings[gesture] = parseActions(names)
	}
}
