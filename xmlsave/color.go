package xmlsave

import (
	"fmt"
	"image/color"
)

// parseRRGGBBAA parses the native save format's `#RRGGBBAA` colour
// attribute (§6's "Persisted annotation state") directly into a
// color.RGBA.
func parseRRGGBBAA(s string) (color.RGBA, error) {
	if len(s) != 9 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("xmlsave: malformed color %q, want #RRGGBBAA", s)
	}
	var r, g, b, a uint8
	if _, err := fmt.Sscanf(s[1:3], "%02x", &r); err != nil {
		return color.RGBA{}, err
	}
	if _, err := fmt.Sscanf(s[3:5], "%02x", &g); err != nil {
		return color.RGBA{}, err
	}
	if _, err := fmt.Sscanf(s[5:7], "%02x", &b); err != nil {
		return color.RGBA{}, err
	}
	if _, err := fmt.Sscanf(s[7:9], "%02x", &a); err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// formatRRGGBBAA writes c in the native save format's colour attribute
// convention.
func formatRRGGBBAA(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// formatAARRGGBB writes c alpha-first (#AARRGGBB), the order of the
// original BeamerPresenter's QColor-backed settings format.
func formatAARRGGBB(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// swapRRGGBBAAtoAARRGGBB converts a 9-character "#RRGGBBAA" hex string
// to "#AARRGGBB" by moving its trailing alpha pair to immediately
// follow the leading '#'. This is the literal transform
// pathoverlay.cpp's loadXournal applies to convert Xournal's on-disk
// colour order into the alpha-first order that parseXournalColor
// passes through.
func swapRRGGBBAAtoAARRGGBB(s string) (string, bool) {
	if len(s) != 9 || s[0] != '#' {
		return "", false
	}
	return "#" + s[7:9] + s[1:7], true
}

// swapAARRGGBBtoRRGGBBAA is the inverse of swapRRGGBBAAtoAARRGGBB,
// used when exporting to a Xournal-compatible file (saveXournal's
// counterpart transform).
func swapAARRGGBBtoRRGGBBAA(s string) (string, bool) {
	if len(s) != 9 || s[0] != '#' {
		return "", false
	}
	return "#" + s[3:9] + s[1:3], true
}

// parseXournalColor parses a Xournal/Xournal++ stroke or text color
// attribute (on-disk order `#RRGGBBAA`) into a color.RGBA, going
// through this engine's internal `#AARRGGBB` order the way
// loadXournal's QColor construction did.
func parseXournalColor(s string) (color.RGBA, error) {
	internal, ok := swapRRGGBBAAtoAARRGGBB(s)
	if !ok {
		return color.RGBA{}, fmt.Errorf("xmlsave: malformed xournal color %q", s)
	}
	var a, r, g, b uint8
	if _, err := fmt.Sscanf(internal[1:3], "%02x", &a); err != nil {
		return color.RGBA{}, err
	}
	if _, err := fmt.Sscanf(internal[3:5], "%02x", &r); err != nil {
		return color.RGBA{}, err
	}
	if _, err := fmt.Sscanf(internal[5:7], "%02x", &g); err != nil {
		return color.RGBA{}, err
	}
	if _, err := fmt.Sscanf(internal[7:9], "%02x", &b); err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// formatXournalColor writes c as a Xournal-compatible `#RRGGBBAA`
// string, going through the internal `#AARRGGBB` order and swapping,
// mirroring saveXournal.
func formatXournalColor(c color.RGBA) string {
	internal := formatAARRGGBB(c)
	disk, _ := swapAARRGGBBtoRRGGBBAA(internal)
	return disk
}
