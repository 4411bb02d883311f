package item

import (
	"image/color"

	"github.com/slidepresenter/engine/geom"
)

// TextGraphicsItem is an editable text run. An empty Text is a
// placeholder meaning "delete me": the container removes it from the
// scene once editing ends, per §3.
type TextGraphicsItem struct {
	base
	run TextRun
}

func NewTextGraphicsItem(id ID, font Font, color color.RGBA) *TextGraphicsItem {
	return &TextGraphicsItem{base: base{id: id, selectable: true}, run: TextRun{Font: font, Color: color}}
}

func (t *TextGraphicsItem) Kind() Kind { return KindText }

func (t *TextGraphicsItem) Text() string       { return t.run.Text }
func (t *TextGraphicsItem) SetText(s string)   { t.run.Text = s }
func (t *TextGraphicsItem) Font() Font         { return t.run.Font }
func (t *TextGraphicsItem) SetFont(f Font)     { t.run.Font = f }
func (t *TextGraphicsItem) Color() color.RGBA  { return t.run.Color }
func (t *TextGraphicsItem) SetColor(c color.RGBA) { t.run.Color = c }

// IsPlaceholder reports whether the item's text is empty and should
// therefore be deleted instead of kept on the slide.
func (t *TextGraphicsItem) IsPlaceholder() bool { return t.run.Text == "" }

// approxGlyphWidth is a crude metric used only to size the bounding
// rect; real shaping belongs to the external text-layout collaborator
// the Non-goals exclude.
const approxGlyphWidth = 0.6

func (t *TextGraphicsItem) BoundingRect() geom.Rectangle {
	w := float32(len(t.run.Text)) * t.run.Font.PointSize * approxGlyphWidth
	h := t.run.Font.PointSize * 1.3
	if w == 0 {
		w = t.run.Font.PointSize
	}
	return geom.Rectangle{Min: geom.Pt(0, 0), Max: geom.Pt(w, h)}
}

func (t *TextGraphicsItem) Shape() []geom.Point {
	r := t.BoundingRect()
	return []geom.Point{{X: r.Min.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Max.Y}, {X: r.Min.X, Y: r.Max.Y}}
}

func (t *TextGraphicsItem) Paint(p Painter) { p.Text(&t.run) }
func (t *TextGraphicsItem) Copy() Item      { cp := *t; return &cp }
