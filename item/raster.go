package item

import (
	"image"

	"github.com/slidepresenter/engine/geom"
)

// GraphicsPictureItem is an immutable vector-image (SVG-sourced)
// raster carrier; pasted clipboard SVG content is wrapped in one of
// these, per §4.5's clipboard paste fallback order.
type GraphicsPictureItem struct {
	base
	img   image.Image
	bounds geom.Rectangle
}

func NewGraphicsPictureItem(id ID, img image.Image, bounds geom.Rectangle) *GraphicsPictureItem {
	return &GraphicsPictureItem{base: base{id: id, selectable: true}, img: img, bounds: bounds}
}

func (g *GraphicsPictureItem) Kind() Kind                  { return KindPicture }
func (g *GraphicsPictureItem) BoundingRect() geom.Rectangle { return g.bounds }
func (g *GraphicsPictureItem) Shape() []geom.Point {
	r := g.bounds
	return []geom.Point{{X: r.Min.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Max.Y}, {X: r.Min.X, Y: r.Max.Y}}
}
func (g *GraphicsPictureItem) Paint(p Painter) { p.Image(g.img, g.bounds) }
func (g *GraphicsPictureItem) Copy() Item      { cp := *g; return &cp }

// PixmapResolution is one rasterized variant of a PixmapGraphicsItem,
// keyed by pixel width.
type PixmapResolution struct {
	Width int
	Image image.Image
}

// PixmapGraphicsItem carries a raster image at one or more
// resolutions — the page background pixmap item of §3 holds several
// so the magnifier (§4.7) can pick whichever is already available at
// or above the width it needs.
type PixmapGraphicsItem struct {
	base
	bounds      geom.Rectangle
	resolutions []PixmapResolution
}

func NewPixmapGraphicsItem(id ID, bounds geom.Rectangle) *PixmapGraphicsItem {
	return &PixmapGraphicsItem{base: base{id: id, selectable: false}, bounds: bounds}
}

func (p *PixmapGraphicsItem) Kind() Kind                  { return KindPixmap }
func (p *PixmapGraphicsItem) BoundingRect() geom.Rectangle { return p.bounds }
func (p *PixmapGraphicsItem) Shape() []geom.Point {
	r := p.bounds
	return []geom.Point{{X: r.Min.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Max.Y}, {X: r.Min.X, Y: r.Max.Y}}
}

// AddResolution stores a rasterized variant of the page at the given
// pixel width, replacing any existing variant of the same width.
func (p *PixmapGraphicsItem) AddResolution(width int, img image.Image) {
	for i, r := range p.resolutions {
		if r.Width == width {
			p.resolutions[i].Image = img
			return
		}
	}
	p.resolutions = append(p.resolutions, PixmapResolution{Width: width, Image: img})
}

// Best returns the resolution with the smallest width that is still
// >= minWidth (next-larger-or-equal), falling back to the largest
// available resolution if none qualifies, per §4.7.
func (p *PixmapGraphicsItem) Best(minWidth int) (PixmapResolution, bool) {
	if len(p.resolutions) == 0 {
		return PixmapResolution{}, false
	}
	var best PixmapResolution
	haveBest := false
	var largest PixmapResolution
	for _, r := range p.resolutions {
		if r.Width > largest.Width {
			largest = r
		}
		if r.Width >= minWidth && (!haveBest || r.Width < best.Width) {
			best = r
			haveBest = true
		}
	}
	if haveBest {
		return best, true
	}
	return largest, true
}

func (p *PixmapGraphicsItem) Paint(painter Painter) {
	if r, ok := p.Best(0); ok {
		painter.Image(r.Image, p.bounds)
	}
}
func (p *PixmapGraphicsItem) Copy() Item {
	cp := *p
	cp.resolutions = append([]PixmapResolution(nil), p.resolutions...)
	return &cp
}
