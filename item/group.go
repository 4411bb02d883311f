package item

import "github.com/slidepresenter/engine/geom"

// Group is a transient item-group: the in-flight feedback group a
// draw tool paints live segments into (§4.5) and the grouping an
// eraser micro-step uses to hold a path's freshly split sub-paths
// until ApplyMicroStep flattens them into the container (§4.4). It is
// never itself added to a PathContainer's permanent item map.
type Group struct {
	base
	children []Item
}

func NewGroup(id ID) *Group {
	return &Group{base: base{id: id, selectable: false}}
}

func (g *Group) Kind() Kind { return KindGroup }

func (g *Group) Children() []Item { return g.children }

func (g *Group) Add(it Item) { g.children = append(g.children, it) }

// Remove drops the child at the given index, preserving order.
func (g *Group) Remove(idx int) {
	g.children = append(g.children[:idx], g.children[idx+1:]...)
}

// Replace swaps the child at idx for replacement (possibly several
// items, as split_erase can produce multiple sub-paths from one
// child).
func (g *Group) Replace(idx int, replacement []Item) {
	tail := append([]Item(nil), g.children[idx+1:]...)
	g.children = append(g.children[:idx], replacement...)
	g.children = append(g.children, tail...)
}

func (g *Group) BoundingRect() geom.Rectangle {
	if len(g.children) == 0 {
		return geom.Rectangle{}
	}
	b := SceneBoundingRect(g.children[0])
	for _, c := range g.children[1:] {
		b = b.Union(SceneBoundingRect(c))
	}
	return b
}

func (g *Group) Shape() []geom.Point {
	r := g.BoundingRect()
	return []geom.Point{{X: r.Min.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Max.Y}, {X: r.Min.X, Y: r.Max.Y}}
}

func (g *Group) Paint(p Painter) {
	for _, c := range g.children {
		c.Paint(p)
	}
}

func (g *Group) Copy() Item {
	cp := &Group{base: g.base}
	for _, c := range g.children {
		cp.children = append(cp.children, c.Copy())
	}
	return cp
}
