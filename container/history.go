package container

import (
	"image/color"

	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
)

// Undo reverts the most recently applied step, moving the cursor one
// step back (increasing the redo depth). It returns false without
// changing anything if the cursor is already at the oldest step.
func (c *PathContainer) Undo() bool {
	if c.inHistory < 0 {
		c.inHistory = 0
		return false
	}
	if c.inHistory >= len(c.history) {
		return false
	}
	c.inHistory++
	step := c.history[len(c.history)-c.inHistory]
	c.applyUndo(step)
	return true
}

// Redo re-applies the step most recently undone. It returns false
// without changing anything if there is no redo step available.
func (c *PathContainer) Redo() bool {
	if c.inHistory <= 0 {
		return false
	}
	step := c.history[len(c.history)-c.inHistory]
	c.applyRedo(step)
	c.inHistory--
	return true
}

func (c *PathContainer) applyUndo(step Step) {
	for id, delta := range step.Transformed {
		e := c.items[id]
		e.item.SetTransform(e.item.Transform().Mul(delta.Invert()))
	}
	for id, zc := range step.ZValueChanges {
		e := c.items[id]
		e.item.SetZ(zc.Old)
		c.resortZ(id)
	}
	for id, tc := range step.DrawToolChanges {
		setPathTool(c.items[id].item, tc.Old)
	}
	for id, tx := range step.TextPropertyChanges {
		setTextProps(c.items[id].item, tx.OldFont, tx.RGBAXor)
	}
	for _, id := range step.Created {
		c.hideItem(c.items[id])
	}
	for _, id := range step.Deleted {
		c.showItem(c.items[id])
	}
}

func (c *PathContainer) applyRedo(step Step) {
	for id, delta := range step.Transformed {
		e := c.items[id]
		e.item.SetTransform(e.item.Transform().Mul(delta))
	}
	for id, zc := range step.ZValueChanges {
		e := c.items[id]
		e.item.SetZ(zc.New)
		c.resortZ(id)
	}
	for id, tc := range step.DrawToolChanges {
		setPathTool(c.items[id].item, tc.New)
	}
	for id, tx := range step.TextPropertyChanges {
		setTextProps(c.items[id].item, tx.NewFont, tx.RGBAXor)
	}
	for _, id := range step.Created {
		c.showItem(c.items[id])
	}
	for _, id := range step.Deleted {
		c.hideItem(c.items[id])
	}
}

// toolSetter is implemented by every path item; setPathTool is a
// no-op on anything else, per the design note that downcasts only
// matter where semantics require it.
type toolSetter interface {
	ChangeTool(style.Stroke)
}

func setPathTool(it item.Item, s style.Stroke) {
	if ts, ok := it.(toolSetter); ok {
		ts.ChangeTool(s)
	}
}

// textSetter is implemented by *item.TextGraphicsItem; setTextProps
// is a no-op on anything else.
type textSetter interface {
	SetFont(item.Font)
	SetColor(color.RGBA)
	Color() color.RGBA
}

func setTextProps(it item.Item, font item.Font, xor color.RGBA) {
	ts, ok := it.(textSetter)
	if !ok {
		return
	}
	ts.SetFont(font)
	ts.SetColor(style.XorRGBA(ts.Color(), xor))
}

// ClearHistory drops the oldest steps so that, after the call, at
// most `keep` steps older than the cursor remain — releasing the
// items each dropped step references.
func (c *PathContainer) ClearHistory(keep int) {
	if c.inHistory < 0 {
		return
	}
	behind := len(c.history) - c.inHistory
	drop := behind - keep
	if drop <= 0 {
		return
	}
	for _, s := range c.history[:drop] {
		c.deleteStep(s)
	}
	c.history = c.history[drop:]
}

// HistoryLen reports the number of steps currently recorded.
func (c *PathContainer) HistoryLen() int { return len(c.history) }

// InHistory reports the current cursor depth (redo steps available),
// or the sentinel value during a micro-step/plain-copy state.
func (c *PathContainer) InHistory() int { return c.inHistory }
