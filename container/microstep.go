package container

import (
	"github.com/pkg/errors"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
)

// splitErasable is implemented by every path item; EraserMicroStep
// ignores anything that doesn't implement it.
type splitErasable interface {
	SplitErase(scenePos geom.Point, size float32, newID func() item.ID) ([]item.Item, bool)
}

// StartMicroStep begins an eraser gesture: it truncates redo history
// and opens a fresh, empty step that EraserMicroStep accumulates into
// until ApplyMicroStep (or Cancel, which applies then calls Undo)
// closes it.
func (c *PathContainer) StartMicroStep() error {
	if err := c.truncateHistory(); err != nil {
		return err
	}
	c.history = append(c.history, newStep())
	c.inHistory = cursorMicroStep
	return nil
}

// EraserMicroStep walks every currently visible item intersecting the
// square scenePos +/- size: paths are split in place, and a path's
// first hit this micro-step is hidden and replaced by a transient
// item.Group holding its surviving sub-paths, per §4.4. Calling this
// outside an in-progress micro-step is a HistoryStateError (§7): it
// silently repairs the cursor to 0 and does nothing.
func (c *PathContainer) EraserMicroStep(scenePos geom.Point, size float32) error {
	if c.inHistory != cursorMicroStep {
		c.inHistory = 0
		return errors.New("container: eraser_micro_step called without an open micro-step")
	}
	step := &c.history[len(c.history)-1]
	region := geom.Rectangle{
		Min: geom.Pt(scenePos.X-size, scenePos.Y-size),
		Max: geom.Pt(scenePos.X+size, scenePos.Y+size),
	}
	ids := append([]item.ID(nil), c.zOrder...)
	for _, id := range ids {
		e, ok := c.items[id]
		if !ok || !e.visible {
			continue
		}
		if group, ok := e.item.(*item.Group); ok && belongsToStep(step, id) {
			c.eraseGroupChildren(group, scenePos, size)
			continue
		}
		path, ok := e.item.(splitErasable)
		if !ok {
			continue
		}
		if !item.SceneBoundingRect(e.item).Inset(-size).Intersect(region).Empty() {
			subs, touched := path.SplitErase(scenePos, size, c.NewItemID)
			if !touched {
				continue
			}
			step.Deleted = append(step.Deleted, id)
			e.refCount++
			c.hideItem(e)

			group := item.NewGroup(c.NewItemID())
			for _, s := range subs {
				group.Add(s)
			}
			group.SetZ(e.item.Z() + 1e-4)
			c.keepItem(group, true)
			if c.hooks.Show != nil {
				c.hooks.Show(group)
			}
			step.Created = append(step.Created, group.ID())
		}
	}
	return nil
}

func belongsToStep(step *Step, id item.ID) bool {
	for _, c := range step.Created {
		if c == id {
			return true
		}
	}
	return false
}

func (c *PathContainer) eraseGroupChildren(group *item.Group, scenePos geom.Point, size float32) {
	children := group.Children()
	for i := 0; i < len(children); i++ {
		path, ok := children[i].(splitErasable)
		if !ok {
			continue
		}
		subs, touched := path.SplitErase(scenePos, size, c.NewItemID)
		if !touched {
			continue
		}
		group.Replace(i, subs)
		children = group.Children()
		i += len(subs) - 1
	}
}

// ApplyMicroStep closes the in-progress eraser gesture: every
// transient item.Group accumulated in step.Created is flattened into
// its surviving children (each finalized first if finalizeSplit is
// set), the group itself is discarded, and the history cursor returns
// to 0. It reports whether the step actually deleted anything.
func (c *PathContainer) ApplyMicroStep() (bool, error) {
	if c.inHistory != cursorMicroStep {
		c.inHistory = 0
		return false, errors.New("container: apply_micro_step called without an open micro-step")
	}
	step := &c.history[len(c.history)-1]
	var flattened []item.ID
	for _, id := range step.Created {
		e, ok := c.items[id]
		if !ok {
			continue
		}
		group, ok := e.item.(*item.Group)
		if !ok {
			flattened = append(flattened, id)
			continue
		}
		for _, child := range group.Children() {
			if c.FinalizeSplit {
				if f, ok := child.(interface{ Finalize() }); ok {
					f.Finalize()
				}
			}
			c.keepItem(child, true)
			if c.hooks.Show != nil {
				c.hooks.Show(child)
			}
			flattened = append(flattened, child.ID())
		}
		delete(c.items, id)
		c.removeZOrder(id)
	}
	step.Created = flattened
	c.inHistory = 0
	return len(step.Deleted) > 0, nil
}

// CancelMicroStep applies the in-progress eraser step and immediately
// undoes it, per §4.5's Cancel-equals-Stop-then-undo rule.
func (c *PathContainer) CancelMicroStep() error {
	if _, err := c.ApplyMicroStep(); err != nil {
		return err
	}
	c.Undo()
	return nil
}
