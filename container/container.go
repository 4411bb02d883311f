// Package container implements the per-page PathContainer of §4.4: an
// owner of graphics items with a z-ordered set, reference-counted
// lifetime shared between current state and history, and a multi-step
// undo/redo history including eraser micro-steps.
package container

import (
	"image/color"
	"sort"

	"github.com/pkg/errors"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
)

// History cursor sentinels, per §3.
const (
	cursorMicroStep = -1
	cursorPlainCopy = -2
)

// ZChange records an item's z-value before and after a step.
type ZChange struct{ Old, New float64 }

// ToolChange records a path's paint tool before and after a step.
type ToolChange struct{ Old, New style.Stroke }

// TextChange records a text item's font before/after and the XOR
// delta applied to its color, per §3's Step definition.
type TextChange struct {
	OldFont, NewFont item.Font
	RGBAXor          color.RGBA
}

// Step is one history entry, atomic with respect to Undo/Redo.
type Step struct {
	ZValueChanges       map[item.ID]ZChange
	Transformed         map[item.ID]geom.Affine2D
	DrawToolChanges     map[item.ID]ToolChange
	TextPropertyChanges map[item.ID]TextChange
	Created             []item.ID
	Deleted             []item.ID
}

func newStep() Step {
	return Step{
		ZValueChanges:       map[item.ID]ZChange{},
		Transformed:         map[item.ID]geom.Affine2D{},
		DrawToolChanges:     map[item.ID]ToolChange{},
		TextPropertyChanges: map[item.ID]TextChange{},
	}
}

// Empty reports whether every collection in the step is empty.
func (s Step) Empty() bool {
	return len(s.ZValueChanges) == 0 && len(s.Transformed) == 0 &&
		len(s.DrawToolChanges) == 0 && len(s.TextPropertyChanges) == 0 &&
		len(s.Created) == 0 && len(s.Deleted) == 0
}

type entry struct {
	item     item.Item
	refCount int32
	visible  bool
}

// SceneHooks lets the container notify a host scene when an item's
// presence changes, without the container importing the scene
// package. nil hooks are valid no-ops.
type SceneHooks struct {
	Show func(item.Item)
	Hide func(item.Item)
}

// PathContainer owns every graphics item on one (page, page-part).
type PathContainer struct {
	items   map[item.ID]*entry
	zOrder  []item.ID
	history []Step
	// inHistory is the cursor: 0 means "at the newest step", >0 is
	// the number of steps behind the newest (redo depth), and the
	// two sentinel values above mean an in-progress eraser
	// micro-step or a plain unextendable copy, respectively.
	inHistory int
	nextID    item.ID
	hooks     SceneHooks

	// FinalizeSplit mirrors the "finalize new paths" config flag:
	// when true, ApplyMicroStep calls Finalize on every sub-path an
	// eraser produced.
	FinalizeSplit bool
}

// New creates an empty container.
func New() *PathContainer {
	return &PathContainer{items: map[item.ID]*entry{}}
}

// SetHooks installs the scene-visibility callbacks.
func (c *PathContainer) SetHooks(h SceneHooks) { c.hooks = h }

// NewItemID allocates a fresh, container-unique item id.
func (c *PathContainer) NewItemID() item.ID {
	c.nextID++
	return c.nextID
}

// IsPlainCopy reports whether the container is a frozen snapshot
// (inHistory == -2) whose history cannot be extended without first
// calling ResetHistory.
func (c *PathContainer) IsPlainCopy() bool { return c.inHistory == cursorPlainCopy }

// MarkPlainCopy freezes the container as a plain copy, per §3.
func (c *PathContainer) MarkPlainCopy() { c.inHistory = cursorPlainCopy }

// ResetHistory repairs an invalid cursor (§7's HistoryStateError
// policy: log and silently reset to 0) and clears all history.
func (c *PathContainer) ResetHistory() {
	for _, s := range c.history {
		c.deleteStep(s)
	}
	c.history = nil
	c.inHistory = 0
}

// Items returns the ids currently owned by the container (both
// visible and hidden-but-referenced-by-history).
func (c *PathContainer) Items() []item.ID {
	out := make([]item.ID, 0, len(c.items))
	for id := range c.items {
		out = append(out, id)
	}
	return out
}

// Get returns the item for id and whether it exists.
func (c *PathContainer) Get(id item.ID) (item.Item, bool) {
	e, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return e.item, true
}

// Visible reports whether id is currently shown on the logical slide.
func (c *PathContainer) Visible(id item.ID) bool {
	e, ok := c.items[id]
	return ok && e.visible
}

// VisibleItems returns every currently visible item, in z-order.
func (c *PathContainer) VisibleItems() []item.Item {
	var out []item.Item
	for _, id := range c.zOrder {
		if e := c.items[id]; e.visible {
			out = append(out, e.item)
		}
	}
	return out
}

// RefCount exposes the reference count for id (0 if absent), used by
// invariant tests.
func (c *PathContainer) RefCount(id item.ID) int32 {
	if e, ok := c.items[id]; ok {
		return e.refCount
	}
	return 0
}

// ZOrder returns the items ordered by ascending z, used by invariant
// tests to check membership parity with Items().
func (c *PathContainer) ZOrder() []item.ID {
	out := make([]item.ID, len(c.zOrder))
	copy(out, c.zOrder)
	return out
}

// TopZ returns the highest z-value currently in use, or 0 if empty.
func (c *PathContainer) TopZ() float64 {
	if len(c.zOrder) == 0 {
		return 0
	}
	return c.items[c.zOrder[len(c.zOrder)-1]].item.Z()
}

// BottomZ returns the lowest z-value currently in use, or 0 if empty.
func (c *PathContainer) BottomZ() float64 {
	if len(c.zOrder) == 0 {
		return 0
	}
	return c.items[c.zOrder[0]].item.Z()
}

func (c *PathContainer) insertZOrder(id item.ID) {
	z := c.items[id].item.Z()
	i := sort.Search(len(c.zOrder), func(i int) bool {
		return c.items[c.zOrder[i]].item.Z() >= z
	})
	c.zOrder = append(c.zOrder, 0)
	copy(c.zOrder[i+1:], c.zOrder[i:])
	c.zOrder[i] = id
}

func (c *PathContainer) removeZOrder(id item.ID) {
	for i, o := range c.zOrder {
		if o == id {
			c.zOrder = append(c.zOrder[:i], c.zOrder[i+1:]...)
			return
		}
	}
}

func (c *PathContainer) resortZ(id item.ID) {
	c.removeZOrder(id)
	c.insertZOrder(id)
}

// keepItem increments id's reference count and, if visible is true,
// marks it visible, installing a fresh entry if id is new to the
// container.
func (c *PathContainer) keepItem(it item.Item, visible bool) {
	e, ok := c.items[it.ID()]
	if !ok {
		e = &entry{item: it}
		c.items[it.ID()] = e
		c.insertZOrder(it.ID())
	}
	e.refCount++
	if visible {
		e.visible = true
	}
}

// releaseItem decrements id's reference count and destroys the item
// (removes it from items and zOrder) once the count reaches zero
// while invisible, or goes negative.
func (c *PathContainer) releaseItem(id item.ID) {
	e, ok := c.items[id]
	if !ok {
		return
	}
	e.refCount--
	if e.refCount < 0 || (e.refCount == 0 && !e.visible) {
		delete(c.items, id)
		c.removeZOrder(id)
	}
}

// deleteStep releases every item referenced anywhere in step, once
// per occurrence, per §4.4.
func (c *PathContainer) deleteStep(s Step) {
	for id := range s.ZValueChanges {
		c.releaseItem(id)
	}
	for id := range s.Transformed {
		c.releaseItem(id)
	}
	for id := range s.DrawToolChanges {
		c.releaseItem(id)
	}
	for id := range s.TextPropertyChanges {
		c.releaseItem(id)
	}
	for _, id := range s.Created {
		c.releaseItem(id)
	}
	for _, id := range s.Deleted {
		c.releaseItem(id)
	}
}

// truncateHistory discards every redo entry (everything the cursor is
// currently behind), releasing the items each dropped step
// references, per §4.4's "every mutating operation first truncates".
func (c *PathContainer) truncateHistory() error {
	switch c.inHistory {
	case cursorPlainCopy:
		return errors.New("container: cannot extend history of a plain copy")
	case cursorMicroStep:
		return errors.New("container: cannot truncate history during an eraser micro-step")
	}
	if c.inHistory > 0 {
		cut := len(c.history) - c.inHistory
		for _, s := range c.history[cut:] {
			c.deleteStep(s)
		}
		c.history = c.history[:cut]
		c.inHistory = 0
	}
	return nil
}

func (c *PathContainer) showItem(e *entry) {
	e.visible = true
	if c.hooks.Show != nil {
		c.hooks.Show(e.item)
	}
}

func (c *PathContainer) hideItem(e *entry) {
	e.visible = false
	if c.hooks.Hide != nil {
		c.hooks.Hide(e.item)
	}
}

// AppendForeground adds a brand-new item on top of the current
// z-order, recording a single-step "created" entry.
func (c *PathContainer) AppendForeground(it item.Item) error {
	if err := c.truncateHistory(); err != nil {
		return err
	}
	it.SetZ(c.TopZ() + 10)
	c.keepItem(it, true)
	if c.hooks.Show != nil {
		c.hooks.Show(it)
	}
	step := newStep()
	step.Created = []item.ID{it.ID()}
	c.history = append(c.history, step)
	c.inHistory = 0
	return nil
}

// RemoveItems deletes the given items in a single step: they remain
// owned (referenced by this step) but become invisible.
func (c *PathContainer) RemoveItems(ids []item.ID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := c.truncateHistory(); err != nil {
		return err
	}
	step := newStep()
	step.Deleted = append([]item.ID(nil), ids...)
	for _, id := range ids {
		e, ok := c.items[id]
		if !ok {
			continue
		}
		e.refCount++
		c.hideItem(e)
	}
	c.history = append(c.history, step)
	c.inHistory = 0
	return nil
}

// ReplaceItem atomically deletes old and inserts replacement in one
// step; old may be the zero ID and replacement may be nil to mean "no
// item on that side".
func (c *PathContainer) ReplaceItem(old item.ID, replacement item.Item) error {
	if err := c.truncateHistory(); err != nil {
		return err
	}
	step := newStep()
	if old != 0 {
		step.Deleted = []item.ID{old}
		if e, ok := c.items[old]; ok {
			e.refCount++
			c.hideItem(e)
		}
	}
	if replacement != nil {
		replacement.SetZ(c.TopZ() + 10)
		c.keepItem(replacement, true)
		if c.hooks.Show != nil {
			c.hooks.Show(replacement)
		}
		step.Created = []item.ID{replacement.ID()}
	}
	c.history = append(c.history, step)
	c.inHistory = 0
	return nil
}

// AddPathsForeground appends several new items as one "paths-added"
// step, used by clipboard paste and arrow export.
func (c *PathContainer) AddPathsForeground(items []item.Item) error {
	if len(items) == 0 {
		return nil
	}
	if err := c.truncateHistory(); err != nil {
		return err
	}
	step := newStep()
	z := c.TopZ()
	for _, it := range items {
		z += 10
		it.SetZ(z)
		c.keepItem(it, true)
		if c.hooks.Show != nil {
			c.hooks.Show(it)
		}
		step.Created = append(step.Created, it.ID())
	}
	c.history = append(c.history, step)
	c.inHistory = 0
	return nil
}

// BringToForeground shifts every item in ids so the minimum z among
// them lands just above the current top; it is rejected (returns
// false, no-op) if the shift would not actually move them above
// everything else.
func (c *PathContainer) BringToForeground(ids []item.ID) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	minZ := c.items[ids[0]].item.Z()
	for _, id := range ids[1:] {
		if z := c.items[id].item.Z(); z < minZ {
			minZ = z
		}
	}
	inSet := make(map[item.ID]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}
	aboveOthers := true
	for _, id := range c.zOrder {
		if !inSet[id] && c.items[id].item.Z() >= minZ {
			aboveOthers = false
			break
		}
	}
	if aboveOthers {
		return false, nil
	}
	shift := c.TopZ() + 10 - minZ
	if shift <= 0 {
		return false, nil
	}
	if err := c.truncateHistory(); err != nil {
		return false, err
	}
	step := newStep()
	for _, id := range ids {
		e := c.items[id]
		old := e.item.Z()
		e.item.SetZ(old + shift)
		c.resortZ(id)
		step.ZValueChanges[id] = ZChange{Old: old, New: old + shift}
	}
	c.history = append(c.history, step)
	c.inHistory = 0
	return true, nil
}

// BringToBackground multiplies every item in ids' z by
// 0.9*bottomZ/maxZInList, per §4.4.
func (c *PathContainer) BringToBackground(ids []item.ID) error {
	if len(ids) == 0 {
		return nil
	}
	maxZ := c.items[ids[0]].item.Z()
	for _, id := range ids[1:] {
		if z := c.items[id].item.Z(); z > maxZ {
			maxZ = z
		}
	}
	if maxZ == 0 {
		return nil
	}
	if err := c.truncateHistory(); err != nil {
		return err
	}
	factor := 0.9 * c.BottomZ() / maxZ
	step := newStep()
	for _, id := range ids {
		e := c.items[id]
		old := e.item.Z()
		newZ := old * factor
		e.item.SetZ(newZ)
		c.resortZ(id)
		step.ZValueChanges[id] = ZChange{Old: old, New: newZ}
	}
	c.history = append(c.history, step)
	c.inHistory = 0
	return nil
}

// AddChanges records any mix of per-item transform/tool/text property
// deltas as one step; it is rejected (returns false, no-op) if all
// three collections are empty.
func (c *PathContainer) AddChanges(
	transforms map[item.ID]geom.Affine2D,
	toolChanges map[item.ID]ToolChange,
	textChanges map[item.ID]TextChange,
) (bool, error) {
	if len(transforms) == 0 && len(toolChanges) == 0 && len(textChanges) == 0 {
		return false, nil
	}
	if err := c.truncateHistory(); err != nil {
		return false, err
	}
	step := newStep()
	for id, d := range transforms {
		step.Transformed[id] = d
		c.items[id].refCount++
	}
	for id, tc := range toolChanges {
		step.DrawToolChanges[id] = tc
		c.items[id].refCount++
	}
	for id, tx := range textChanges {
		step.TextPropertyChanges[id] = tx
		c.items[id].refCount++
	}
	c.history = append(c.history, step)
	c.inHistory = 0
	return true, nil
}

// ClearPaths deletes every currently visible item in one step.
func (c *PathContainer) ClearPaths() error {
	var ids []item.ID
	for _, id := range c.zOrder {
		if c.items[id].visible {
			ids = append(ids, id)
		}
	}
	return c.RemoveItems(ids)
}
