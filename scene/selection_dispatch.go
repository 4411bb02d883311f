package scene

import (
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/tool"
)

// capturedTransforms snapshots the scene transform of every currently
// selected item, the "initial_scene_transform" Design Notes §9 asks
// selection operations to capture at Start.
func (s *SlideScene) capturedTransforms() map[item.ID]geom.Affine2D {
	out := make(map[item.ID]geom.Affine2D, len(s.Overlay.Items))
	for _, id := range s.Overlay.Items {
		if it, ok := s.Container.Get(id); ok {
			out[id] = it.Transform()
		}
	}
	return out
}

// dispatchSelection handles the persistent selection tool bound by
// device, or a temporary one bound to a handle drag (temp == true),
// per §4.5's Selection Start/Update/Stop.
func (s *SlideScene) dispatchSelection(t *tool.SelectionTool, e InputEvent, temp bool) error {
	switch e.Phase {
	case PhaseStart:
		if temp {
			return nil // already begun by tryBeginTempSelection
		}
		return s.selectionStart(t, e)
	case PhaseUpdate:
		deltas := t.LiveUpdate(e.Position)
		for id, tr := range deltas {
			if it, ok := s.Container.Get(id); ok {
				it.SetTransform(tr)
			}
		}
		if t.Op == tool.OpSelectRect || t.Op == tool.OpSelectPolygon {
			s.Overlay.Rect = controlPointRect(t.SelectRectPolygon())
		}
		return nil
	case PhaseStop:
		return s.selectionStop(t, temp)
	case PhaseCancel:
		if temp {
			s.tempSelection = nil
		}
		t.Reset()
		return nil
	}
	return nil
}

// selectionStart implements §4.5's Selection (Start) for a
// persistently-bound selection tool (not a handle-drag).
func (s *SlideScene) selectionStart(t *tool.SelectionTool, e InputEvent) error {
	initial := s.capturedTransforms()
	if s.Overlay.Visible() && s.Overlay.Rect.ContainsPoint(e.Position) {
		t.BeginMove(e.Position, initial)
		return nil
	}
	if s.Overlay.Visible() {
		s.ClearFocus()
	}
	switch t.Variant {
	case tool.VariantRect:
		t.BeginSelectRect(e.Position)
	case tool.VariantFreehand:
		t.BeginSelectPolygon(e.Position)
	default: // VariantBasic: select the single item under the cursor
		if id, ok := s.itemAt(e.Position); ok {
			s.Overlay.Items = []item.ID{id}
			s.Overlay.Rebuild(s.Container.Get)
		}
	}
	return nil
}

// selectionStop implements §4.5's Selection (Stop).
func (s *SlideScene) selectionStop(t *tool.SelectionTool, temp bool) error {
	defer func() {
		if temp {
			s.tempSelection = nil
		}
		t.Reset()
	}()
	switch t.Op {
	case tool.OpMove, tool.OpRotate, tool.OpResize:
		transforms := make(map[item.ID]geom.Affine2D, len(t.Initial))
		for id, initial := range t.Initial {
			if it, ok := s.Container.Get(id); ok {
				transforms[id] = initial.Invert().Mul(it.Transform())
			}
		}
		if _, err := s.Container.AddChanges(transforms, nil, nil); err != nil {
			return err
		}
	case tool.OpSelectRect:
		s.rebuildSelectionFromRegion(t.SelectRectPolygon(), true)
	case tool.OpSelectPolygon:
		s.rebuildSelectionFromRegion(t.Polygon, false)
	}
	return nil
}

// rebuildSelectionFromRegion implements §4.5's "rect: contains
// bounding rect; polygon: every vertex of mapToScene(shape) inside
// the polygon" selection-region test.
func (s *SlideScene) rebuildSelectionFromRegion(region []geom.Point, rectMode bool) {
	bounds := controlPointRect(region)
	var selected []item.ID
	for _, it := range s.Container.VisibleItems() {
		if !it.Selectable() {
			continue
		}
		shape := item.SceneShape(it)
		if rectMode {
			if bounds.Union(item.SceneBoundingRect(it)) == bounds {
				selected = append(selected, it.ID())
			}
			continue
		}
		if tool.ContainsSceneShape(region, shape) {
			selected = append(selected, it.ID())
		}
	}
	s.Overlay.Items = selected
	s.Overlay.Rebuild(s.Container.Get)
}

// itemAt returns the topmost visible, selectable item whose scene
// shape contains pos.
func (s *SlideScene) itemAt(pos geom.Point) (item.ID, bool) {
	items := s.Container.VisibleItems()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if !it.Selectable() {
			continue
		}
		if item.SceneBoundingRect(it).ContainsPoint(pos) {
			return it.ID(), true
		}
	}
	return 0, false
}

// DeleteSelection removes every currently selected item in one step,
// bound to the overlay's delete handle.
func (s *SlideScene) DeleteSelection() error {
	ids := s.Overlay.Items
	s.ClearFocus()
	return s.Container.RemoveItems(ids)
}
