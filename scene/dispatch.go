package scene

import "github.com/slidepresenter/engine/tool"

// Dispatch routes a normalized input event to the appropriate tool
// handler, implementing §4.5's event multiplexing algorithm.
func (s *SlideScene) Dispatch(e InputEvent) error {
	if e.Phase == PhaseStart && s.tempSelection == nil {
		bound := s.lookupTool(e.Device)
		_, isDraw := bound.(*tool.DrawTool)
		if s.Overlay.Visible() && (bound == nil || isDraw) {
			if handled, err := s.tryBeginTempSelection(e); handled {
				return err
			}
		}
	}
	if s.tempSelection != nil {
		return s.dispatchSelection(s.tempSelection, e, true)
	}

	switch t := s.lookupTool(e.Device).(type) {
	case *tool.DrawTool:
		return s.dispatchDraw(t, e)
	case *tool.PointingTool:
		return s.dispatchPointing(t, e)
	case *tool.SelectionTool:
		return s.dispatchSelection(t, e, false)
	case *tool.TextTool:
		return s.dispatchText(t, e)
	default:
		if e.Phase == PhaseStart {
			s.dispatchNoTool(e)
		}
		return nil
	}
}

// tryBeginTempSelection checks whether e's Start position hits a
// handle or the selection interior and, if so, binds a temporary
// selection tool for the gesture, per §4.5 step 2.
func (s *SlideScene) tryBeginTempSelection(e InputEvent) (handled bool, err error) {
	h, hit := s.Overlay.HitTest(e.Position)
	if !hit {
		return false, nil
	}
	t := &tool.SelectionTool{Devices: e.Device}
	initial := s.capturedTransforms()
	switch h {
	case HandleRotate:
		t.BeginRotate(s.Overlay.Rect.Center(), e.Position, initial)
	case HandleDelete:
		s.DeleteSelection()
		return true, nil
	case HandleNone:
		t.BeginMove(e.Position, initial)
	default:
		t.BeginResize(s.Overlay.HandlePoint(h), s.Overlay.Opposite(h), initial)
	}
	s.tempSelection = t
	return true, nil
}

