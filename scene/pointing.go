package scene

import "github.com/slidepresenter/engine/tool"

// MagnifierRequester lets the view package ask the rendering cache
// for an enlarged page render without the scene importing cache
// directly; wired by whichever view hosts this scene.
type MagnifierRequester interface {
	RequestEnlarged(page int, zoom float32)
}

func (s *SlideScene) dispatchPointing(t *tool.PointingTool, e InputEvent) error {
	switch e.Phase {
	case PhaseStart:
		if t.Kind == tool.KindEraser {
			return s.Container.StartMicroStep()
		}
		t.SetPosition(e.Slot, e.Position)
		s.requestMagnify(t)
	case PhaseUpdate:
		if t.Kind == tool.KindEraser {
			return s.Container.EraserMicroStep(e.Position, t.Radius)
		}
		t.SetPosition(e.Slot, e.Position)
		s.requestMagnify(t)
	case PhaseStop:
		if t.Kind == tool.KindEraser {
			deleted, err := s.Container.ApplyMicroStep()
			if err != nil {
				return err
			}
			if deleted {
				s.onUnsavedDrawings()
			}
			return nil
		}
		if !t.Devices.Has(tool.DeviceTabletHover | tool.DeviceNoButton) {
			t.ClearPositions()
		}
	case PhaseCancel:
		if t.Kind == tool.KindEraser {
			return s.Container.CancelMicroStep()
		}
		t.ClearPositions()
	}
	return nil
}

func (s *SlideScene) requestMagnify(t *tool.PointingTool) {
	if t.Kind != tool.KindMagnifier || s.magnifier == nil {
		return
	}
	s.magnifier.RequestEnlarged(s.Page, t.Scale)
}

// onUnsavedDrawings is the "unsaved-drawings" signal of §4.5,
// surfaced to whoever wires OnUnsavedDrawings.
func (s *SlideScene) onUnsavedDrawings() {
	if s.OnUnsavedDrawings != nil {
		s.OnUnsavedDrawings()
	}
}
