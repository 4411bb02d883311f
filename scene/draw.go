package scene

import (
	"math"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/recognize"
	"github.com/slidepresenter/engine/tool"
)

func (s *SlideScene) dispatchDraw(t *tool.DrawTool, e InputEvent) error {
	switch e.Phase {
	case PhaseStart:
		return s.drawStart(t, e)
	case PhaseUpdate:
		s.drawUpdate(e)
		return nil
	case PhaseStop:
		return s.drawStop(t, false)
	case PhaseCancel:
		return s.drawStop(t, true)
	}
	return nil
}

// drawStart implements §4.5's Draw tool (Start): stop any prior
// in-flight drawing, clear selection/focus, open a transient feedback
// group, and create the in-flight item appropriate to t.Shape.
func (s *SlideScene) drawStart(t *tool.DrawTool, e InputEvent) error {
	if s.active != nil {
		if err := s.drawStop(s.active.tool, true); err != nil {
			return err
		}
	}
	s.ClearFocus()

	group := item.NewGroup(s.newItemID())
	group.SetZ(s.Container.TopZ() + 10)

	var it item.Item
	switch t.Shape {
	case tool.ShapeRect:
		it = item.NewRectGraphicsItem(s.newItemID(), e.Position, t.Stroke)
	case tool.ShapeEllipse:
		it = item.NewEllipseGraphicsItem(s.newItemID(), e.Position, t.Stroke)
	case tool.ShapeLine:
		it = item.NewLineGraphicsItem(s.newItemID(), e.Position, t.Stroke)
	case tool.ShapeArrow:
		it = item.NewArrowGraphicsItem(s.newItemID(), e.Position, t.Stroke)
	default: // ShapeFreehand, ShapeRecognize
		if t.IsPressureCapable(e.Device) {
			p := item.NewFullGraphicsPath(s.newItemID(), t.Stroke)
			p.AddPointPressure(e.Position, pressureOr1(e))
			it = p
		} else {
			p := item.NewBasicGraphicsPath(s.newItemID(), t.Stroke)
			p.AddPoint(e.Position)
			it = p
		}
	}
	it.SetZ(group.Z())
	s.active = &inFlight{tool: t, item: it, group: group}
	return nil
}

func pressureOr1(e InputEvent) float32 {
	if e.HasPressure {
		return e.Pressure
	}
	return 1
}

// drawUpdate implements §4.5's Draw tool (Update).
func (s *SlideScene) drawUpdate(e InputEvent) {
	if s.active == nil {
		return
	}
	switch it := s.active.item.(type) {
	case *item.FullGraphicsPath:
		it.AddPointPressure(e.Position, pressureOr1(e))
	case *item.BasicGraphicsPath:
		it.AddPoint(e.Position)
	case *item.RectGraphicsItem:
		it.SetSecondPoint(e.Position)
	case *item.EllipseGraphicsItem:
		it.SetSecondPoint(e.Position)
	case *item.LineGraphicsItem:
		it.SetSecondPoint(e.Position)
	case *item.ArrowGraphicsItem:
		it.SetSecondPoint(e.Position)
	}
}

// drawStop implements §4.5's Draw tool (Stop)/(Cancel): finalize the
// in-flight item, optionally run shape recognition, emit the history
// step, and discard the transient group. Cancel additionally undoes
// the emitted step.
func (s *SlideScene) drawStop(t *tool.DrawTool, cancel bool) error {
	f := s.active
	if f == nil {
		return nil
	}
	s.active = nil

	switch it := f.item.(type) {
	case *item.FullGraphicsPath:
		it.Finalize()
		if err := s.finishPath(t, &it.BasicGraphicsPath, it); err != nil {
			return err
		}
	case *item.BasicGraphicsPath:
		it.Finalize()
		if err := s.finishPath(t, it, it); err != nil {
			return err
		}
	case *item.RectGraphicsItem:
		if err := s.Container.ReplaceItem(0, it.ToPath(s.newItemID())); err != nil {
			return err
		}
	case *item.EllipseGraphicsItem:
		if err := s.Container.ReplaceItem(0, it.ToPath(s.newItemID())); err != nil {
			return err
		}
	case *item.LineGraphicsItem:
		if err := s.Container.ReplaceItem(0, it.ToPath(s.newItemID())); err != nil {
			return err
		}
	case *item.ArrowGraphicsItem:
		paths := it.ExportPaths(s.newItemID)
		items := make([]item.Item, len(paths))
		for i, p := range paths {
			items[i] = p
		}
		if err := s.Container.AddPathsForeground(items); err != nil {
			return err
		}
	}
	if cancel {
		s.Container.Undo()
	}
	return nil
}

// finishPath emits the path-added step for a finalized freehand
// stroke, running the shape recognizer first when the tool's shape is
// Recognize, per §4.5's "if the tool's shape is Recognize, run the
// shape recognizer and, if it returns a replacement, emit a
// replace_path step" rule.
func (s *SlideScene) finishPath(t *tool.DrawTool, basic *item.BasicGraphicsPath, full item.Item) error {
	if t.Shape != tool.ShapeRecognize {
		return s.Container.AppendForeground(full)
	}
	weights := weightsFor(full, len(basic.Coordinates()))
	bounds := item.SceneBoundingRect(full)
	if res, ok := recognize.Recognize(basic.Coordinates(), weights, bounds, recognize.DefaultThresholds()); ok {
		if replacement := recognizedToPath(s.newItemID(), basic, res); replacement != nil {
			return s.Container.ReplaceItem(0, replacement)
		}
	}
	return s.Container.AppendForeground(full)
}

// weightsFor returns per-point weights for the recognizer: device
// pressure for a variable-width path, uniform 1 otherwise, per §4.3.
func weightsFor(it item.Item, n int) []float32 {
	f, ok := it.(*item.FullGraphicsPath)
	if !ok {
		return nil
	}
	out := make([]float32, n)
	widths := f.Widths()
	for i := range out {
		out[i] = 1
		if i < len(widths) {
			out[i] = widths[i]
		}
	}
	return out
}

func recognizedToPath(id item.ID, basic *item.BasicGraphicsPath, res recognize.Result) *item.BasicGraphicsPath {
	p := item.NewBasicGraphicsPath(id, basic.Tool())
	switch res.Kind {
	case recognize.Line, recognize.Rect:
		if len(res.Points) < 2 {
			return nil
		}
		for _, pt := range res.Points {
			p.AddPoint(pt)
		}
		if res.Kind == recognize.Rect {
			p.AddPoint(res.Points[0])
		}
	case recognize.Ellipse:
		n := int((res.RX+res.RY)/3) + 10
		for i := 0; i <= n; i++ {
			a := 2 * math.Pi * float64(i%n) / float64(n)
			p.AddPoint(geom.Pt(res.Center.X+res.RX*float32(math.Cos(a)), res.Center.Y+res.RY*float32(math.Sin(a))))
		}
	default:
		return nil
	}
	p.Finalize()
	return p
}
